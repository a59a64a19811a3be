package config

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

// LoadSSMParameters reads every parameter under path (recursively, decrypted) and
// maps it to an environment-style key: /portfolio/prod/jwt_secret -> JWT_SECRET.
func LoadSSMParameters(ctx context.Context, path string) (map[string]string, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	client := ssm.NewFromConfig(awsCfg)

	params := make(map[string]string)
	paginator := ssm.NewGetParametersByPathPaginator(client, &ssm.GetParametersByPathInput{
		Path:           aws.String(path),
		Recursive:      aws.Bool(true),
		WithDecryption: aws.Bool(true),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range page.Parameters {
			params[ParameterKey(path, aws.ToString(p.Name))] = aws.ToString(p.Value)
		}
	}
	return params, nil
}

// ParameterKey converts a parameter name below prefix into an environment variable name
func ParameterKey(prefix, name string) string {
	name = strings.TrimPrefix(name, prefix)
	name = strings.Trim(name, "/")
	name = strings.NewReplacer("/", "_", "-", "_", ".", "_").Replace(name)
	return strings.ToUpper(name)
}

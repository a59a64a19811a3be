package storage

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API is the subset of the S3 client used by S3Store
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps files in a bucket. Keys are never reused, so objects are never overwritten.
type S3Store struct {
	client       S3API
	bucket       string
	region       string
	customDomain string
}

func NewS3Store(client S3API, bucket, region, customDomain string) *S3Store {
	return &S3Store{client: client, bucket: bucket, region: region, customDomain: customDomain}
}

func (s *S3Store) Save(ctx context.Context, key, contentType string, body io.Reader) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:       aws.String(s.bucket),
		Key:          aws.String(key),
		Body:         body,
		ContentType:  aws.String(contentType),
		CacheControl: aws.String("max-age=86400"),
	})
	if err != nil {
		return fmt.Errorf("upload %s to s3://%s: %w", key, s.bucket, err)
	}
	return nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete %s from s3://%s: %w", key, s.bucket, err)
	}
	return nil
}

func (s *S3Store) URL(key string) string {
	key = strings.TrimPrefix(key, "/")
	if s.customDomain != "" {
		return fmt.Sprintf("https://%s/%s", strings.TrimSuffix(s.customDomain, "/"), key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
}

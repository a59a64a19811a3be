// Package storage keeps uploaded project images outside the database.
package storage

import (
	"context"
	"io"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-site/config"
	"github.com/rpupo63/portfolio-site/errs"
)

// ImagePrefix is the key prefix for project images
const ImagePrefix = "project_images/"

// AssetStore saves, removes and links to stored files by key
type AssetStore interface {
	Save(ctx context.Context, key, contentType string, body io.Reader) error
	Delete(ctx context.Context, key string) error
	URL(key string) string
}

// NewImageKey returns a fresh key for a project image with the given extension
func NewImageKey(ext string) string {
	return ImagePrefix + uuid.NewString() + ext
}

// New builds the store selected by STORAGE_BACKEND
func New(ctx context.Context, cfg config.StorageConfig) (AssetStore, error) {
	switch cfg.Backend {
	case config.StorageBackendLocal:
		return NewLocalStore(cfg.MediaRoot, cfg.MediaURL), nil
	case config.StorageBackendS3:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, errs.NewConfigError("aws", err)
		}
		return NewS3Store(s3.NewFromConfig(awsCfg), cfg.Bucket, cfg.Region, cfg.CustomDomain), nil
	default:
		return nil, errs.NewInvalidConfigError("STORAGE_BACKEND", cfg.Backend)
	}
}

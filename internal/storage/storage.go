package storage

import (
	"context"
	"fmt"

	"scavenger-hunt-api/internal/config"
	"scavenger-hunt-api/internal/game"
)

var (
	_ game.Blobs = (*Local)(nil)
	_ game.Blobs = (*S3)(nil)
)

// New returns the blob store selected by STORAGE_DRIVER.
func New(ctx context.Context, cfg config.StorageConfig) (game.Blobs, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocal(cfg.Dir, cfg.PublicURL)
	case "s3", "r2":
		return NewS3(ctx, S3Options{
			Bucket:          cfg.S3Bucket,
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3KeyID,
			SecretAccessKey: cfg.S3Secret,
			PresignTTL:      cfg.PresignTTL,
		})
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
}

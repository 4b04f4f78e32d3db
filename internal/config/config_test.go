package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"PORT", "IN_REVIEW_ADVANCES", "CATALOG_TTL", "MAX_UPLOAD_BYTES", "STORAGE_DRIVER"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "8008", cfg.Server.Port)
	require.True(t, cfg.Game.InReviewAdvances)
	require.Equal(t, 2*time.Minute, cfg.Game.CatalogTTL)
	require.Equal(t, int64(10<<20), cfg.Game.MaxUploadBytes)
	require.Equal(t, "local", cfg.Storage.Driver)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("IN_REVIEW_ADVANCES", "false")
	t.Setenv("CATALOG_TTL", "30s")
	t.Setenv("MAX_UPLOAD_BYTES", "1024")
	t.Setenv("STORAGE_DRIVER", "S3")
	t.Setenv("JWT_TTL", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "9000", cfg.Server.Port)
	require.False(t, cfg.Game.InReviewAdvances)
	require.Equal(t, 30*time.Second, cfg.Game.CatalogTTL)
	require.Equal(t, int64(1024), cfg.Game.MaxUploadBytes)
	require.Equal(t, "s3", cfg.Storage.Driver)
	require.Equal(t, 24*time.Hour, cfg.JWT.TTL)
}

package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Storage  StorageConfig
	Game     GameConfig
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Path string
}

type JWTConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// StorageConfig selects where uploads go: "local" (a directory served under
// PublicURL) or "s3" (any S3-compatible bucket, e.g. Cloudflare R2).
type StorageConfig struct {
	Driver     string
	Dir        string
	PublicURL  string
	S3Bucket   string
	S3Endpoint string
	S3Region   string
	S3KeyID    string
	S3Secret   string
	PresignTTL time.Duration
}

type GameConfig struct {
	MaxUploadBytes   int64
	InReviewAdvances bool
	CatalogTTL       time.Duration
}

// Load reads the configuration from the environment, after loading a .env file
// from the working directory when one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Ignoring .env: %v", err)
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8008"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "scavenger_hunt.db"),
		},
		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET", "development-insecure-secret-change-me"),
			Issuer:   getEnv("JWT_ISSUER", "scavenger-hunt-api"),
			Audience: getEnv("JWT_AUDIENCE", "scavenger-hunt-clients"),
			TTL:      getEnvAsDuration("JWT_TTL", 24*time.Hour),
		},
		Storage: StorageConfig{
			Driver:     strings.ToLower(getEnv("STORAGE_DRIVER", "local")),
			Dir:        getEnv("STORAGE_DIR", "uploads"),
			PublicURL:  getEnv("STORAGE_PUBLIC_URL", "/uploads"),
			S3Bucket:   getEnv("S3_BUCKET", ""),
			S3Endpoint: getEnv("S3_ENDPOINT", ""),
			S3Region:   getEnv("S3_REGION", "auto"),
			S3KeyID:    getEnv("S3_ACCESS_KEY_ID", ""),
			S3Secret:   getEnv("S3_SECRET_ACCESS_KEY", ""),
			PresignTTL: getEnvAsDuration("S3_PRESIGN_TTL", time.Hour),
		},
		Game: GameConfig{
			MaxUploadBytes:   getEnvAsInt64("MAX_UPLOAD_BYTES", 10<<20),
			InReviewAdvances: getEnvAsBool("IN_REVIEW_ADVANCES", true),
			CatalogTTL:       getEnvAsDuration("CATALOG_TTL", 2*time.Minute),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	// Try parsing as duration string (e.g., "15m", "24h")
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}

	return defaultValue
}

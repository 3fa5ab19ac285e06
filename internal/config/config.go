// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/presigner/service/internal/storage"
)

// Config holds all runtime configuration for the service. It is built
// once at startup and passed by constructor injection; nothing reads the
// process environment after Load returns.
type Config struct {
	Port      string
	AppEnv    string
	JWTSecret string

	// Object storage (AWS S3 by default; MinIO/LocalStack via STORAGE_ENDPOINT)
	StorageRegion    string
	StorageAccessKey string // secret
	StorageSecretKey string // secret
	BucketName       string
	StorageEndpoint  string // optional host[:port] override, no scheme
	StorageUseSSL    bool

	// AuditDatabaseURL enables the issued-URL audit log when set.
	AuditDatabaseURL string
}

// Load reads configuration from a .env file (if present) and environment
// variables. Missing access credentials fail here, before any storage
// client is constructed or any network activity occurs. The bucket-name
// check is deferred to the operations that need it.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, reading from environment")
	}

	cfg := &Config{
		Port:      getEnv("PORT", "8080"),
		AppEnv:    getEnv("APP_ENV", "development"),
		JWTSecret: getEnv("JWT_SECRET", "change_me_in_production"),

		StorageRegion:    getEnv("AWS_REGION", "us-east-1"),
		StorageAccessKey: os.Getenv("AWS_ACCESS_KEY_ID"),
		StorageSecretKey: os.Getenv("AWS_SECRET_ACCESS_KEY"),
		BucketName:       os.Getenv("BUCKET_NAME"),
		StorageEndpoint:  os.Getenv("STORAGE_ENDPOINT"),
		StorageUseSSL:    getEnv("STORAGE_USE_SSL", "false") == "true",

		AuditDatabaseURL: os.Getenv("AUDIT_DATABASE_URL"),
	}

	if cfg.StorageAccessKey == "" {
		return nil, fmt.Errorf("%w: AWS_ACCESS_KEY_ID is not set", storage.ErrConfiguration)
	}
	if cfg.StorageSecretKey == "" {
		return nil, fmt.Errorf("%w: AWS_SECRET_ACCESS_KEY is not set", storage.ErrConfiguration)
	}

	return cfg, nil
}

// IsProduction returns true when the app is running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

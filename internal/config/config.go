package config

import (
	"os"
	"time"
)

type Config struct {
	Port        string
	Environment string
	DatabaseURL string
	JWKSURL     string
	CORSOrigins string
	// S3-compatible blob store
	S3Region    string
	S3Bucket    string
	S3AccessKey string
	S3SecretKey string
	S3Endpoint  string // Optional: MinIO, R2, DO Spaces
	// Presigned URL lifetime. 23 hours leaves a buffer before the 24h
	// expiry most S3-compatible stores enforce on SigV4 URLs.
	PresignExpiry time.Duration
	// Image generation
	OpenAIAPIKey  string
	OpenAIBaseURL string
	DefaultModel  string
	// Schema management
	RunMigrations bool
	MigrationsDir string
}

func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		JWKSURL:     getEnv("AUTH_JWKS_URL", ""),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),

		S3Region:    getEnv("S3_REGION", "us-east-1"),
		S3Bucket:    getEnv("S3_BUCKET", "imagestudio"),
		S3AccessKey: getEnv("S3_ACCESS_KEY_ID", ""),
		S3SecretKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
		S3Endpoint:  getEnv("S3_ENDPOINT", ""),

		PresignExpiry: envDuration("PRESIGN_EXPIRY", 23*time.Hour),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		DefaultModel:  getEnv("DEFAULT_MODEL", "gpt-image-1"),

		RunMigrations: getEnv("RUN_MIGRATIONS", "false") == "true",
		MigrationsDir: getEnv("MIGRATIONS_DIR", "db/migrations"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

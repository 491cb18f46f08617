package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Supabase
	SupabaseURL           string
	SupabaseServiceKey    string
	SupabaseJWTSecret     string
	SupabaseStorageBucket string

	// Database
	DatabaseURL string

	// Upload limits
	MaxProductImages  int
	MaxImageSizeBytes int64

	// Draft lifecycle
	DraftTTL           time.Duration
	DraftSweepInterval time.Duration

	// Storage retry policy
	RetryAttempts  int
	RetryBaseDelay time.Duration

	// Server
	Port        string
	Environment string
}

func Load() (*Config, error) {
	cfg := &Config{
		SupabaseURL:           getEnv("SUPABASE_URL", ""),
		SupabaseServiceKey:    getEnv("SUPABASE_SERVICE_KEY", ""),
		SupabaseJWTSecret:     getEnv("SUPABASE_JWT_SECRET", ""),
		SupabaseStorageBucket: getEnv("SUPABASE_STORAGE_BUCKET", "gallery"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		MaxProductImages:  getEnvInt("MAX_PRODUCT_IMAGES", 4),
		MaxImageSizeBytes: int64(getEnvInt("MAX_IMAGE_SIZE_BYTES", 200*1024)),

		DraftTTL:           getEnvDuration("DRAFT_TTL", 30*time.Minute),
		DraftSweepInterval: getEnvDuration("DRAFT_SWEEP_INTERVAL", 5*time.Minute),

		RetryAttempts:  getEnvInt("STORAGE_RETRY_ATTEMPTS", 3),
		RetryBaseDelay: getEnvDuration("STORAGE_RETRY_BASE_DELAY", 300*time.Millisecond),

		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.SupabaseURL == "" {
		return fmt.Errorf("SUPABASE_URL is required")
	}
	if c.SupabaseServiceKey == "" {
		return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
	}
	if c.SupabaseJWTSecret == "" {
		return fmt.Errorf("SUPABASE_JWT_SECRET is required")
	}
	if c.MaxProductImages <= 0 {
		return fmt.Errorf("MAX_PRODUCT_IMAGES must be positive")
	}
	if c.MaxImageSizeBytes <= 0 {
		return fmt.Errorf("MAX_IMAGE_SIZE_BYTES must be positive")
	}
	if c.DraftTTL <= 0 {
		return fmt.Errorf("DRAFT_TTL must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

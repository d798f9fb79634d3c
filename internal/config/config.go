package config

import (
	"fmt"
	"os"
)

type Config struct {
	// Supabase storage
	SupabaseURL     string
	SupabaseAnonKey string
	StorageBucket   string

	// Database (optional; in-memory document store when empty)
	DatabaseURL string

	// Identity
	JWTSecret        string
	DefaultUserID    string
	DefaultUserEmail string

	// Server
	Port        string
	Environment string
}

func Load() (*Config, error) {
	cfg := &Config{
		SupabaseURL:     getEnv("SUPABASE_URL", ""),
		SupabaseAnonKey: getEnv("SUPABASE_ANON_KEY", ""),
		StorageBucket:   getEnv("STORAGE_BUCKET_NAME", "medinote-audio-files"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		JWTSecret:        getEnv("JWT_SECRET", ""),
		DefaultUserID:    getEnv("DEFAULT_USER_ID", "user123"),
		DefaultUserEmail: getEnv("DEFAULT_USER_EMAIL", "user@example.com"),

		Port:        getEnv("PORT", "3000"),
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
	if c.SupabaseAnonKey == "" {
		return fmt.Errorf("SUPABASE_ANON_KEY is required")
	}
	if c.StorageBucket == "" {
		return fmt.Errorf("STORAGE_BUCKET_NAME is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

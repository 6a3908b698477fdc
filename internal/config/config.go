// Package config provides configuration loading and validation for the server.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds the runtime configuration, loaded from environment variables.
type Config struct {
	Port           int    // HTTP listen port
	ResumeAPIURL   string // Base URL of the remote persona/resume service
	ResumeAPIToken string // Bearer token for the remote service
	GeminiAPIKey   string // Gemini API key for the suggestion provider
	JWTSecret      string // Secret for validating session bearer tokens
	DatabaseURL    string // PostgreSQL URL for draft snapshots (optional)
}

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Port:           8080,
		ResumeAPIURL:   os.Getenv("RESUME_API_URL"),
		ResumeAPIToken: os.Getenv("RESUME_API_TOKEN"),
		GeminiAPIKey:   os.Getenv("GEMINI_API_KEY"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return nil, fmt.Errorf("invalid PORT: %v", err)
		}
		cfg.Port = port
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: port must be between 1 and 65535, got %d", c.Port)
	}
	if c.ResumeAPIURL == "" {
		return fmt.Errorf("config error: RESUME_API_URL is required")
	}
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("config error: GEMINI_API_KEY is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("config error: JWT_SECRET is required")
	}
	// DatabaseURL is optional: without it draft snapshots are disabled.
	return nil
}

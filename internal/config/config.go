// Package config loads server configuration from the environment,
// with optional .env support for local development.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration for the server.
type Config struct {
	// HTTP server
	Port     string
	Env      string // development | production
	LogLevel string

	// Legacy repository API (solicitudes.php, refacciones.php)
	APIBaseURL string
	APITimeout time.Duration

	// Session token verification (shared with the auth service)
	SessionSecret string

	// Transition audit trail
	AuditCapacity int

	// Listing defaults
	PageSize int
}

// Load reads configuration from the environment. A .env file is honored
// when present; missing files are not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Port:          getEnv("APP_PORT", "8080"),
		Env:           getEnv("APP_ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		APIBaseURL:    os.Getenv("API_BASE_URL"),
		APITimeout:    getEnvDuration("API_TIMEOUT", 15*time.Second),
		SessionSecret: getEnv("SESSION_SECRET", "change-me-in-production"),
		AuditCapacity: getEnvInt("AUDIT_CAPACITY", 1000),
		PageSize:      getEnvInt("PAGE_SIZE", 10),
	}

	if cfg.APIBaseURL == "" {
		return Config{}, fmt.Errorf("required environment variable API_BASE_URL not set")
	}
	if cfg.PageSize < 1 {
		return Config{}, fmt.Errorf("PAGE_SIZE must be at least 1")
	}

	return cfg, nil
}

// Development reports whether the server runs in development mode.
func (c Config) Development() bool {
	return c.Env == "development"
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
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Server
	Port        string
	Environment string

	// Analytics backend
	UpstreamURL     string
	UpstreamTimeout time.Duration

	// Background Workers
	WorkerCount         int
	HealthProbeInterval time.Duration

	// CORS
	AllowedOrigins []string

	// Sentry
	SentryDSN string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		Environment:         getEnv("ENVIRONMENT", "development"),
		UpstreamURL:         strings.TrimRight(getEnv("UPSTREAM_URL", ""), "/"),
		UpstreamTimeout:     time.Duration(getEnvAsInt("UPSTREAM_TIMEOUT_SECONDS", 30)) * time.Second,
		WorkerCount:         getEnvAsInt("WORKER_COUNT", 2),
		HealthProbeInterval: time.Duration(getEnvAsInt("HEALTH_PROBE_INTERVAL_SECONDS", 60)) * time.Second,
		AllowedOrigins:      getEnvAsSlice("ALLOWED_ORIGINS", []string{"*"}),
		SentryDSN:           getEnv("SENTRY_DSN", ""),
	}

	// Validate required configuration
	if cfg.UpstreamURL == "" {
		if cfg.Environment == "production" {
			return nil, fmt.Errorf("UPSTREAM_URL is required in production")
		}
		cfg.UpstreamURL = "http://localhost:8000"
	}

	u, err := url.Parse(cfg.UpstreamURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("UPSTREAM_URL must be an absolute URL, got %q", cfg.UpstreamURL)
	}

	if cfg.UpstreamTimeout <= 0 {
		return nil, fmt.Errorf("UPSTREAM_TIMEOUT_SECONDS must be positive")
	}

	if cfg.HealthProbeInterval <= 0 {
		return nil, fmt.Errorf("HEALTH_PROBE_INTERVAL_SECONDS must be positive")
	}

	if cfg.WorkerCount < 1 {
		cfg.WorkerCount = 1
	}

	return cfg, nil
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt reads an environment variable as integer
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice reads an environment variable as comma-separated slice
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

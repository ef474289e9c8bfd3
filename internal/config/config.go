// Package config provides environment configuration for the client.
package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration for the application.
type Config struct {
	// Backend settings
	APIBaseURL     string
	RequestTimeout time.Duration

	// Logging
	LogLevel string

	// Metrics debug listener; empty disables it
	MetricsAddr string

	// Tracing
	TracingEnabled  bool
	TracingEndpoint string
}

// Load reads configuration from environment variables.
func Load() *Config {
	return &Config{
		APIBaseURL:     getEnv("API_BASE_URL", "http://localhost:8000/api"),
		RequestTimeout: getDurationEnv("API_TIMEOUT", 30*time.Second),

		LogLevel: getEnv("LOG_LEVEL", "info"),

		MetricsAddr: getEnv("METRICS_ADDR", ""),

		TracingEnabled:  getBoolEnv("TRACING_ENABLED", false),
		TracingEndpoint: getEnv("TRACING_ENDPOINT", "localhost:4318"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

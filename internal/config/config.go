// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port             string
	DBPath           string
	SkillID          string // Expected Alexa application id; "" disables verification
	RequestMaxAge    time.Duration
	SessionRetention time.Duration // 0 keeps session records forever
	LogLevel         string
	ImageGen         ImageGenConfig
	Retry            RetryConfig
	Timeout          TimeoutConfig
}

// ImageGenConfig controls the image-generation backend client.
type ImageGenConfig struct {
	Addr    string
	Timeout time.Duration
	Style   string
}

// RetryConfig controls retry behaviour for storage writes and voice failures.
type RetryConfig struct {
	DatabaseMaxRetries     int
	DatabaseRetryBaseDelay time.Duration
	MaxOperationFailures   int
}

// TimeoutConfig holds request-scoped timeouts.
type TimeoutConfig struct {
	HealthCheck  time.Duration
	SkillRequest time.Duration
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             getEnv("PORT", "8080"),
		DBPath:           getEnv("DB_PATH", "./data/colormagic.db"),
		SkillID:          strings.TrimSpace(getEnv("SKILL_ID", "")),
		RequestMaxAge:    getEnvDuration("REQUEST_MAX_AGE", 150*time.Second),
		SessionRetention: getEnvDuration("SESSION_RETENTION", 0),
		LogLevel:         strings.ToLower(getEnv("LOG_LEVEL", "info")),
		ImageGen: ImageGenConfig{
			Addr:    getEnv("IMAGEGEN_ADDR", ""),
			Timeout: getEnvDuration("IMAGEGEN_TIMEOUT", 45*time.Second),
			Style:   getEnv("IMAGEGEN_STYLE", "coloring-page"),
		},
		Retry: RetryConfig{
			DatabaseMaxRetries:     getEnvInt("DB_MAX_RETRIES", 3),
			DatabaseRetryBaseDelay: getEnvDuration("DB_RETRY_BASE_DELAY", 50*time.Millisecond),
			MaxOperationFailures:   getEnvInt("MAX_RETRIES", 2),
		},
		Timeout: TimeoutConfig{
			HealthCheck:  getEnvDuration("HEALTH_CHECK_TIMEOUT", 5*time.Second),
			SkillRequest: getEnvDuration("SKILL_REQUEST_TIMEOUT", 7*time.Second),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	if c.DBPath == "" {
		return fmt.Errorf("DB_PATH cannot be empty")
	}
	if c.RequestMaxAge <= 0 {
		return fmt.Errorf("REQUEST_MAX_AGE must be > 0")
	}
	if c.SessionRetention < 0 {
		return fmt.Errorf("SESSION_RETENTION cannot be negative")
	}
	if c.ImageGen.Timeout <= 0 {
		return fmt.Errorf("IMAGEGEN_TIMEOUT must be > 0")
	}
	if c.Retry.DatabaseMaxRetries <= 0 {
		return fmt.Errorf("DB_MAX_RETRIES must be > 0")
	}
	if c.Retry.MaxOperationFailures <= 0 {
		return fmt.Errorf("MAX_RETRIES must be > 0")
	}
	return nil
}

// ImageGenEnabled reports whether an image backend address is configured.
func (c *Config) ImageGenEnabled() bool {
	return c.ImageGen.Addr != ""
}

// VerifySkillID reports whether incoming envelopes must match SkillID.
func (c *Config) VerifySkillID() bool {
	return c.SkillID != ""
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return n
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(value))
	if err != nil {
		return fallback
	}
	return d
}

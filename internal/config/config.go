package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	TelegramToken      string
	AllowedChatID      int64
	DatabaseURL        string
	LogLevel           string
	LogFormat          string
	PrometheusPort     string
	Port               string
	SessionIdleTimeout time.Duration
	SeedOnEmpty        bool
}

// BotEnabled reports whether a Telegram token was configured
func (c *Config) BotEnabled() bool {
	return c.TelegramToken != ""
}

// Load loads configuration from environment variables, reading a .env file
// first when one exists
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:      getEnvOrDefault("LOG_FORMAT", "text"),
		PrometheusPort: getEnvOrDefault("PROMETHEUS_PORT", "9090"),
		Port:           getEnvOrDefault("PORT", "8080"),
	}

	var result *multierror.Error

	if cfg.DatabaseURL == "" {
		result = multierror.Append(result, fmt.Errorf("DATABASE_URL environment variable is required"))
	}

	if raw := os.Getenv("ALLOWED_CHAT_ID"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			result = multierror.Append(result, fmt.Errorf("ALLOWED_CHAT_ID must be an integer: %w", err))
		}
		cfg.AllowedChatID = id
	}

	timeout, err := time.ParseDuration(getEnvOrDefault("SESSION_IDLE_TIMEOUT", "30m"))
	if err != nil || timeout <= 0 {
		result = multierror.Append(result, fmt.Errorf("SESSION_IDLE_TIMEOUT must be a positive duration"))
	}
	cfg.SessionIdleTimeout = timeout

	seed, err := strconv.ParseBool(getEnvOrDefault("SEED_ON_EMPTY", "true"))
	if err != nil {
		result = multierror.Append(result, fmt.Errorf("SEED_ON_EMPTY must be a boolean: %w", err))
	}
	cfg.SeedOnEmpty = seed

	if err := result.ErrorOrNil(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

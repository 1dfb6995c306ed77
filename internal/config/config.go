// Package config reads client configuration from the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

// Config is the environment-driven client configuration.
type Config struct {
	APIBaseURL  string        `env:"API_BASE_URL,default=http://localhost:8080"`
	UseDapr     string        `env:"USE_DAPR"`
	DaprAppID   string        `env:"DAPR_APP_ID,default=auth-service"`
	DaprPort    int           `env:"DAPR_HTTP_PORT,default=3500"`
	DaprHost    string        `env:"DAPR_HOST,default=localhost"`
	Timeout     time.Duration `env:"API_TIMEOUT,default=30s"`
	LogLevel    string        `env:"LOG_LEVEL,default=info"`
	Environment string        `env:"ENVIRONMENT,default=dev"`
}

var validEnvs = map[string]bool{
	"dev":     true,
	"test":    true,
	"staging": true,
	"prod":    true,
}

// MeshEnabled reports whether USE_DAPR is "true", ignoring case.
func (c *Config) MeshEnabled() bool {
	return strings.EqualFold(strings.TrimSpace(c.UseDapr), "true")
}

// FromEnviron reads the configuration from the current environment. Nothing is
// cached, so every call sees the environment as it is now.
func FromEnviron() (*Config, error) {
	var cfg Config

	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadDotEnv loads variables from the given .env files into the environment.
// Variables that are already set are not overridden. With no arguments, ./.env
// is loaded if it exists.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		err := godotenv.Load()
		if err != nil && errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

func validate(cfg *Config) error {
	if cfg.APIBaseURL == "" {
		return errors.New("API_BASE_URL cannot be empty")
	}
	if cfg.DaprAppID == "" {
		return errors.New("DAPR_APP_ID cannot be empty")
	}
	if cfg.DaprPort < 1 || cfg.DaprPort > 65535 {
		return fmt.Errorf("DAPR_HTTP_PORT must be between 1 and 65535, got %d", cfg.DaprPort)
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive, got %v", cfg.Timeout)
	}
	if !validEnvs[cfg.Environment] {
		return fmt.Errorf("invalid environment '%s'. Valid environments: dev, test, staging, prod", cfg.Environment)
	}
	return nil
}

// Package config loads process configuration from the environment, with an
// optional .env file for local development.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the full process configuration
type Config struct {
	// HTTP server
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool

	// Invoice store
	DatabaseDSN string

	// Logging
	LogLevel  string
	LogFormat string
	LogOutput string
}

// Load reads configuration from the environment. A .env file in the working
// directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Address:     getEnv("UBLX_ADDRESS", ":8080"),
		Debug:       getEnv("UBLX_DEBUG", "") == "true",
		DatabaseDSN: getEnv("UBLX_DATABASE_DSN", "ubl-exchange.db"),
		LogLevel:    getEnv("UBLX_LOG_LEVEL", "info"),
		LogFormat:   getEnv("UBLX_LOG_FORMAT", "console"),
		LogOutput:   getEnv("UBLX_LOG_OUTPUT", "stdout"),
	}

	var err error
	if cfg.ReadTimeout, err = getDuration("UBLX_READ_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.WriteTimeout, err = getDuration("UBLX_WRITE_TIMEOUT", 2*time.Minute); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Address == "" {
		return fmt.Errorf("UBLX_ADDRESS is required")
	}
	if c.DatabaseDSN == "" {
		return fmt.Errorf("UBLX_DATABASE_DSN is required")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: invalid duration %q: %w", key, v, err)
	}
	return d, nil
}

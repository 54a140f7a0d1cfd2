package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Storage backends.
const (
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)

type Config struct {
	Port        string     `env:"PORT" envDefault:"8000"`
	Environment string     `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    slog.Level `env:"LOG_LEVEL" envDefault:"info"`

	StorageBackend string `env:"STORAGE_BACKEND" envDefault:"file"`
	StateFile      string `env:"STATE_FILE" envDefault:"world_state.json"`
	RedisURL       string `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	SQLitePath     string `env:"SQLITE_PATH" envDefault:"world_state.db"`
	AuditEnabled   bool   `env:"AUDIT_ENABLED" envDefault:"false"`

	OllamaURL        string        `env:"OLLAMA_URL" envDefault:"http://localhost:11434"`
	ModelName        string        `env:"MODEL_NAME" envDefault:"example:latest"`
	LLMContext       int           `env:"LLM_CONTEXT" envDefault:"16384"`
	LLMTimeout       time.Duration `env:"LLM_TIMEOUT" envDefault:"120s"`
	HistoryLimit     int           `env:"HISTORY_LIMIT" envDefault:"10"`
	MaxContinuations int           `env:"MAX_CONTINUATIONS" envDefault:"2"`
}

// Load reads the configuration from the environment.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values the env parser cannot.
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendFile, BackendRedis, BackendSQLite:
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q: want file, redis or sqlite", c.StorageBackend)
	}
	if c.HistoryLimit < 0 {
		return fmt.Errorf("HISTORY_LIMIT must not be negative")
	}
	if c.MaxContinuations < 0 {
		return fmt.Errorf("MAX_CONTINUATIONS must not be negative")
	}
	if c.LLMTimeout <= 0 {
		return fmt.Errorf("LLM_TIMEOUT must be positive")
	}
	return nil
}

// IsProduction reports whether logs should be JSON.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

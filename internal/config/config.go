// Package config loads process configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

// Config holds everything the process reads from its environment.
type Config struct {
	// DataDir is the profile directory holding the session identity and,
	// by default, the database. Defaults to <user-config-dir>/vitrine.
	DataDir string `env:"VITRINE_DATA_DIR"`

	// DatabasePath is the SQLite file. Defaults to <DataDir>/vitrine.db.
	DatabasePath string `env:"VITRINE_DB"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"VITRINE_LOG_LEVEL" envDefault:"info"`
}

// Load parses the environment and fills in defaults.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.DataDir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return Config{}, fmt.Errorf("resolve user config dir: %w", err)
		}
		cfg.DataDir = filepath.Join(base, "vitrine")
	}
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(cfg.DataDir, "vitrine.db")
	}

	return cfg, nil
}

// Logger builds a structured logger honoring the configured level.
// Diagnostics go to stderr so command output on stdout stays parseable.
func (c Config) Logger() *slog.Logger {
	var level slog.Level
	switch c.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// Package config handles application configuration and environment loading.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// DefaultCellarName names the cellar files used when nothing else is
// configured: <name>.db and <name>.csv in the working directory.
const DefaultCellarName = "cellar"

// Config holds the resolved paths and logging settings for one invocation.
type Config struct {
	DBPath   string // path to the SQLite cellar database
	CSVPath  string // path to the CellarTracker CSV export
	LogLevel string // log level: debug, info, warn, error (default "info")

	// Warnings collects non-fatal warnings generated during config
	// loading. They are logged by the caller after the logger is set up.
	Warnings []string
}

// FromName derives the cellar file pair from a cellar name, the way the
// tool has always named its files.
func FromName(name string) Config {
	return Config{
		DBPath:  fmt.Sprintf("%s.db", name),
		CSVPath: fmt.Sprintf("%s.csv", name),
	}
}

// SlogLevel maps the LogLevel string to an slog.Level.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LoadFromEnv loads configuration from environment variables, falling back
// to the default cellar name for anything unset. Unknown log levels are a
// warning, not an error.
func LoadFromEnv() *Config {
	cfg := &Config{
		DBPath:   os.Getenv("WINEBUDDY_DB"),
		CSVPath:  os.Getenv("WINEBUDDY_CSV"),
		LogLevel: os.Getenv("WINEBUDDY_LOG_LEVEL"),
	}

	defaults := FromName(DefaultCellarName)
	if cfg.DBPath == "" {
		cfg.DBPath = defaults.DBPath
	}
	if cfg.CSVPath == "" {
		cfg.CSVPath = defaults.CSVPath
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	} else {
		switch strings.ToLower(cfg.LogLevel) {
		case "debug", "info", "warn", "warning", "error":
		default:
			cfg.Warnings = append(cfg.Warnings,
				fmt.Sprintf("unknown WINEBUDDY_LOG_LEVEL %q, using info", cfg.LogLevel))
			cfg.LogLevel = "info"
		}
	}

	return cfg
}

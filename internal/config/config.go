// Package config loads process configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
)

const appDirName = "qbique"

// Config holds the process-scoped settings read from the environment. These
// override the persisted user settings for one invocation and are never
// written back.
type Config struct {
	// ConfigDir is the directory holding config.json, credentials.json and
	// licenses.json. Resolved by Load when QBIQUE_CONFIG_DIR is unset.
	ConfigDir string `env:"QBIQUE_CONFIG_DIR"`
	// XDGConfigHome is only consulted to resolve ConfigDir.
	XDGConfigHome string `env:"XDG_CONFIG_HOME"`
	Profile       string `env:"QBIQUE_PROFILE"`
	Endpoint      string `env:"QBIQUE_ENDPOINT"`
	APIKey        string `env:"QBIQUE_API_KEY"`
	LogLevelName  string `env:"QBIQUE_LOG_LEVEL" envDefault:"WARN"`

	// LogLevel is LogLevelName parsed by Load.
	LogLevel slog.Level
}

// HasAPIKeyOverride reports whether a key was supplied through the
// environment.
func (c *Config) HasAPIKeyOverride() bool {
	return c.APIKey != ""
}

// Load reads configuration from environment variables and returns a
// validated Config. Only QBIQUE_LOG_LEVEL can be invalid. The configuration
// directory falls back to $XDG_CONFIG_HOME/qbique, then ~/.config/qbique.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(cfg.LogLevelName)); err != nil {
		return nil, fmt.Errorf("QBIQUE_LOG_LEVEL has invalid level %q: %w", cfg.LogLevelName, err)
	}

	if cfg.ConfigDir == "" {
		dir, err := defaultConfigDir(cfg.XDGConfigHome)
		if err != nil {
			return nil, err
		}
		cfg.ConfigDir = dir
	}

	return &cfg, nil
}

func defaultConfigDir(xdgHome string) (string, error) {
	if xdgHome != "" {
		return filepath.Join(xdgHome, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	if home == "" {
		return "", errors.New("resolve home directory: empty path")
	}
	return filepath.Join(home, ".config", appDirName), nil
}

// Package config loads the optional machine-level configuration file.
// User preferences (ringtone, habit alarm, notifications) live in the
// store's settings table instead; this file only covers what must be known
// before the store is open.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

type Config struct {
	DBPath          string    `toml:"db_path"`
	IntervalSeconds int       `toml:"scheduler_interval_seconds"`
	Anthropic       Anthropic `toml:"anthropic"`
}

type Anthropic struct {
	APIKey string `toml:"api_key"`
	Model  string `toml:"model"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{IntervalSeconds: 20}
}

// DefaultPath returns ~/.config/dayplan/config.toml
func DefaultPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "dayplan", "config.toml"), nil
}

// Load reads the TOML file at path. A missing file is not an error: the
// defaults apply.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	if cfg.IntervalSeconds <= 0 {
		cfg.IntervalSeconds = Default().IntervalSeconds
	}
	return cfg, nil
}

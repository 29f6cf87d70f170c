// Package config loads the mox command's settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the config file looked up in the user's home directory.
const FileName = ".moxrc.yaml"

// Config holds REPL and interpreter settings.
type Config struct {
	Prompt      string     `yaml:"prompt"`
	HistoryFile string     `yaml:"history_file"`
	MaxDepth    int        `yaml:"max_depth"`
	Color       bool       `yaml:"color"`
	LogLevel    slog.Level `yaml:"log_level"`
}

// Default returns the settings used when no config file exists.
func Default() *Config {
	cfg := &Config{
		Prompt:   ">> ",
		MaxDepth: 10000,
		Color:    true,
		LogLevel: slog.LevelWarn,
	}
	if home, err := os.UserHomeDir(); err == nil {
		cfg.HistoryFile = filepath.Join(home, ".mox_history")
	}
	return cfg
}

// DefaultPath returns ~/.moxrc.yaml, or "" when the home directory is unknown.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, FileName)
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := Parse(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes YAML into cfg. Fields absent from data keep their current values.
func Parse(data []byte, cfg *Config) error {
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	if cfg.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", cfg.MaxDepth)
	}
	return nil
}

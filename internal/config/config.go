// Package config loads paxctl settings from a YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Address string     `yaml:"address"` // device address; overridable with --address
	Scan    ScanConfig `yaml:"scan"`
	// ConnectTimeoutSeconds bounds the whole handshake, not any single
	// GATT operation; the protocol itself carries no timeouts.
	ConnectTimeoutSeconds int    `yaml:"connect_timeout_seconds"`
	LogLevel              string `yaml:"log_level"`
}

// ScanConfig holds device discovery settings.
type ScanConfig struct {
	NamePrefix     string `yaml:"name_prefix"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// DefaultConfigDir returns the default config directory path.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "paxctl")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Scan: ScanConfig{
			NamePrefix:     "PAX",
			TimeoutSeconds: 5,
		},
		ConnectTimeoutSeconds: 15,
		LogLevel:              "info",
	}
}

// Load reads and parses a YAML config file. Missing fields are filled
// with defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.Scan.TimeoutSeconds <= 0 {
		return fmt.Errorf("scan.timeout_seconds must be > 0")
	}
	if c.ConnectTimeoutSeconds <= 0 {
		return fmt.Errorf("connect_timeout_seconds must be > 0")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}
	return nil
}

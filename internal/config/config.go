// SPDX-License-Identifier: MIT

// Package config loads scanner configuration from an optional YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime settings of the scanner.
type Config struct {
	// LogLevel is a zerolog level name ("debug", "info", "warn", ...).
	LogLevel string `yaml:"log_level"`
	// MaxDocumentBytes caps how much of each input document is read.
	MaxDocumentBytes int64 `yaml:"max_document_bytes"`
	// MaxDepth caps element nesting before a document is rejected.
	MaxDepth int `yaml:"max_depth"`
	// Workers bounds how many documents are scanned concurrently.
	Workers int `yaml:"workers"`
	// DBPath, when set, enables the SQLite media index.
	DBPath string `yaml:"db_path"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		LogLevel:         "info",
		MaxDocumentBytes: 50 * 1024 * 1024,
		MaxDepth:         128,
		Workers:          4,
	}
}

// Load builds the effective configuration: defaults, then the YAML file at
// path (skipped when path is empty), then MEDIASCAN_* environment overrides.
func Load(path string) (Config, error) {
	cfg := Defaults()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- operator-supplied path
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("MEDIASCAN_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("MEDIASCAN_MAX_DOCUMENT_BYTES"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.MaxDocumentBytes = n
		}
	}
	if v := os.Getenv("MEDIASCAN_MAX_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxDepth = n
		}
	}
	if v := os.Getenv("MEDIASCAN_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("MEDIASCAN_DB"); v != "" {
		cfg.DBPath = v
	}
}

func (c Config) validate() error {
	if c.MaxDocumentBytes <= 0 {
		return fmt.Errorf("config: max_document_bytes must be positive, got %d", c.MaxDocumentBytes)
	}
	if c.MaxDepth <= 0 {
		return fmt.Errorf("config: max_depth must be positive, got %d", c.MaxDepth)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("config: workers must be positive, got %d", c.Workers)
	}
	return nil
}

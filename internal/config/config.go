// Package config loads the quill.yaml project file used by the CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ConnectionConfig identifies the ledger and how to reach it.
type ConnectionConfig struct {
	Ledger   string `yaml:"ledger"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint,omitempty"` // override for local ledgers
}

// RetryConfig tunes the driver's retry loop. Zero values keep the driver
// defaults.
type RetryConfig struct {
	Limit       *int   `yaml:"limit,omitempty"`
	BackoffBase string `yaml:"backoff_base,omitempty"` // Go duration, e.g. "10ms"
	BackoffCap  string `yaml:"backoff_cap,omitempty"`  // Go duration, e.g. "5s"
}

// ProjectConfig is the full quill.yaml contents.
type ProjectConfig struct {
	Connection ConnectionConfig `yaml:"connection"`
	Retry      RetryConfig      `yaml:"retry"`
}

const ConfigFileName = "quill.yaml"

// Load reads quill.yaml from sourcePath.
func Load(sourcePath string) (*ProjectConfig, error) {
	configPath := filepath.Join(sourcePath, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// BackoffDurations parses the configured backoff strings, substituting the
// given defaults for empty fields.
func (r *RetryConfig) BackoffDurations(defaultBase, defaultCap time.Duration) (base, cap time.Duration, err error) {
	base, cap = defaultBase, defaultCap
	if r.BackoffBase != "" {
		base, err = time.ParseDuration(r.BackoffBase)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid backoff_base: %w", err)
		}
	}
	if r.BackoffCap != "" {
		cap, err = time.ParseDuration(r.BackoffCap)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid backoff_cap: %w", err)
		}
	}
	return base, cap, nil
}

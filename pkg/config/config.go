// Package config loads debugpanel configuration from YAML files.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Common errors for configuration loading.
var (
	ErrFileNotFound = errors.New("configuration file not found")
	ErrEmptyFile    = errors.New("configuration file is empty")
	ErrInvalidYAML  = errors.New("invalid YAML syntax")
)

// Config holds the panel toggles and demo-server settings.
type Config struct {
	// Enabled turns on debug collection for every request.
	Enabled bool `yaml:"enabled"`

	// AlwaysShowText renders the nested debug-text list into every
	// page, even when collection is off.
	AlwaysShowText bool `yaml:"alwaysShowText"`

	// AlwaysShowComment appends the raw debug buffer as an HTML
	// comment, even when collection is off.
	AlwaysShowComment bool `yaml:"alwaysShowComment"`

	// Listen is the demo server bind address.
	Listen string `yaml:"listen"`

	// AppVersion is reported in snapshots.
	AppVersion string `yaml:"appVersion"`

	// GitDir is the checkout to read version-control facts from.
	GitDir string `yaml:"gitDir"`

	// ViewURLTemplate is a fmt template with one %s verb receiving the
	// head commit id.
	ViewURLTemplate string `yaml:"viewUrlTemplate"`

	// LogLevel is the operational log level (debug, info, warn, error).
	LogLevel string `yaml:"logLevel"`

	// LogFormat is the operational log format (text or json).
	LogFormat string `yaml:"logFormat"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen:    "127.0.0.1:8680",
		GitDir:    ".",
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// LoadFromFile reads a Config from a YAML file, applying defaults for
// unset fields. Returns wrapped sentinel errors for the common failure
// cases.
func LoadFromFile(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyFile, path)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}
	return &cfg, nil
}

// Package config loads the renderer's configuration from a YAML file
// with sensible defaults for every field.
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
	ErrInvalidYAML  = errors.New("invalid YAML syntax")
)

// Config holds the renderer configuration.
type Config struct {
	// TemplatesDir is the directory of template YAML/JSON files.
	TemplatesDir string `yaml:"templates_dir"`

	// SettingsFile is the app settings YAML file. Optional; missing
	// settings degrade to default branding.
	SettingsFile string `yaml:"settings_file,omitempty"`

	// Team is the default operating team for renders.
	Team string `yaml:"team,omitempty"`

	// Language is the default copy locale for renders.
	Language string `yaml:"language,omitempty"`

	// Log configures logging output.
	Log LogConfig `yaml:"log,omitempty"`
}

// LogConfig configures the logger.
type LogConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		TemplatesDir: "templates",
		Team:         "japan",
		Language:     "en",
		Log:          LogConfig{Level: "info", Format: "text"},
	}
}

// Load reads a Config from a YAML file, filling unset fields from
// Default. An empty path returns Default directly.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidYAML, path, err)
	}
	applyDefaults(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	def := Default()
	if cfg.TemplatesDir == "" {
		cfg.TemplatesDir = def.TemplatesDir
	}
	if cfg.Team == "" {
		cfg.Team = def.Team
	}
	if cfg.Language == "" {
		cfg.Language = def.Language
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = def.Log.Level
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = def.Log.Format
	}
}

// Validate checks field values that have a closed set of options.
func (c *Config) Validate() error {
	switch c.Team {
	case "japan", "thailand":
	default:
		return fmt.Errorf("invalid team %q (want japan or thailand)", c.Team)
	}
	switch c.Language {
	case "en", "ja":
	default:
		return fmt.Errorf("invalid language %q (want en or ja)", c.Language)
	}
	return nil
}

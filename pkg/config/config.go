// Package config provides configuration loading and management for doseprofiler.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"doseprofiler/internal/models"
	"doseprofiler/pkg/export"
	"doseprofiler/pkg/planar"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Planar dose import parameters
	Planar struct {
		// Delimiter separates cells in planning-system text exports
		Delimiter string `yaml:"delimiter"`
	} `yaml:"planar"`

	// Profile extraction parameters
	Profile struct {
		// Axis is the default extraction axis (x, y or z)
		Axis string `yaml:"axis"`

		// Channel selects dose or uncertainty
		Channel string `yaml:"channel"`

		// Offset1 and Offset2 are the default fixed coordinates on the two
		// remaining axes
		Offset1 float64 `yaml:"offset1"`
		Offset2 float64 `yaml:"offset2"`
	} `yaml:"profile"`

	// Compare holds the scale factors applied when comparing a calculated
	// profile against a measured one
	Compare struct {
		// XScale converts calculated positions to measured units (0.1 for mm to cm)
		XScale float64 `yaml:"xscale"`

		// YScale converts calculated dose to measured units
		YScale float64 `yaml:"yscale"`

		// MeasuredYScale converts measured readings, e.g. 0.01 for percent
		MeasuredYScale float64 `yaml:"measuredYScale"`

		// SkipRows is the number of header lines in measured files
		SkipRows int `yaml:"skipRows"`
	} `yaml:"compare"`

	// Output parameters
	Output struct {
		// Format is text, csv or npy
		Format string `yaml:"format"`

		// Dir is where extracted profiles are written
		Dir string `yaml:"dir"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Planar.Delimiter = ","

	// Depth-dose curve on the central axis
	cfg.Profile.Axis = "z"
	cfg.Profile.Channel = "dose"

	cfg.Compare.XScale = 1
	cfg.Compare.YScale = 1
	cfg.Compare.MeasuredYScale = 1

	cfg.Output.Format = string(export.Text)
	cfg.Output.Dir = "."
	cfg.Output.Verbose = false

	return cfg
}

// Validate checks that every enumerated setting names a known value.
func (c *Config) Validate() error {
	if _, err := c.Delimiter(); err != nil {
		return err
	}
	if _, err := models.ParseAxis(c.Profile.Axis); err != nil {
		return fmt.Errorf("profile.axis: %w", err)
	}
	if _, err := models.ParseChannel(c.Profile.Channel); err != nil {
		return fmt.Errorf("profile.channel: %w", err)
	}
	if _, err := export.ParseFormat(c.Output.Format); err != nil {
		return fmt.Errorf("output.format: %w", err)
	}
	if c.Compare.SkipRows < 0 {
		return fmt.Errorf("compare.skipRows must not be negative: %w", models.ErrInvalidArgument)
	}
	return nil
}

// Delimiter returns the planar delimiter as a rune. "\t" and "tab" both
// select a tab.
func (c *Config) Delimiter() (rune, error) {
	d := c.Planar.Delimiter
	if d == `\t` || d == "tab" {
		return '\t', nil
	}
	if utf8.RuneCountInString(d) != 1 {
		return 0, fmt.Errorf("planar.delimiter %q must be a single character: %w", d, models.ErrInvalidArgument)
	}
	r, _ := utf8.DecodeRuneInString(d)
	if err := planar.ValidDelimiter(r); err != nil {
		return 0, fmt.Errorf("planar.delimiter: %w", err)
	}
	return r, nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	// Read config file
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	// Parse YAML
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	// Create directory if it doesn't exist
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	// Marshal config to YAML
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	// Write to file
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	cfg := DefaultConfig()
	return SaveConfig(cfg, configPath)
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"doseprofiler/internal/models"
)

// TestDefaultConfig verifies that the defaults are valid
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected default config to be valid, got %v", err)
	}
	d, err := cfg.Delimiter()
	if err != nil || d != ',' {
		t.Errorf("Expected ',' delimiter, got %q (%v)", d, err)
	}
}

// TestLoadConfigMissingFile verifies that a missing file yields the defaults
func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Profile.Axis != "z" {
		t.Errorf("Expected default axis z, got %q", cfg.Profile.Axis)
	}
}

// TestSaveLoadConfig verifies that saved settings are read back
func TestSaveLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "doseprofiler.yaml")

	cfg := DefaultConfig()
	cfg.Planar.Delimiter = `\t`
	cfg.Profile.Axis = "x"
	cfg.Profile.Offset2 = 100
	cfg.Compare.XScale = 0.1
	cfg.Output.Format = "npy"

	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if got.Profile.Axis != "x" || got.Profile.Offset2 != 100 {
		t.Errorf("Expected axis x offset2 100, got %q %v", got.Profile.Axis, got.Profile.Offset2)
	}
	if got.Compare.XScale != 0.1 {
		t.Errorf("Expected xscale 0.1, got %v", got.Compare.XScale)
	}
	if d, _ := got.Delimiter(); d != '\t' {
		t.Errorf("Expected tab delimiter, got %q", d)
	}
}

// TestLoadConfigPartial verifies that unspecified keys keep their defaults
func TestLoadConfigPartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("output:\n  verbose: true\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if !cfg.Output.Verbose {
		t.Error("Expected verbose to be set")
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Expected default format text, got %q", cfg.Output.Format)
	}
}

// TestLoadConfigInvalid verifies that unknown enumerated values are rejected
func TestLoadConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"axis":      "profile:\n  axis: w\n",
		"channel":   "profile:\n  channel: dosis\n",
		"format":    "output:\n  format: xml\n",
		"delimiter": "planar:\n  delimiter: ',;'\n",
		"quote":     "planar:\n  delimiter: '\"'\n",
	}
	for name, body := range tests {
		path := filepath.Join(t.TempDir(), name+".yaml")
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatalf("write: %v", err)
		}
		if _, err := LoadConfig(path); !errors.Is(err, models.ErrInvalidArgument) {
			t.Errorf("%s: expected ErrInvalidArgument, got %v", name, err)
		}
	}
}

// TestLoadConfigBadYAML verifies that syntax errors are reported
func TestLoadConfigBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("output: [unclosed\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

// TestCreateDefaultConfigFile verifies that the written defaults load back
func TestCreateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "default.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("CreateDefaultConfigFile: %v", err)
	}
	if _, err := LoadConfig(path); err != nil {
		t.Errorf("Expected default file to load, got %v", err)
	}
}

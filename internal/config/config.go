package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultOutputDir = "hnn_out"
	DefaultLineWidth = 1.0
	DefaultWidth     = 12.0
	DefaultHeight    = 10.0
	DefaultDPI       = 120
	DefaultFontSize  = 10.0
	DefaultLogLevel  = "info"
)

// Config holds viewer settings that are independent of any one simulation.
type Config struct {
	OutputRoot string  `yaml:"output_root"`
	LineWidth  float64 `yaml:"line_width"`
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	DPI        int     `yaml:"dpi"`
	FontSize   float64 `yaml:"font_size"`
	Title      string  `yaml:"title"`
	LogLevel   string  `yaml:"log_level"`
}

func DefaultConfig() *Config {
	return &Config{
		OutputRoot: DefaultOutputRoot(),
		LineWidth:  DefaultLineWidth,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		DPI:        DefaultDPI,
		FontSize:   DefaultFontSize,
		Title:      "Dipole Viewer",
		LogLevel:   DefaultLogLevel,
	}
}

// DefaultOutputRoot is ~/hnn_out, or ./hnn_out when the home directory
// cannot be resolved.
func DefaultOutputRoot() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultOutputDir
	}
	return filepath.Join(home, DefaultOutputDir)
}

// LoadInto decodes the file at path over cfg. Keys absent from the file
// keep their current values.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// Resolve builds a Config from the defaults, the named preset and the
// config file at path, later layers overriding earlier ones. Empty preset
// or path skip that layer.
func Resolve(preset, path string) (*Config, error) {
	cfg := DefaultConfig()
	if preset != "" {
		cfg = GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, ListPresets())
		}
	}
	if path != "" {
		if err := LoadInto(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

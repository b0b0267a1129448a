// Package config handles exporter configuration loading and management.
package config

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is returned by Validate for out-of-range settings.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds all exporter settings.
type Config struct {
	Export  ExportConfig  `yaml:"export" toml:"export"`
	Output  OutputConfig  `yaml:"output" toml:"output"`
	Data    DataConfig    `yaml:"data" toml:"data"`
	Logging LoggingConfig `yaml:"logging" toml:"logging"`
}

// ExportConfig controls what ends up in the document.
type ExportConfig struct {
	Profile        string  `yaml:"profile" toml:"profile"` // profile of <extra> techniques
	Author         string  `yaml:"author" toml:"author"`
	UpAxis         string  `yaml:"up_axis" toml:"up_axis"`
	UnitName       string  `yaml:"unit_name" toml:"unit_name"`
	UnitMeter      float64 `yaml:"unit_meter" toml:"unit_meter"`
	Lights         bool    `yaml:"lights" toml:"lights"`
	Cameras        bool    `yaml:"cameras" toml:"cameras"`
	Unknown        bool    `yaml:"unknown" toml:"unknown"` // sounds, effects and other unclassified leaves
	DefaultCamera  bool    `yaml:"default_camera" toml:"default_camera"`
	WireframeColor uint32  `yaml:"wireframe_color" toml:"wireframe_color"`
}

// OutputConfig holds document formatting settings.
type OutputConfig struct {
	Indent string `yaml:"indent" toml:"indent"`
}

// DataConfig holds resource locations used to resolve world models.
type DataConfig struct {
	GRFPaths  []string `yaml:"grf_paths" toml:"grf_paths"`
	ModelDirs []string `yaml:"model_dirs" toml:"model_dirs"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			Profile:        "MIDGARD",
			Author:         "midgard-dae",
			UpAxis:         "Y_UP",
			UnitName:       "meter",
			UnitMeter:      1.0,
			Lights:         true,
			Cameras:        true,
			Unknown:        false,
			DefaultCamera:  false,
			WireframeColor: 0x7F7F7F,
		},
		Output: OutputConfig{
			Indent: "  ",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks settings the exporter cannot work around.
func (c *Config) Validate() error {
	switch c.Export.UpAxis {
	case "X_UP", "Y_UP", "Z_UP":
	default:
		return fmt.Errorf("%w: up_axis %q", ErrInvalidConfig, c.Export.UpAxis)
	}
	if c.Export.Profile == "" {
		return fmt.Errorf("%w: empty technique profile", ErrInvalidConfig)
	}
	if c.Export.UnitMeter <= 0 {
		return fmt.Errorf("%w: unit_meter must be positive", ErrInvalidConfig)
	}
	if c.Export.WireframeColor > 0xFFFFFF {
		return fmt.Errorf("%w: wireframe_color 0x%X is not RGB", ErrInvalidConfig, c.Export.WireframeColor)
	}
	return nil
}

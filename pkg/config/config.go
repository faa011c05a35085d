// Package config provides configuration loading and management for segmentgeometry.
// It handles loading configuration from YAML files and provides default values.
package config

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"segmentgeometry/internal/models"
	"segmentgeometry/pkg/metrics"
	"segmentgeometry/pkg/pipeline"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	// Processing parameters
	Processing struct {
		// NumCores specifies how many slices are measured concurrently
		NumCores int `yaml:"numCores"`

		// Axis is the sweep axis: row, column or slice (R, A, S or 0, 1, 2 also work)
		Axis string `yaml:"axis"`

		// Interval is the sampling step in percent of the segment length, 0 for every slice
		Interval float64 `yaml:"interval"`

		// NeutralAxisAngle is the custom neutral axis angle in degrees
		NeutralAxisAngle float64 `yaml:"neutralAxisAngle"`

		// Transformed marks volumes resampled into a rotated frame
		Transformed bool `yaml:"transformed"`
	} `yaml:"processing"`

	// Input parameters
	Input struct {
		// MaskDir holds the image stack of the segment to measure
		MaskDir string `yaml:"maskDir"`

		// CompanionDir holds the companion segment used for compactness
		CompanionDir string `yaml:"companionDir"`

		// IntensityDir holds the grey-value stack used for mean intensity
		IntensityDir string `yaml:"intensityDir"`

		// Spacing is the voxel size in mm
		Spacing models.Spacing `yaml:"spacing"`

		// Threshold is the grey level (0-255) above which a mask pixel is inside
		Threshold float64 `yaml:"threshold"`

		// Crop trims the volume to the segment extent before measuring
		Crop bool `yaml:"crop"`
	} `yaml:"input"`

	// Metrics lists the selected metrics by name
	Metrics []string `yaml:"metrics"`

	// Normalization parameters
	Normalization struct {
		LengthNormalized   bool `yaml:"lengthNormalized"`
		MaterialNormalized bool `yaml:"materialNormalized"`
	} `yaml:"normalization"`

	// Output parameters
	Output struct {
		// File is the CSV table written by the run command
		File string `yaml:"file"`

		// Verbose enables debug logging
		Verbose bool `yaml:"verbose"`

		// LogFormat is text or json
		LogFormat string `yaml:"logFormat"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Processing.NumCores = runtime.NumCPU()
	cfg.Processing.Axis = models.AxisSlice.String()
	cfg.Processing.Interval = 0

	cfg.Input.MaskDir = "mask"
	cfg.Input.Spacing = models.Spacing{X: 1, Y: 1, Z: 1}
	cfg.Input.Threshold = 127
	cfg.Input.Crop = true

	for _, m := range metrics.Default().Metrics() {
		cfg.Metrics = append(cfg.Metrics, m.String())
	}

	cfg.Output.File = "segment_geometry.csv"
	cfg.Output.LogFormat = "text"

	return cfg
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	// Check if config file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, "error reading config file")
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "error parsing config file")
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(err, "error creating config directory")
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "error marshaling config")
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errors.Wrap(err, "error writing config file")
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the specified path
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}

// MetricSet resolves the metric names and normalisation switches into one set
func (c *Config) MetricSet() (metrics.Set, error) {
	set, err := metrics.ParseSet(c.Metrics)
	if err != nil {
		return 0, err
	}
	if c.Normalization.LengthNormalized {
		set = set.With(metrics.LengthNormalized)
	}
	if c.Normalization.MaterialNormalized {
		set = set.With(metrics.MaterialNormalized)
	}
	return set, nil
}

// Params converts the processing section into pipeline parameters
func (c *Config) Params() (pipeline.Params, error) {
	if err := c.Validate(); err != nil {
		return pipeline.Params{}, err
	}
	axis, _ := models.ParseAxis(c.Processing.Axis)
	set, _ := c.MetricSet()
	return pipeline.Params{
		Axis:             axis,
		Interval:         c.Processing.Interval,
		NeutralAxisAngle: c.Processing.NeutralAxisAngle,
		NumCores:         c.Processing.NumCores,
		Metrics:          set,
		Transformed:      c.Processing.Transformed,
	}, nil
}

// Validate checks values that can be judged without reading any input
func (c *Config) Validate() error {
	if _, err := models.ParseAxis(c.Processing.Axis); err != nil {
		return errors.Wrap(err, "processing.axis")
	}
	if c.Processing.Interval < 0 || c.Processing.Interval > 100 {
		return errors.Errorf("processing.interval must be between 0 and 100, got %g", c.Processing.Interval)
	}
	if !c.Input.Spacing.Valid() {
		return errors.Errorf("input.spacing must be positive, got %+v", c.Input.Spacing)
	}
	if c.Input.Threshold < 0 || c.Input.Threshold >= 255 {
		return errors.Errorf("input.threshold must be in [0, 255), got %g", c.Input.Threshold)
	}
	if _, err := c.MetricSet(); err != nil {
		return errors.Wrap(err, "metrics")
	}
	switch c.Output.LogFormat {
	case "", "text", "json":
	default:
		return errors.Errorf("output.logFormat must be text or json, got %q", c.Output.LogFormat)
	}
	return nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"segmentgeometry/internal/models"
	"segmentgeometry/pkg/metrics"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Expected default config to be valid, got %v", err)
	}
	set, err := cfg.MetricSet()
	if err != nil {
		t.Fatalf("Failed to resolve metrics: %v", err)
	}
	if set != metrics.Default() {
		t.Errorf("Expected default metric set %s, got %s", metrics.Default(), set)
	}
	params, err := cfg.Params()
	if err != nil {
		t.Fatalf("Failed to build params: %v", err)
	}
	if params.Axis != models.AxisSlice || params.Interval != 0 {
		t.Errorf("Expected slice axis with interval 0, got %s and %g", params.Axis, params.Interval)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	// a missing file gives the defaults
	cfg, err := LoadConfig(filepath.Join(dir, "missing.yaml"))
	if err != nil {
		t.Fatalf("Expected defaults for a missing file, got %v", err)
	}
	if cfg.Input.Threshold != 127 {
		t.Errorf("Expected default threshold 127, got %g", cfg.Input.Threshold)
	}

	path := filepath.Join(dir, "segment.yaml")
	content := `
processing:
  axis: R
  interval: 5
  neutralAxisAngle: 30
input:
  maskDir: femur
  spacing: {x: 0.5, y: 0.5, z: 0.5}
metrics: [csa, secondMoment, customAxis]
normalization:
  materialNormalized: true
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	params, err := cfg.Params()
	if err != nil {
		t.Fatalf("Failed to build params: %v", err)
	}
	if params.Axis != models.AxisRow || params.Interval != 5 || params.NeutralAxisAngle != 30 {
		t.Errorf("Unexpected processing params %+v", params)
	}
	want := metrics.NewSet(metrics.CSA, metrics.SecondMoment, metrics.CustomAxis, metrics.MaterialNormalized)
	if params.Metrics != want {
		t.Errorf("Expected metrics %s, got %s", want, params.Metrics)
	}
	if !cfg.Input.Spacing.Isotropic() || cfg.Input.Spacing.X != 0.5 {
		t.Errorf("Expected 0.5 mm isotropic spacing, got %+v", cfg.Input.Spacing)
	}
	// unset keys keep their defaults
	if cfg.Output.File != "segment_geometry.csv" {
		t.Errorf("Expected default output file, got %s", cfg.Output.File)
	}
}

func TestSaveConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := CreateDefaultConfigFile(path); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to reload config: %v", err)
	}
	if len(cfg.Metrics) != len(DefaultConfig().Metrics) {
		t.Errorf("Expected %d metrics after reload, got %d", len(DefaultConfig().Metrics), len(cfg.Metrics))
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"axis", func(c *Config) { c.Processing.Axis = "diagonal" }},
		{"interval", func(c *Config) { c.Processing.Interval = 101 }},
		{"spacing", func(c *Config) { c.Input.Spacing.Y = 0 }},
		{"threshold", func(c *Config) { c.Input.Threshold = 300 }},
		{"metric", func(c *Config) { c.Metrics = append(c.Metrics, "volume") }},
		{"log format", func(c *Config) { c.Output.LogFormat = "xml" }},
	}
	for _, c := range cases {
		cfg := DefaultConfig()
		c.mutate(cfg)
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: Expected validation error, got nil", c.name)
		}
	}
}

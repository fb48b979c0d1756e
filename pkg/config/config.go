// Package config provides configuration loading and management for
// sartrecon. It handles loading configuration from YAML files and provides
// default values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration loaded from YAML.
type Config struct {
	// Projection parameters for the simulated acquisition
	Projection struct {
		// Angles is the number of projection angles
		Angles int `yaml:"angles"`

		// StartAngle and StopAngle bound the half-open angle range in
		// degrees; the conventional parallel-beam coverage is [0, 180)
		StartAngle float64 `yaml:"startAngle"`
		StopAngle  float64 `yaml:"stopAngle"`
	} `yaml:"projection"`

	// Reconstruction parameters for the SART iteration schedule
	Reconstruction struct {
		// Iterations is the number of passes over the full angle set
		Iterations int `yaml:"iterations"`

		// Relaxation scales each per-angle update
		Relaxation float64 `yaml:"relaxation"`

		// Clip clamps the estimate to [ClipMin, ClipMax] after each angle
		Clip    bool    `yaml:"clip"`
		ClipMin float64 `yaml:"clipMin"`
		ClipMax float64 `yaml:"clipMax"`
	} `yaml:"reconstruction"`

	// Processing parameters
	Processing struct {
		// NumCores specifies how many CPU cores to use for forward
		// projection
		NumCores int `yaml:"numCores"`
	} `yaml:"processing"`

	// Output parameters
	Output struct {
		// PhantomSize is the edge length of the test phantom in pixels
		PhantomSize int `yaml:"phantomSize"`

		// ScaleFactor is the integer upscaling applied to saved images
		ScaleFactor int `yaml:"scaleFactor"`

		// SaveIntermediaryResults dumps the estimate after every iteration
		SaveIntermediaryResults bool `yaml:"saveIntermediaryResults"`

		// IntermediaryDir is where intermediary results are written
		IntermediaryDir string `yaml:"intermediaryDir"`

		// Verbose controls the level of logging output
		Verbose bool `yaml:"verbose"`
	} `yaml:"output"`
}

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Projection.Angles = 60
	cfg.Projection.StartAngle = 0
	cfg.Projection.StopAngle = 180

	cfg.Reconstruction.Iterations = 10
	cfg.Reconstruction.Relaxation = 0.15
	cfg.Reconstruction.Clip = true
	cfg.Reconstruction.ClipMin = 0
	cfg.Reconstruction.ClipMax = 1

	cfg.Processing.NumCores = runtime.NumCPU()

	cfg.Output.PhantomSize = 128
	cfg.Output.ScaleFactor = 4
	cfg.Output.SaveIntermediaryResults = false
	cfg.Output.IntermediaryDir = "intermediary_results"
	cfg.Output.Verbose = true

	return cfg
}

// LoadConfig loads configuration from a YAML file. If the file doesn't
// exist, it returns the default configuration.
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file.
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// CreateDefaultConfigFile creates a default configuration file at the
// specified path.
func CreateDefaultConfigFile(configPath string) error {
	return SaveConfig(DefaultConfig(), configPath)
}

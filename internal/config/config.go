package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultMinArea       = 80
	DefaultDiffThreshold = 35
)

type Config struct {
	// MinArea is the minimum difference area in pixels² below which a
	// candidate is discarded.
	MinArea int `yaml:"min_area"`
	// DiffThreshold (0-255) binarizes the blurred grayscale difference signal.
	DiffThreshold int `yaml:"diff_threshold"`
	// Workers sizes the batch pool; 0 means all logical CPUs.
	Workers int `yaml:"workers"`
}

func Default() *Config {
	return &Config{
		MinArea:       DefaultMinArea,
		DiffThreshold: DefaultDiffThreshold,
	}
}

// Load reads a YAML config file; fields absent from the file keep defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes a config to a YAML file.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

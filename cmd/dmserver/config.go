package main

import (
	"fmt"
	"os"

	"github.com/fwojciec/s1000d/classify"
	"github.com/fwojciec/s1000d/pdfcpu"
	"gopkg.in/yaml.v3"
)

// Config holds the tunables read from the YAML configuration file.
type Config struct {
	Classifier classify.Config `yaml:"classifier"`
	Loader     pdfcpu.Options  `yaml:"loader"`
	Server     ServerConfig    `yaml:"server"`
}

// ServerConfig configures upload handling.
type ServerConfig struct {
	MaxUploadMB int     `yaml:"max_upload_mb"`
	Rate        float64 `yaml:"rate"`
	Burst       int     `yaml:"burst"`
	TrustProxy  bool    `yaml:"trust_proxy"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() *Config {
	return &Config{
		Classifier: classify.DefaultConfig(),
		Loader:     pdfcpu.DefaultOptions(),
		Server: ServerConfig{
			MaxUploadMB: 16,
			Rate:        1,
			Burst:       5,
		},
	}
}

// LoadConfig reads a YAML config file over DefaultConfig.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks that values are usable.
func (c *Config) Validate() error {
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("server.max_upload_mb must be > 0")
	}
	if c.Server.Rate < 0 {
		return fmt.Errorf("server.rate must be >= 0")
	}
	if c.Loader.GapRatio < 0 {
		return fmt.Errorf("loader.gap_ratio must be >= 0")
	}
	return nil
}

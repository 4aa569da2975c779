// Package config loads engine configuration from YAML.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"checkrun/pkg/utils/logger"
)

const (
	defaultMaxWorkers     = 4
	defaultMaxQueueSize   = 100
	defaultTaskTimeout    = 30 * time.Second
	defaultCompileTimeout = 30 * time.Second
	defaultSuiteParallel  = 4
)

// QueueConfig holds execution queue settings.
type QueueConfig struct {
	MaxWorkers     int           `yaml:"maxWorkers"`
	MaxQueueSize   int           `yaml:"maxQueueSize"`
	DefaultTimeout time.Duration `yaml:"defaultTimeout"`
}

// SuiteConfig holds suite runner settings.
type SuiteConfig struct {
	Parallelism    int           `yaml:"parallelism"`
	CompileTimeout time.Duration `yaml:"compileTimeout"`
}

// Config is the engine's top-level configuration.
type Config struct {
	Queue  QueueConfig   `yaml:"queue"`
	Suite  SuiteConfig   `yaml:"suite"`
	Logger logger.Config `yaml:"logger"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// Load reads and validates a YAML configuration file, filling in defaults
// for omitted fields.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Queue.MaxWorkers <= 0 {
		c.Queue.MaxWorkers = defaultMaxWorkers
	}
	if c.Queue.MaxQueueSize <= 0 {
		c.Queue.MaxQueueSize = defaultMaxQueueSize
	}
	if c.Queue.DefaultTimeout <= 0 {
		c.Queue.DefaultTimeout = defaultTaskTimeout
	}
	if c.Suite.Parallelism <= 0 {
		c.Suite.Parallelism = defaultSuiteParallel
	}
	if c.Suite.CompileTimeout <= 0 {
		c.Suite.CompileTimeout = defaultCompileTimeout
	}
	if c.Logger.Level == "" {
		c.Logger.Level = "info"
	}
	if c.Logger.Format == "" {
		c.Logger.Format = "console"
	}
}

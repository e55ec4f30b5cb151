// Package config loads the service configuration for kitchend from a
// YAML file, filling in defaults for anything the file leaves out.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"shortorder/internal/catalog"
)

// Config models the kitchend configuration file
type Config struct {
	Port         int    `yaml:"port"`
	MetricsPort  int    `yaml:"metrics_port"`
	CatalogPath  string `yaml:"catalog"`
	DatabasePath string `yaml:"database,omitempty"`
	Tick         struct {
		Interval catalog.Duration `yaml:"interval"`
	} `yaml:"tick"`
	ExpirySweep struct {
		Enabled  bool             `yaml:"enabled"`
		Interval catalog.Duration `yaml:"interval"`
	} `yaml:"expiry_sweep"`
}

// Default returns the configuration used when no file is present
func Default() Config {
	cfg := Config{
		Port:        8080,
		MetricsPort: 9090,
	}
	cfg.Tick.Interval = catalog.Duration(100 * time.Millisecond)
	cfg.ExpirySweep.Enabled = true
	cfg.ExpirySweep.Interval = catalog.Duration(time.Second)
	return cfg
}

// Load reads the configuration file at path. A missing file is not an
// error: the defaults are returned unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parse %s: %w", path, err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	defaults := Default()
	if c.Port == 0 {
		c.Port = defaults.Port
	}
	if c.MetricsPort == 0 {
		c.MetricsPort = defaults.MetricsPort
	}
	if c.Tick.Interval == 0 {
		c.Tick.Interval = defaults.Tick.Interval
	}
	if c.ExpirySweep.Interval == 0 {
		c.ExpirySweep.Interval = defaults.ExpirySweep.Interval
	}
}

func (c Config) validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port %d out of range", c.Port)
	}
	if c.MetricsPort <= 0 || c.MetricsPort > 65535 {
		return fmt.Errorf("metrics port %d out of range", c.MetricsPort)
	}
	if c.Port == c.MetricsPort {
		return fmt.Errorf("port and metrics port must differ")
	}
	if c.Tick.Interval <= 0 {
		return fmt.Errorf("tick interval must be positive")
	}
	if c.ExpirySweep.Enabled && c.ExpirySweep.Interval <= 0 {
		return fmt.Errorf("expiry sweep interval must be positive")
	}
	return nil
}

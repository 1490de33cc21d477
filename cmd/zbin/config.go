package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config is the optional config file (~/.config/zbin/config.yaml). It only
// supplies defaults; explicitly set CLI flags always win.
type Config struct {
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	CapacityFactor *int64 `yaml:"capacity_factor"`
}

func configPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "zbin", "config.yaml")
}

// LoadConfig reads the config file. Returns a zero Config if the file
// doesn't exist or doesn't parse.
func LoadConfig() Config {
	path := configPath()
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}

// applyConfig applies config file defaults where the corresponding CLI flag
// was not explicitly set.
func applyConfig(c *cli.Command, cfg Config, capacityFactor *int64) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		logFormat = cfg.LogFormat
	}
	if cfg.CapacityFactor != nil && capacityFactor != nil && !c.IsSet("capacity-factor") {
		*capacityFactor = *cfg.CapacityFactor
	}
}

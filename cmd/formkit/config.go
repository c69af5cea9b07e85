package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds defaults read from ~/.config/formkit/config.yaml. Flags win.
type Config struct {
	Driver      string `yaml:"driver"`
	Addr        string `yaml:"addr"`
	HTTPTimeout string `yaml:"http_timeout"`
	Redirect    string `yaml:"redirect"`
}

func defaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "formkit", "config.yaml")
}

// readConfig returns an empty config when path does not exist.
func readConfig(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Config{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if cfg.HTTPTimeout != "" {
		if _, err := time.ParseDuration(cfg.HTTPTimeout); err != nil {
			return nil, fmt.Errorf("parse config %s: http_timeout: %w", path, err)
		}
	}
	return &cfg, nil
}

func (c *Config) timeout() time.Duration {
	d, _ := time.ParseDuration(c.HTTPTimeout)
	return d
}

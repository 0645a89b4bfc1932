// Package config holds application configuration: struct-tag defaults,
// optional YAML overrides, and the logger factory.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/mcuadros/go-defaults"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration. Zero values are filled from the
// default tags; a YAML file and CLI flags may override them.
type Config struct {
	// LogLevel is a logrus level name. The default keeps log lines from
	// interleaving with the interactive display.
	LogLevel string `yaml:"log_level" default:"error"`
	// HistoryFile is the input history path, relative to the home directory
	// unless absolute.
	HistoryFile string `yaml:"history_file" default:".bleterm_history"`
	// EventBuffer is the capacity of the inbound hardware event channel.
	EventBuffer int `yaml:"event_buffer" default:"64"`
}

// DefaultConfig returns configuration with all defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	defaults.SetDefaults(cfg)
	return cfg
}

// Load reads configuration from a YAML file, applying defaults for any
// omitted field. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// ParseLevel converts the configured level name to a logrus level.
func (c *Config) ParseLevel() (logrus.Level, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// NewLogger creates a configured logger instance.
func (c *Config) NewLogger() (*logrus.Logger, error) {
	level, err := c.ParseLevel()
	if err != nil {
		return nil, err
	}

	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return logger, nil
}

// Package config loads the application configuration: logging, storage
// backend, and scheduling knobs.
package config

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Logging controls the logrus setup.
type Logging struct {
	Level  string `yaml:"level"`  // trace, debug, info, warn, error
	Format string `yaml:"format"` // text or json
}

// Database selects the storage backend. Driver "memory" needs no DSN;
// "postgres" requires one.
type Database struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

// Scheduling tunes the auto-scheduler and optimizer defaults.
type Scheduling struct {
	NumDates        int `yaml:"num_dates"`         // candidate dates per match; 0 = all
	MaxIterations   int `yaml:"max_iterations"`    // optimizer restarts
	SplitGapMinutes int `yaml:"split_gap_minutes"` // max spread between split start times
}

type Config struct {
	Logging    Logging    `yaml:"logging"`
	Database   Database   `yaml:"database"`
	Scheduling Scheduling `yaml:"scheduling"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Logging:  Logging{Level: "info", Format: "text"},
		Database: Database{Driver: "memory"},
		Scheduling: Scheduling{
			NumDates:        0,
			MaxIterations:   10,
			SplitGapMinutes: 180,
		},
	}
}

// LoadFromBytes parses YAML bytes over the defaults and validates the result.
func LoadFromBytes(data []byte) (*Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromFile reads and parses a YAML config file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromBytes(data)
}

func (c *Config) validate() error {
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log format %q (want text or json)", c.Logging.Format)
	}

	switch c.Database.Driver {
	case "memory":
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("postgres driver requires a dsn")
		}
	default:
		return fmt.Errorf("invalid database driver %q (want memory or postgres)", c.Database.Driver)
	}

	if c.Scheduling.NumDates < 0 {
		return fmt.Errorf("num_dates must not be negative")
	}
	if c.Scheduling.MaxIterations < 1 {
		return fmt.Errorf("max_iterations must be >= 1")
	}
	if c.Scheduling.SplitGapMinutes < 0 {
		return fmt.Errorf("split_gap_minutes must not be negative")
	}
	return nil
}

// NewLogger builds a logrus logger from the logging section.
func (c *Config) NewLogger() *logrus.Logger {
	log := logrus.New()
	level, err := logrus.ParseLevel(c.Logging.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	log.SetLevel(level)
	if c.Logging.Format == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log
}

// Package config loads nexttrain settings from YAML, .env and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/jusunglee/nexttrain/internal/feed"
	"gopkg.in/yaml.v3"
)

// FeedConfig controls how feed groups are fetched
type FeedConfig struct {
	BaseURL        string        `yaml:"baseURL" validate:"required,url"`
	APIKey         string        `yaml:"apiKey"`
	UpdateInterval time.Duration `yaml:"updateInterval" validate:"gt=0"`
	Timeout        time.Duration `yaml:"timeout" validate:"gt=0"`
	MaxRetries     uint64        `yaml:"maxRetries" validate:"lte=10"`
	SnapshotDir    string        `yaml:"snapshotDir"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Port int `yaml:"port" validate:"gt=0,lte=65535"`
}

// Config is the root configuration
type Config struct {
	Feed         FeedConfig   `yaml:"feed"`
	Server       ServerConfig `yaml:"server"`
	StationsDir  string       `yaml:"stationsDir"`
	DefaultLimit int          `yaml:"defaultLimit" validate:"gte=1,lte=5"`
	LogLevel     string       `yaml:"logLevel" validate:"omitempty,oneof=trace debug info warn error"`
}

// Default returns the built-in configuration.
// 60-second update interval balances freshness with API rate limits.
func Default() Config {
	return Config{
		Feed: FeedConfig{
			BaseURL:        feed.DefaultBaseURL,
			UpdateInterval: 60 * time.Second,
			Timeout:        30 * time.Second,
			MaxRetries:     3,
		},
		Server:       ServerConfig{Port: 8080},
		StationsDir:  "data",
		DefaultLimit: 3,
		LogLevel:     "info",
	}
}

// Load reads path over the defaults, applies .env and environment
// overrides, and validates the result. A missing file is not an error
// when path is empty.
func Load(path string) (Config, error) {
	cfg := Default()

	// .env is optional
	_ = godotenv.Load()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if data, err := os.ReadFile("config.yml"); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config.yml: %w", err)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("read config.yml: %w", err)
	}

	if v := os.Getenv("MTA_API_KEY"); v != "" {
		cfg.Feed.APIKey = v
	}
	if v := os.Getenv("MTA_BASE_URL"); v != "" {
		cfg.Feed.BaseURL = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Package config loads the service configuration from YAML with validated
// defaults for every section.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/trendscope/trendscope/internal/advisory"
	"github.com/trendscope/trendscope/internal/cache"
	"github.com/trendscope/trendscope/internal/decline"
	"github.com/trendscope/trendscope/internal/lifecycle"
	"github.com/trendscope/trendscope/internal/providers"
	"github.com/trendscope/trendscope/internal/signals"
)

// ServerConfig holds the HTTP API settings
type ServerConfig struct {
	Host             string `yaml:"host"`               // Default: 127.0.0.1
	Port             int    `yaml:"port"`               // Default: 8080
	ReadTimeoutSecs  int    `yaml:"read_timeout_secs"`  // Default: 10
	WriteTimeoutSecs int    `yaml:"write_timeout_secs"` // Default: 10
	IdleTimeoutSecs  int    `yaml:"idle_timeout_secs"`  // Default: 60
}

// GetReadTimeout returns the read timeout as a time.Duration
func (s ServerConfig) GetReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSecs) * time.Second
}

// GetWriteTimeout returns the write timeout as a time.Duration
func (s ServerConfig) GetWriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSecs) * time.Second
}

// GetIdleTimeout returns the idle timeout as a time.Duration
func (s ServerConfig) GetIdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutSecs) * time.Second
}

// PostgresConfig holds the stage-history store settings
type PostgresConfig struct {
	DSN         string `yaml:"dsn"`
	TimeoutSecs int    `yaml:"timeout_secs"` // Default: 3
}

// GetTimeout returns the statement timeout as a time.Duration
func (p PostgresConfig) GetTimeout() time.Duration {
	if p.TimeoutSecs <= 0 {
		return 3 * time.Second
	}
	return time.Duration(p.TimeoutSecs) * time.Second
}

// PlatformConfig names one platform-activity collaborator
type PlatformConfig struct {
	Name   string                 `yaml:"name"`
	Client providers.ClientConfig `yaml:"client"`
}

// ClassifierConfig groups the decision-list thresholds and confidence band
type ClassifierConfig struct {
	Thresholds lifecycle.Thresholds     `yaml:"thresholds"`
	Band       lifecycle.ConfidenceBand `yaml:"confidence_band"`
}

// Config is the complete service configuration
type Config struct {
	Server     ServerConfig            `yaml:"server"`
	Postgres   PostgresConfig          `yaml:"postgres"`
	Redis      cache.Config            `yaml:"redis"`
	Advisory   advisory.ClientConfig   `yaml:"advisory"`
	Interest   providers.ClientConfig  `yaml:"interest"`
	Platforms  []PlatformConfig        `yaml:"platforms"`
	Collector  signals.CollectorConfig `yaml:"collector"`
	Classifier ClassifierConfig        `yaml:"classifier"`
	Decline    decline.WeightsConfig   `yaml:"decline"`
}

// Default returns the complete default configuration. Collaborator base URLs
// are empty by default; an empty URL means that collaborator is not wired and
// the pipeline runs in degraded or demo mode.
func Default() *Config {
	port := 8080
	if portStr := os.Getenv("HTTP_PORT"); portStr != "" {
		if p, err := strconv.Atoi(portStr); err == nil {
			port = p
		}
	}

	return &Config{
		Server: ServerConfig{
			Host:             "127.0.0.1",
			Port:             port,
			ReadTimeoutSecs:  10,
			WriteTimeoutSecs: 10,
			IdleTimeoutSecs:  60,
		},
		Postgres:  PostgresConfig{TimeoutSecs: 3},
		Redis:     cache.Config{TTLSecs: 300},
		Advisory:  advisory.DefaultClientConfig(""),
		Interest:  providers.DefaultClientConfig(""),
		Collector: signals.DefaultCollectorConfig(),
		Classifier: ClassifierConfig{
			Thresholds: lifecycle.DefaultThresholds(),
			Band:       lifecycle.DefaultConfidenceBand(),
		},
		Decline: decline.WeightsConfig{
			Weights:       decline.DefaultWeights(),
			Extrapolation: decline.DefaultExtrapolation(),
			SumTolerance:  0.001,
		},
	}
}

// Load reads configuration from a YAML file layered over the defaults
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config YAML: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Validate checks cross-field constraints
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}
	if c.Classifier.Band.Floor < 0 || c.Classifier.Band.Ceiling > 1 ||
		c.Classifier.Band.Floor >= c.Classifier.Band.Ceiling {
		return fmt.Errorf("invalid confidence band [%f, %f]",
			c.Classifier.Band.Floor, c.Classifier.Band.Ceiling)
	}

	tolerance := c.Decline.SumTolerance
	if tolerance == 0 {
		tolerance = 0.001
	}
	sum := c.Decline.Weights.Engagement + c.Decline.Weights.Velocity +
		c.Decline.Weights.Creator + c.Decline.Weights.Quality
	if sum < 1-tolerance || sum > 1+tolerance {
		return fmt.Errorf("decline weights must sum to 1.0, got %f", sum)
	}

	if c.Collector.CallTimeoutSecs < 0 {
		return fmt.Errorf("collector call timeout must not be negative")
	}
	return nil
}

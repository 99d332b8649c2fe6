// Package config loads service configuration from an optional YAML file with
// environment-variable overrides.
package config

import (
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr        string `yaml:"addr"`
	DatabaseURL string `yaml:"databaseUrl"`
	RedisURL    string `yaml:"redisUrl"`
	// Timezone names the calendar used to truncate "today" for agenda math.
	// Empty means the process-local zone.
	Timezone string `yaml:"timezone"`

	RateRPS   float64 `yaml:"rateRps"`
	RateBurst int     `yaml:"rateBurst"`

	// StreamInterval is how often the live feed recomputes and publishes the
	// KPI snapshot.
	StreamInterval time.Duration `yaml:"streamInterval"`

	Migrate bool `yaml:"migrate"`
}

// Load reads path (when non-empty) and applies env overrides on top of
// defaults. Unset env vars change nothing.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Addr:           ":8080",
		RateRPS:        0, // disabled unless configured
		RateBurst:      20,
		StreamInterval: 15 * time.Second,
		Migrate:        true,
	}
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if err := yaml.Unmarshal(b, cfg); err != nil {
			return nil, err
		}
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Addr = ":" + v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.DatabaseURL = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.RedisURL = v
	}
	if v := os.Getenv("AGENDA_TZ"); v != "" {
		cfg.Timezone = v
	}
	if v := os.Getenv("RATE_RPS"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.RateRPS = f
		}
	}
	if v := os.Getenv("RATE_BURST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RateBurst = n
		}
	}
	if v := os.Getenv("STREAM_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			cfg.StreamInterval = d
		}
	}
	if v := os.Getenv("DB_MIGRATE"); v == "false" {
		cfg.Migrate = false
	}
	return cfg, nil
}

// Location resolves the configured timezone, defaulting to the process-local
// zone when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}

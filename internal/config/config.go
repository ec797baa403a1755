// Package config loads the planner configuration from an optional YAML
// file with environment-variable overrides (HOLIDAYPLANNER_*).
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Key     string `yaml:"key"`
	Host    string `yaml:"host"`

	// RateLimits overrides the limiter defaults for specific endpoints,
	// keyed by endpoint path.
	RateLimits map[string]RateLimitConfig `yaml:"rate_limits"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

type CacheConfig struct {
	Backend   string `yaml:"backend"` // file | redis | none
	Dir       string `yaml:"dir"`
	RedisHost string `yaml:"redis_host"`
	RedisPort string `yaml:"redis_port"`
}

type Config struct {
	API      APIConfig   `yaml:"api"`
	Cache    CacheConfig `yaml:"cache"`
	Port     string      `yaml:"port"`
	Workers  int         `yaml:"workers"`
	WatchInt int         `yaml:"watch_interval_hours"`
}

func defaults() *Config {
	return &Config{
		Cache: CacheConfig{
			Backend:   "file",
			Dir:       "caches",
			RedisHost: "localhost",
			RedisPort: "6379",
		},
		Port:     "8080",
		Workers:  4,
		WatchInt: 6,
	}
}

// Load merges defaults, the YAML file at path (if non-empty) and
// environment overrides, in that order.
func Load(path string) (*Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.API.BaseURL = getEnv("HOLIDAYPLANNER_API_URL", cfg.API.BaseURL)
	cfg.API.Key = getEnv("HOLIDAYPLANNER_API_KEY", cfg.API.Key)
	cfg.API.Host = getEnv("HOLIDAYPLANNER_API_HOST", cfg.API.Host)
	cfg.Cache.Backend = getEnv("HOLIDAYPLANNER_CACHE_BACKEND", cfg.Cache.Backend)
	cfg.Cache.Dir = getEnv("HOLIDAYPLANNER_CACHE_DIR", cfg.Cache.Dir)
	cfg.Cache.RedisHost = getEnv("HOLIDAYPLANNER_REDIS_HOST", cfg.Cache.RedisHost)
	cfg.Cache.RedisPort = getEnv("HOLIDAYPLANNER_REDIS_PORT", cfg.Cache.RedisPort)
	cfg.Port = getEnv("HOLIDAYPLANNER_PORT", cfg.Port)
	cfg.Workers = getEnvInt("HOLIDAYPLANNER_WORKERS", cfg.Workers)
	cfg.WatchInt = getEnvInt("HOLIDAYPLANNER_WATCH_INTERVAL_HOURS", cfg.WatchInt)

	if cfg.Workers < 1 {
		return nil, fmt.Errorf("workers must be positive, got %d", cfg.Workers)
	}
	switch cfg.Cache.Backend {
	case "file", "redis", "none":
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
	for endpoint, rl := range cfg.API.RateLimits {
		if rl.RPS <= 0 || rl.Burst < 1 {
			return nil, fmt.Errorf("invalid rate limit for %s: rps %v, burst %d", endpoint, rl.RPS, rl.Burst)
		}
	}

	return cfg, nil
}

// ValidateCredentials checks the fields required to talk to the remote
// service; commands that never hit the network skip this.
func (c *Config) ValidateCredentials() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Key == "" {
		return fmt.Errorf("api.key is required")
	}
	if c.API.Host == "" {
		return fmt.Errorf("api.host is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}

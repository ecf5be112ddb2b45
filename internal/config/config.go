package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the complete application configuration
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Confirm ConfirmConfig `mapstructure:"confirm"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Metrics MetricsConfig `mapstructure:"metrics"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig defines the remote access/billing service endpoint
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout string `mapstructure:"timeout"`
	Retries int    `mapstructure:"retries"`
}

// AuthConfig defines the authority level required for on-behalf-of commands
type AuthConfig struct {
	AdminAuthority int `mapstructure:"admin_authority"`
}

// ConfirmConfig defines the checkout confirmation window
type ConfirmConfig struct {
	TTL     string `mapstructure:"ttl"`
	Backend string `mapstructure:"backend"` // "memory" or "redis"
}

// RedisConfig defines the shared confirmation state backend
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// MetricsConfig defines the Prometheus endpoint
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
	Port    int  `mapstructure:"port"`
}

// LoggingConfig defines logging behavior
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the given file, applying defaults and
// PRISMBOT_* environment overrides.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Configure viper
	v.SetConfigFile(configPath)
	v.SetEnvPrefix("PRISMBOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and environment variables
	}

	// Unmarshal config
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// API defaults
	v.SetDefault("api.timeout", "10s")
	v.SetDefault("api.retries", 2)

	// Auth defaults
	v.SetDefault("auth.admin_authority", 3)

	// Confirmation defaults
	v.SetDefault("confirm.ttl", "60s")
	v.SetDefault("confirm.backend", "memory")

	// Redis defaults
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)

	// Metrics defaults
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// validate validates the configuration
func validate(cfg *Config) error {
	if cfg.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if _, err := time.ParseDuration(cfg.API.Timeout); err != nil {
		return fmt.Errorf("invalid api.timeout: %w", err)
	}
	if cfg.API.Retries < 0 {
		return fmt.Errorf("api.retries must not be negative")
	}

	if _, err := time.ParseDuration(cfg.Confirm.TTL); err != nil {
		return fmt.Errorf("invalid confirm.ttl: %w", err)
	}
	switch cfg.Confirm.Backend {
	case "memory":
	case "redis":
		if cfg.Redis.Addr == "" {
			return fmt.Errorf("confirm.backend is redis but redis.addr is empty")
		}
	default:
		return fmt.Errorf("invalid confirm.backend: %q (must be memory or redis)", cfg.Confirm.Backend)
	}

	if cfg.Metrics.Enabled && (cfg.Metrics.Port <= 0 || cfg.Metrics.Port > 65535) {
		return fmt.Errorf("invalid metrics port: %d", cfg.Metrics.Port)
	}

	return nil
}

// Duration parses a config duration string, falling back when empty or
// malformed values slipped past validation.
func Duration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}

package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "loungepos/libs/config"
)

// Config is the process configuration loaded from YAML/env.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"POS_HTTP_PORT"`
	} `yaml:"http"`
	Database struct {
		DSN string `yaml:"dsn" env:"POS_POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr       string `yaml:"addr" env:"POS_REDIS_ADDR"`
		Password   string `yaml:"password" env:"POS_REDIS_PASSWORD"`
		DB         int    `yaml:"db" env:"POS_REDIS_DB"`
		TTLMinutes int    `yaml:"ttlMinutes" env:"POS_REDIS_TTL_MINUTES"`
	} `yaml:"redis"`
	Auth struct {
		JWTSecret        string `yaml:"jwtSecret" env:"POS_JWT_SECRET"`
		ExpiresInMinutes int    `yaml:"expiresInMinutes" env:"POS_JWT_EXPIRES_MINUTES"`
	} `yaml:"auth"`
	Mpesa struct {
		PollIntervalSeconds int `yaml:"pollIntervalSeconds" env:"POS_MPESA_POLL_INTERVAL_SECONDS"`
		PollAttempts        int `yaml:"pollAttempts" env:"POS_MPESA_POLL_ATTEMPTS"`
	} `yaml:"mpesa"`
	Log struct {
		Level string `yaml:"level" env:"POS_LOG_LEVEL"`
	} `yaml:"log"`
}

// Load reads configuration using the shared loader and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "8080"
	cfg.Redis.TTLMinutes = 720
	cfg.Auth.ExpiresInMinutes = 480
	cfg.Mpesa.PollIntervalSeconds = 5
	cfg.Mpesa.PollAttempts = 5
	cfg.Log.Level = "info"

	if err := libconfig.Load(cfg); err != nil {
		return nil, err
	}

	if cfg.Database.DSN == "" {
		return nil, errors.New("config: database DSN is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return nil, errors.New("config: jwt secret is required")
	}
	if cfg.Auth.ExpiresInMinutes <= 0 {
		cfg.Auth.ExpiresInMinutes = 480
	}
	if cfg.Mpesa.PollIntervalSeconds <= 0 {
		cfg.Mpesa.PollIntervalSeconds = 5
	}
	if cfg.Mpesa.PollAttempts <= 0 {
		cfg.Mpesa.PollAttempts = 5
	}

	return cfg, nil
}

// HTTPAddress always returns a host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// JWTExpiration converts the configured expiry to a duration.
func (c *Config) JWTExpiration() time.Duration {
	return time.Duration(c.Auth.ExpiresInMinutes) * time.Minute
}

// RedisTTL converts the configured cache TTL to a duration.
func (c *Config) RedisTTL() time.Duration {
	if c.Redis.TTLMinutes <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(c.Redis.TTLMinutes) * time.Minute
}

// MpesaPollInterval converts the poll interval to a duration.
func (c *Config) MpesaPollInterval() time.Duration {
	return time.Duration(c.Mpesa.PollIntervalSeconds) * time.Second
}

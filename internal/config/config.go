// Package config loads server configuration. Precedence, lowest to highest:
// built-in defaults, the optional YAML config file, then environment
// variables. A .env file is honored when present.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is consulted when CONFIG_FILE is not set.
const DefaultPath = "config/microblog.yaml"

// Config holds the server settings.
type Config struct {
	HTTPAddr           string        `yaml:"http_addr"`
	DatabaseURL        string        `yaml:"database_url"`
	CORSOrigins        []string      `yaml:"cors_origins"`
	RateLimitPerSecond int           `yaml:"rate_limit_per_second"`
	RateLimitBurst     int           `yaml:"rate_limit_burst"`
	ShutdownTimeout    time.Duration `yaml:"shutdown_timeout"`
}

// Default returns the built-in configuration. With no DatabaseURL the server
// runs on the in-memory store.
func Default() *Config {
	return &Config{
		HTTPAddr:           ":8080",
		CORSOrigins:        []string{"*"},
		RateLimitPerSecond: 50,
		RateLimitBurst:     100,
		ShutdownTimeout:    10 * time.Second,
	}
}

type envOverrides struct {
	HTTPAddr           *string        `env:"HTTP_ADDR"`
	DatabaseURL        *string        `env:"DATABASE_URL"`
	CORSOrigins        *string        `env:"CORS_ORIGINS"`
	RateLimitPerSecond *int           `env:"RATE_LIMIT_PER_SECOND"`
	RateLimitBurst     *int           `env:"RATE_LIMIT_BURST"`
	ShutdownTimeout    *time.Duration `env:"SHUTDOWN_TIMEOUT"`
}

// Load builds the configuration from defaults, file and environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	path := os.Getenv("CONFIG_FILE")
	required := path != ""
	if path == "" {
		path = DefaultPath
	}
	if err := applyFile(cfg, path, required); err != nil {
		return nil, err
	}

	var env envOverrides
	if err := envdecode.Decode(&env); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return nil, fmt.Errorf("decode environment: %w", err)
	}
	applyEnv(cfg, env)

	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("http_addr is required")
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string, required bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !required {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config, env envOverrides) {
	if env.HTTPAddr != nil {
		cfg.HTTPAddr = *env.HTTPAddr
	}
	if env.DatabaseURL != nil {
		cfg.DatabaseURL = *env.DatabaseURL
	}
	if env.CORSOrigins != nil {
		cfg.CORSOrigins = splitList(*env.CORSOrigins)
	}
	if env.RateLimitPerSecond != nil {
		cfg.RateLimitPerSecond = *env.RateLimitPerSecond
	}
	if env.RateLimitBurst != nil {
		cfg.RateLimitBurst = *env.RateLimitBurst
	}
	if env.ShutdownTimeout != nil {
		cfg.ShutdownTimeout = *env.ShutdownTimeout
	}
}

func splitList(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

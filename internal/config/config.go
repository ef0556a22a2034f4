// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/transducer/internal/logging"
	"github.com/caarlos0/env/v11"
)

// Server holds the settings of the serve and mcp commands.
type Server struct {
	Addr     string        `env:"FST_ADDR" envDefault:":8080"`
	LogLevel string        `env:"FST_LOG_LEVEL" envDefault:"info"`
	Metrics  bool          `env:"FST_METRICS" envDefault:"true"`
	LockTTL  time.Duration `env:"FST_LOCK_TTL" envDefault:"30s"`

	// Redis enables distributed locking when RedisAddr is set.
	RedisAddr     string `env:"FST_REDIS_ADDR"`
	RedisPassword string `env:"FST_REDIS_PASSWORD"`
	RedisDB       int    `env:"FST_REDIS_DB" envDefault:"0"`
	RedisPrefix   string `env:"FST_REDIS_PREFIX" envDefault:"fst:"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses a Server and checks its values.
func Load() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	if _, err := cfg.Level(); err != nil {
		return Server{}, err
	}
	if cfg.LockTTL <= 0 {
		return Server{}, fmt.Errorf("FST_LOCK_TTL must be positive, got %s", cfg.LockTTL)
	}
	return cfg, nil
}

// Level returns the parsed log level.
func (c Server) Level() (slog.Level, error) {
	return logging.ParseLevel(c.LogLevel)
}

// UseRedis reports whether a Redis locker should be configured.
func (c Server) UseRedis() bool {
	return c.RedisAddr != ""
}

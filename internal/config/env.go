// Package config reads process settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds server settings.
type Config struct {
	HTTPAddr       string        `env:"ARENA_HTTP_ADDR" envDefault:":8080"`
	GRPCAddr       string        `env:"ARENA_GRPC_ADDR" envDefault:":9090"`
	DBPath         string        `env:"ARENA_DB_PATH"`    // empty keeps state in memory
	ConfigDir      string        `env:"ARENA_CONFIG_DIR"` // empty uses embedded defaults only
	Seed           uint64        `env:"ARENA_SEED"`       // 0 uses crypto randomness
	ReloadInterval time.Duration `env:"ARENA_RELOAD_INTERVAL" envDefault:"5s"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.ReloadInterval <= 0 {
		return Config{}, fmt.Errorf("ARENA_RELOAD_INTERVAL must be positive, got %s", cfg.ReloadInterval)
	}
	return cfg, nil
}

// Package config loads the process configuration from environment
// variables, once, at startup.
//
// Everything downstream receives configuration as explicit constructor
// arguments — the signing secret and issuer/audience are threaded into the
// TokenService, never read from ambient global state after this point.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config is the full configuration surface of the server.
type Config struct {
	// Port the HTTP server listens on.
	Port int `env:"PORT" envDefault:"4000"`

	// DBPath is the SQLite database file. ":memory:" works for local
	// experiments but loses everything on restart.
	DBPath string `env:"DB_PATH" envDefault:"data/teajournal.db"`

	// JWTSecret signs and verifies identity tokens. Required, no default —
	// a baked-in default secret would make every deployment forge-able.
	// Generate one with: openssl rand -hex 32
	JWTSecret string `env:"JWT_SECRET"`

	// JWTIssuer and JWTAudience are pinned into every issued token and
	// checked on every verification.
	JWTIssuer   string `env:"JWT_ISSUER" envDefault:"tea-journal"`
	JWTAudience string `env:"JWT_AUDIENCE" envDefault:"tea-journal-api"`
}

// Load parses the environment into a Config.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parsing environment: %w", err)
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("config: JWT_SECRET is required")
	}
	return cfg, nil
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Bootstrap Only: The Access block seeds runtime settings; the live values
    are stored in the database and re-read per request.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the toolauth API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis), backs the per-actor rate limiter.
	RedisURL string `env:"REDIS_URL,required"`

	// Tokens are issued by the membership site; we only verify them.
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`
	JWTIssuer      string `env:"JWT_ISSUER" envDefault:"toolauth"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX"`

	// Access holds the bootstrap defaults for the access request flow.
	Access Access `envPrefix:"ACCESS_"`
}

// Access is the env-provided fallback for the runtime access settings.
type Access struct {
	GatewayURL     string        `env:"GATEWAY_URL"`
	TimeoutSeconds int           `env:"TIMEOUT_SECONDS"  envDefault:"5"`
	HMACSecret     string        `env:"HMAC_SECRET"`
	DryRun         bool          `env:"DRY_RUN"          envDefault:"false"`
	AssetMapFile   string        `env:"ASSET_MAP_FILE"`
	RateLimit      int           `env:"RATE_LIMIT"       envDefault:"10"`
	RateWindow     time.Duration `env:"RATE_WINDOW"      envDefault:"1m"`
	SettingsTTL    time.Duration `env:"SETTINGS_TTL"     envDefault:"5s"`
	MemberRole     string        `env:"MEMBER_ROLE"      envDefault:"member"`
	PaymentURL     string        `env:"PAYMENT_PORTAL_URL"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// OriginSuffix returns the suffix an Origin header must carry outside development.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}

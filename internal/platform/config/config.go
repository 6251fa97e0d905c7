// Copyright (c) 2026 ShopIt. All rights reserved.
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
  - DI-Friendly: Passed to core components (DB, Redis, Mailer) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/caarlos0/env/v11"
)

// Supported credential store backends.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

// # Configuration Schema

// Config holds all runtime configuration for the ShopIt API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// StoreDriver selects the user store backend: "postgres" or "mongo".
	StoreDriver string `env:"STORE_DRIVER" envDefault:"postgres"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Document Database (MongoDB)
	Mongo MongoConfig `envPrefix:"MONGO_"`

	// Key-Value Cache (Redis), holds the logout denylist
	RedisURL string `env:"REDIS_URL,required"`

	// Cryptographic keys for credential signing
	JWTPrivKeyPath string        `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH,required"`
	JWTExpires     time.Duration `env:"JWT_EXPIRES"    envDefault:"168h"`
	CookieExpires  time.Duration `env:"COOKIE_EXPIRES" envDefault:"168h"`

	// ResetTokenTTL is how long an emailed password reset link stays valid.
	ResetTokenTTL time.Duration `env:"RESET_TOKEN_TTL" envDefault:"30m"`

	// PublicBaseURL is the origin used in emailed links. Required in
	// production; elsewhere it falls back to the request Host.
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`

	// Cross-Origin Resource Sharing
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"shopit.app"`

	// Outgoing mail
	SMTP SMTPConfig `envPrefix:"SMTP_"`
}

// MongoConfig holds the document store connection settings.
type MongoConfig struct {
	URI      string `env:"URI"`
	Database string `env:"DATABASE" envDefault:"shopit"`
}

// SMTPConfig holds the outgoing mail relay settings.
// An empty Host switches the application to the logging mailer.
type SMTPConfig struct {
	Host      string `env:"HOST"`
	Port      int    `env:"PORT"       envDefault:"587"`
	Username  string `env:"USERNAME"`
	Password  string `env:"PASSWORD"`
	FromEmail string `env:"FROM_EMAIL" envDefault:"noreply@shopit.app"`
	FromName  string `env:"FROM_NAME"  envDefault:"ShopIt"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	return load(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environment map[string]string) (*Config, error) {
	return load(env.Options{Environment: environment})
}

func load(options env.Options) (*Config, error) {
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.ParseWithOptions(cfg, options); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return cfg, nil
}

// validate checks the cross-field rules env tags cannot express.
func (c *Config) validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	case DriverMongo:
		if c.Mongo.URI == "" {
			return errors.New("MONGO_URI is required when STORE_DRIVER=mongo")
		}
	default:
		return fmt.Errorf("unsupported STORE_DRIVER %q", c.StoreDriver)
	}

	if c.JWTExpires <= 0 || c.CookieExpires <= 0 || c.ResetTokenTTL <= 0 {
		return errors.New("JWT_EXPIRES, COOKIE_EXPIRES and RESET_TOKEN_TTL must be positive")
	}

	if c.IsProduction() {
		base, err := url.Parse(c.PublicBaseURL)
		if c.PublicBaseURL == "" || err != nil || base.Scheme == "" || base.Host == "" {
			return errors.New("PUBLIC_BASE_URL must be an absolute URL when ENVIRONMENT=production")
		}
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

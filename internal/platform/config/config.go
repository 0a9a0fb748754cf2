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
  - DI-Friendly: Passed to core components (DB, Redis, Mail) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the yamdb API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// SessionSecret seeds the confirmation-code signing key.
	SessionSecret  string `env:"SESSION_SECRET,required"`
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH,required"`
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`

	// ConfirmationCodeTTL bounds how long a signup code can be exchanged.
	ConfirmationCodeTTL time.Duration `env:"CONFIRMATION_CODE_TTL" envDefault:"72h"`

	// Outbound mail: "file" writes messages into MailFilePath, "smtp" delivers via SMTPAddr.
	MailBackend  string `env:"MAIL_BACKEND"   envDefault:"file"`
	MailFilePath string `env:"MAIL_FILE_PATH" envDefault:"./sent_emails"`
	MailFrom     string `env:"MAIL_FROM"      envDefault:"yamdb@yamdb.com"`
	SMTPAddr     string `env:"SMTP_ADDR"`
	SMTPUsername string `env:"SMTP_USERNAME"`
	SMTPPassword string `env:"SMTP_PASSWORD"`

	// SMTPTimeout bounds dialing and each exchange with the relay.
	SMTPTimeout time.Duration `env:"SMTP_TIMEOUT" envDefault:"10s"`

	// Cross-Origin Resource Sharing (production origin suffix)
	AllowedOriginSuffix string `env:"ALLOWED_ORIGIN_SUFFIX" envDefault:"yamdb.com"`
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

	if cfg.MailBackend != "file" && cfg.MailBackend != "smtp" {
		return nil, fmt.Errorf("config: unsupported MAIL_BACKEND %q", cfg.MailBackend)
	}

	if cfg.MailBackend == "smtp" && cfg.SMTPAddr == "" {
		return nil, fmt.Errorf("config: SMTP_ADDR is required when MAIL_BACKEND=smtp")
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

// OriginSuffix returns the origin suffix trusted outside development.
func (c *Config) OriginSuffix() string {
	return c.AllowedOriginSuffix
}

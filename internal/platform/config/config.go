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
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/taibuivan/vidtube/internal/platform/constants"
)

// # Store Drivers

const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
)

// # Configuration Schema

// Config holds all runtime configuration for the vidtube API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// StoreDriver selects the credential store backend.
	StoreDriver string `env:"STORE_DRIVER" envDefault:"mongo"`

	// Document Database (MongoDB)
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"vidtube"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Token signing
	AccessTokenSecret  string        `env:"ACCESS_TOKEN_SECRET,required"`
	AccessTokenExpiry  time.Duration `env:"ACCESS_TOKEN_EXPIRY"  envDefault:"15m"`
	RefreshTokenSecret string        `env:"REFRESH_TOKEN_SECRET,required"`
	RefreshTokenExpiry time.Duration `env:"REFRESH_TOKEN_EXPIRY" envDefault:"240h"`

	// Object Storage (S3-compatible)
	S3Bucket        string `env:"S3_BUCKET"`
	S3Region        string `env:"S3_REGION"   envDefault:"auto"`
	S3Endpoint      string `env:"S3_ENDPOINT"`
	S3AccessKey     string `env:"S3_ACCESS_KEY"`
	S3SecretKey     string `env:"S3_SECRET_KEY"`
	S3PublicBaseURL string `env:"S3_PUBLIC_BASE_URL"`
	S3KeyPrefix     string `env:"S3_KEY_PREFIX" envDefault:"uploads"`
	MaxUploadBytes  int64  `env:"MAX_UPLOAD_BYTES"`

	// Outbound mail for password reset links
	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT"     envDefault:"587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASSWORD"`
	SMTPFrom     string `env:"SMTP_FROM"     envDefault:"no-reply@vidtube.app"`
	ResetURLBase string `env:"RESET_URL_BASE" envDefault:"http://localhost:5173/reset-password"`

	// Cross-Origin Resource Sharing
	CORSOrigin []string `env:"CORS_ORIGIN" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct and validates it.
func Load() (*Config, error) {
	return LoadFrom(nil)
}

// LoadFrom is [Load] with an explicit environment, used by tests.
// A nil map reads the process environment.
func LoadFrom(environment map[string]string) (*Config, error) {
	cfg := &Config{}

	options := env.Options{}
	if environment != nil {
		options.Environment = environment
	}

	// This will fail if any field marked with 'required' is missing.
	if err := env.ParseWithOptions(cfg, options); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = constants.DefaultMaxUploadBytes
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks rules that span more than one variable.
func (c *Config) Validate() error {
	var problems []error

	switch c.StoreDriver {
	case DriverMongo:
		if c.MongoURI == "" {
			problems = append(problems, errors.New("MONGO_URI is required when STORE_DRIVER=mongo"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			problems = append(problems, errors.New("DATABASE_URL is required when STORE_DRIVER=postgres"))
		}
		if c.MigrationPath == "" {
			problems = append(problems, errors.New("MIGRATION_PATH is required when STORE_DRIVER=postgres"))
		}
	default:
		problems = append(problems, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverPostgres, c.StoreDriver))
	}

	if c.IsProduction() {
		if !c.MediaEnabled() {
			problems = append(problems, errors.New("S3_BUCKET is required in production"))
		}
		if !c.MailEnabled() {
			problems = append(problems, errors.New("SMTP_HOST is required in production"))
		}
	}

	if c.AccessTokenSecret == c.RefreshTokenSecret {
		problems = append(problems, errors.New("ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET must differ"))
	}
	if c.AccessTokenExpiry <= 0 || c.RefreshTokenExpiry <= 0 {
		problems = append(problems, errors.New("token expiries must be positive"))
	}

	if len(problems) > 0 {
		return fmt.Errorf("config: invalid configuration: %w", errors.Join(problems...))
	}
	return nil
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// MediaEnabled reports whether an object store is configured.
func (c *Config) MediaEnabled() bool {
	return strings.TrimSpace(c.S3Bucket) != ""
}

// MailEnabled reports whether SMTP delivery is configured.
func (c *Config) MailEnabled() bool {
	return strings.TrimSpace(c.SMTPHost) != ""
}

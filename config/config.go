package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of every application environment variable.
const EnvPrefix = "TAGTIME_"

// Config holds all configuration for the application
type Config struct {
	Environment string `koanf:"-"`

	DBDriver       string `koanf:"db_driver" validate:"required,oneof=sqlite sqlite3 postgres postgresql pq"`
	DBDSN          string `koanf:"db_dsn" validate:"required"`
	DBMaxOpenConns int    `koanf:"db_max_open_conns" validate:"gte=0"`

	Port           string   `koanf:"port" validate:"required,numeric"`
	RequestTimeout int      `koanf:"request_timeout" validate:"gte=1"`
	CORSOrigins    []string `koanf:"cors_origins"`

	AuthSecret    string `koanf:"auth_secret" validate:"omitempty,min=16"`
	TokenTTLHours int    `koanf:"token_ttl_hours" validate:"gte=1"`
}

// Timeout returns the per-request service timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// TokenTTL returns the lifetime of issued bearer tokens.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

// AuthEnabled reports whether API routes require a bearer token.
func (c *Config) AuthEnabled() bool {
	return c.AuthSecret != ""
}

func defaults() *Config {
	return &Config{
		DBDriver:       "sqlite",
		DBDSN:          "tagtime.db",
		Port:           "8080",
		RequestTimeout: 5,
		TokenTTLHours:  720,
	}
}

// Load loads configuration from environment variables
// It attempts to load from .env file if not in production
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Load .env file if not in production
	// We don't return error here because in production .env might not exist
	// and we rely on system environment variables
	if env != "production" {
		if err := godotenv.Load(); err != nil {
			log.Printf("Warning: .env file not found or couldn't be loaded: %v", err)
		}
	}

	cfg, err := fromEnv()
	if err != nil {
		return nil, err
	}
	cfg.Environment = env
	return cfg, nil
}

// fromEnv maps TAGTIME_* variables onto the defaults and validates the result.
// TAGTIME_DB_DSN becomes the key db_dsn.
func fromEnv() (*Config, error) {
	k := koanf.New(".")
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env: %w", err)
	}

	cfg := defaults()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.CORSOrigins = splitList(cfg.CORSOrigins)

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// splitList flattens comma-separated entries and drops blanks.
func splitList(in []string) []string {
	var out []string
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application settings from YORD_* environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// Session store backends.
const (
	SessionStoreSQLite = "sqlite"
	SessionStoreRedis  = "redis"
)

// knownWeakSecrets contains example secrets that must never be used.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"YORD_DB_PATH" envDefault:"./data/yord.db"`
	SessionSecret string `env:"YORD_SESSION_SECRET,required"`
	ServerHost    string `env:"YORD_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"YORD_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"YORD_ENV" envDefault:"development"`
	LogLevel      string `env:"YORD_LOG_LEVEL" envDefault:"info"`

	// Administrator bootstrap; seeding is skipped when either is empty.
	AdminEmail    string `env:"YORD_ADMIN_EMAIL"`
	AdminPassword string `env:"YORD_ADMIN_PASSWORD"`

	MembersPerPage int `env:"YORD_MEMBERS_PER_PAGE" envDefault:"10"`

	// Session backend: "sqlite" (default) or "redis".
	SessionStore string `env:"YORD_SESSION_STORE" envDefault:"sqlite"`
	RedisURL     string `env:"YORD_REDIS_URL"`

	// Public form limiter, POSTs per second per client IP.
	FormRateLimit float64 `env:"YORD_FORM_RATE_LIMIT" envDefault:"1"`
	FormRateBurst int     `env:"YORD_FORM_RATE_BURST" envDefault:"10"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisSessions reports whether sessions live in Redis.
func (c Config) UseRedisSessions() bool {
	return c.SessionStore == SessionStoreRedis
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given variables instead of the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.SessionSecret) < MinSessionSecretLength {
		return fmt.Errorf("YORD_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(c.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if c.SessionSecret == weak {
			return fmt.Errorf("YORD_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(c.SessionSecret) {
		slog.Warn("YORD_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if c.MembersPerPage < 1 {
		return fmt.Errorf("YORD_MEMBERS_PER_PAGE must be positive, got %d", c.MembersPerPage)
	}

	switch c.SessionStore {
	case SessionStoreSQLite:
	case SessionStoreRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("YORD_REDIS_URL is required when YORD_SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("YORD_SESSION_STORE must be %q or %q, got %q",
			SessionStoreSQLite, SessionStoreRedis, c.SessionStore)
	}

	return nil
}

// hasMinimumEntropy checks that a secret mixes at least 3 character classes.
func hasMinimumEntropy(s string) bool {
	classes := []string{
		"abcdefghijklmnopqrstuvwxyz",
		"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
		"0123456789",
		"!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\",
	}
	n := 0
	for _, class := range classes {
		if strings.ContainsAny(s, class) {
			n++
		}
	}
	return n >= 3
}

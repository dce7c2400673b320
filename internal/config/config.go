// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"toolstore/internal/i18n"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Backend REST API
	APIBaseURL string
	APITimeout time.Duration

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// TreeCacheTTL is how long the category tree stays cached. Zero
	// disables the cache.
	TreeCacheTTL time.Duration

	DefaultLang i18n.Lang

	// CORSOrigins lists browser origins allowed to call the API.
	CORSOrigins []string

	// LoginRateLimit is the number of login attempts allowed per IP per minute.
	LoginRateLimit int
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory
// is read first; real environment variables take precedence over it.
// Returns an error if a value is malformed or a critical value is missing
// in production mode.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		APIBaseURL: strings.TrimRight(os.Getenv("API_BASE_URL"), "/"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		CORSOrigins: splitList(os.Getenv("CORS_ORIGINS")),
	}

	var err error
	if cfg.APITimeout, err = durationOrDefault("API_TIMEOUT", 15*time.Second); err != nil {
		return nil, err
	}
	if cfg.TreeCacheTTL, err = durationOrDefault("TREE_CACHE_TTL", 5*time.Minute); err != nil {
		return nil, err
	}
	if cfg.LoginRateLimit, err = intOrDefault("LOGIN_RATE_LIMIT", 5); err != nil {
		return nil, err
	}

	lang, ok := i18n.Parse(envOrDefault("DEFAULT_LANG", string(i18n.Default)))
	if !ok {
		return nil, fmt.Errorf("DEFAULT_LANG %q is not a supported language", os.Getenv("DEFAULT_LANG"))
	}
	cfg.DefaultLang = lang

	if cfg.APIBaseURL == "" {
		if cfg.Env == "production" {
			return nil, fmt.Errorf("API_BASE_URL must be set in production")
		}
		cfg.APIBaseURL = "http://localhost:3000"
	}

	return cfg, nil
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// SecureCookies reports whether cookies should carry the Secure flag.
func (c *Config) SecureCookies() bool {
	return c.Env == "production"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// durationOrDefault parses a Go duration ("30s", "5m"). A bare "0"
// is a zero duration.
func durationOrDefault(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s: invalid duration %q", key, v)
	}
	return d, nil
}

func intOrDefault(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("%s: must be a positive integer, got %q", key, v)
	}
	return n, nil
}

// splitList parses a comma-separated list, dropping blanks.
func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

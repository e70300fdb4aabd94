// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the application configuration from the environment.
package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"MULTILINGUAL_DB_PATH" envDefault:"./data/multilingual.db"`
	ServerHost string `env:"MULTILINGUAL_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"MULTILINGUAL_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"MULTILINGUAL_ENV" envDefault:"development"`
	LogLevel   string `env:"MULTILINGUAL_LOG_LEVEL" envDefault:"info"`

	// Cache configuration
	RedisURL     string `env:"MULTILINGUAL_REDIS_URL"`                                // Optional Redis URL for shared bundle caching
	CachePrefix  string `env:"MULTILINGUAL_CACHE_PREFIX" envDefault:"multilingual:"`  // Redis key prefix
	CacheTTL     int    `env:"MULTILINGUAL_CACHE_TTL" envDefault:"3600"`              // Default cache TTL in seconds
	CacheMaxSize int    `env:"MULTILINGUAL_CACHE_MAX_SIZE" envDefault:"1000"`         // Max memory cache entries

	// Bundle endpoint rate limit per client IP
	BundleRateLimit float64 `env:"MULTILINGUAL_BUNDLE_RATE_LIMIT" envDefault:"20"`
	BundleRateBurst int     `env:"MULTILINGUAL_BUNDLE_RATE_BURST" envDefault:"40"`

	// LocalesFile is an optional TOML file with additional locale definitions.
	LocalesFile string `env:"MULTILINGUAL_LOCALES_FILE"`

	DoSeed bool `env:"MULTILINGUAL_DO_SEED" envDefault:"false"`

	// Event log retention
	EventRetentionDays   int    `env:"MULTILINGUAL_EVENT_RETENTION_DAYS" envDefault:"30"`
	EventCleanupSchedule string `env:"MULTILINGUAL_EVENT_CLEANUP_SCHEDULE" envDefault:"@daily"`

	// Initial values of the site settings. Values saved through the admin
	// settings endpoint take precedence.
	Enabled                   bool     `env:"MULTILINGUAL_ENABLED" envDefault:"true"`
	ContentLanguagesEnabled   bool     `env:"MULTILINGUAL_CONTENT_LANGUAGES_ENABLED" envDefault:"true"`
	ContentLanguages          []string `env:"MULTILINGUAL_CONTENT_LANGUAGES" envSeparator:"," envDefault:"en,zh_CN"`
	InterfaceLanguages        []string `env:"MULTILINGUAL_INTERFACE_LANGUAGES" envSeparator:","`
	RequireContentLanguageTag string   `env:"MULTILINGUAL_REQUIRE_CONTENT_LANGUAGE_TAG" envDefault:"no"`
	TopicFilteringEnabled     bool     `env:"MULTILINGUAL_TOPIC_FILTERING_ENABLED" envDefault:"true"`
	GuestLanguageSwitcher     string   `env:"MULTILINGUAL_GUEST_LANGUAGE_SWITCHER" envDefault:"off"`
}

var (
	logLevels     = []string{"debug", "info", "warn", "error"}
	requireModes  = []string{"no", "yes", "non-staff"}
	switcherModes = []string{"off", "header"}
)

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// CacheTTLDuration returns CacheTTL as a duration.
func (c Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// EventRetention returns EventRetentionDays as a duration.
func (c Config) EventRetention() time.Duration {
	return time.Duration(c.EventRetentionDays) * 24 * time.Hour
}

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.LogLevel = strings.ToLower(cfg.LogLevel)
	if !slices.Contains(logLevels, cfg.LogLevel) {
		return nil, fmt.Errorf("MULTILINGUAL_LOG_LEVEL must be one of %v, got %q", logLevels, cfg.LogLevel)
	}
	if cfg.ServerPort < 1 || cfg.ServerPort > 65535 {
		return nil, fmt.Errorf("MULTILINGUAL_SERVER_PORT out of range: %d", cfg.ServerPort)
	}
	if !slices.Contains(requireModes, cfg.RequireContentLanguageTag) {
		return nil, fmt.Errorf("MULTILINGUAL_REQUIRE_CONTENT_LANGUAGE_TAG must be one of %v, got %q",
			requireModes, cfg.RequireContentLanguageTag)
	}
	if !slices.Contains(switcherModes, cfg.GuestLanguageSwitcher) {
		return nil, fmt.Errorf("MULTILINGUAL_GUEST_LANGUAGE_SWITCHER must be one of %v, got %q",
			switcherModes, cfg.GuestLanguageSwitcher)
	}
	if cfg.BundleRateLimit <= 0 || cfg.BundleRateBurst < 1 {
		return nil, fmt.Errorf("bundle rate limit must be positive")
	}

	if cfg.EventRetentionDays < 1 {
		return nil, fmt.Errorf("MULTILINGUAL_EVENT_RETENTION_DAYS must be at least 1, got %d", cfg.EventRetentionDays)
	}

	cfg.ContentLanguages = trimCodes(cfg.ContentLanguages)
	cfg.InterfaceLanguages = trimCodes(cfg.InterfaceLanguages)

	return cfg, nil
}

func trimCodes(codes []string) []string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Catalog   CatalogConfig   `koanf:"catalog"`
	Recommend RecommendConfig `koanf:"recommend"`
	Profiles  ProfilesConfig  `koanf:"profiles"`
	Notify    NotifyConfig    `koanf:"notify"`
	Events    EventsConfig    `koanf:"events"`
	OCR       OCRConfig       `koanf:"ocr"`
	Security  SecurityConfig  `koanf:"security"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port        int           `koanf:"port"`
	Host        string        `koanf:"host"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"` // "development", "staging", "production"
}

// Address returns the host:port the HTTP server binds to.
func (s ServerConfig) Address() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// CatalogConfig describes where the book catalog comes from and when it is reloaded.
type CatalogConfig struct {
	Source         string        `koanf:"source"` // "csv" or "duckdb"
	Path           string        `koanf:"path"`
	ReloadInterval time.Duration `koanf:"reload_interval"` // 0 disables periodic reloads
	Watch          bool          `koanf:"watch"`           // reload when the catalog file changes
}

// RecommendConfig holds recommendation engine settings
type RecommendConfig struct {
	ResolutionCacheSize int           `koanf:"resolution_cache_size"`
	ResolutionCacheTTL  time.Duration `koanf:"resolution_cache_ttl"`
}

// ProfilesConfig selects the reader profile store.
type ProfilesConfig struct {
	Store string `koanf:"store"` // "badger" or "memory"
	Path  string `koanf:"path"`
}

// NotifyConfig holds SMTP settings for recommendation emails.
type NotifyConfig struct {
	Enabled       bool    `koanf:"enabled"`
	SMTPHost      string  `koanf:"smtp_host"`
	SMTPPort      int     `koanf:"smtp_port"`
	SMTPUser      string  `koanf:"smtp_user"`
	SMTPPassword  string  `koanf:"smtp_password"`
	From          string  `koanf:"from"`
	FromName      string  `koanf:"from_name"`
	UseTLS        bool    `koanf:"use_tls"`
	MaxRetries    int     `koanf:"max_retries"`
	RatePerSecond float64 `koanf:"rate_per_second"`
}

// EventsConfig selects the notification bus backend.
type EventsConfig struct {
	Backend  string `koanf:"backend"` // "memory" or "nats"
	NATSURL  string `koanf:"nats_url"`
	Embedded bool   `koanf:"embedded"`
	StoreDir string `koanf:"store_dir"`
	Topic    string `koanf:"topic"`
}

// OCRConfig holds the vision model endpoint used for cover text extraction.
type OCRConfig struct {
	Enabled bool          `koanf:"enabled"`
	URL     string        `koanf:"url"`
	Model   string        `koanf:"model"`
	Timeout time.Duration `koanf:"timeout"`
}

// SecurityConfig holds CORS and rate limiting settings
type SecurityConfig struct {
	CORSOrigins       []string      `koanf:"cors_origins"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"` // "json" or "console"
	Caller bool   `koanf:"caller"`
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// HasWildcardCORS reports whether any configured origin is "*".
func (c *Config) HasWildcardCORS() bool {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			return true
		}
	}
	return false
}

// Load loads configuration using Koanf with layered sources.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

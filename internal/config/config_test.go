// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package config

import (
	"strings"
	"testing"
	"time"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "port zero", mutate: func(c *Config) { c.Server.Port = 0 }, wantErr: "HTTP_PORT"},
		{name: "negative timeout", mutate: func(c *Config) { c.Server.Timeout = -time.Second }, wantErr: "HTTP_TIMEOUT"},
		{name: "unknown environment", mutate: func(c *Config) { c.Server.Environment = "qa" }, wantErr: "ENVIRONMENT"},
		{name: "duckdb source", mutate: func(c *Config) { c.Catalog.Source = "duckdb" }},
		{name: "empty catalog path", mutate: func(c *Config) { c.Catalog.Path = "" }, wantErr: "CATALOG_PATH"},
		{name: "negative reload interval", mutate: func(c *Config) { c.Catalog.ReloadInterval = -time.Minute }, wantErr: "CATALOG_RELOAD_INTERVAL"},
		{name: "reload interval too short", mutate: func(c *Config) { c.Catalog.ReloadInterval = time.Second }, wantErr: "CATALOG_RELOAD_INTERVAL"},
		{name: "reload interval", mutate: func(c *Config) { c.Catalog.ReloadInterval = time.Hour }},
		{name: "zero cache size", mutate: func(c *Config) { c.Recommend.ResolutionCacheSize = 0 }, wantErr: "RESOLUTION_CACHE_SIZE"},
		{name: "negative cache ttl", mutate: func(c *Config) { c.Recommend.ResolutionCacheTTL = -time.Second }, wantErr: "RESOLUTION_CACHE_TTL"},
		{name: "memory profile store", mutate: func(c *Config) { c.Profiles.Store = "memory"; c.Profiles.Path = "" }},
		{name: "badger without path", mutate: func(c *Config) { c.Profiles.Path = "" }, wantErr: "PROFILE_STORE_PATH"},
		{name: "unknown profile store", mutate: func(c *Config) { c.Profiles.Store = "redis" }, wantErr: "PROFILE_STORE"},
		{
			name: "notify enabled",
			mutate: func(c *Config) {
				c.Notify.Enabled = true
				c.Notify.From = "books@example.com"
			},
		},
		{
			name: "notify bad sender",
			mutate: func(c *Config) {
				c.Notify.Enabled = true
				c.Notify.From = "not an address"
			},
			wantErr: "SMTP_FROM",
		},
		{
			name: "notify zero rate",
			mutate: func(c *Config) {
				c.Notify.Enabled = true
				c.Notify.From = "books@example.com"
				c.Notify.RatePerSecond = 0
			},
			wantErr: "NOTIFY_RATE_PER_SECOND",
		},
		{
			name: "notify too many retries",
			mutate: func(c *Config) {
				c.Notify.Enabled = true
				c.Notify.From = "books@example.com"
				c.Notify.MaxRetries = 11
			},
			wantErr: "NOTIFY_MAX_RETRIES",
		},
		{
			name: "notify disabled skips checks",
			mutate: func(c *Config) {
				c.Notify.SMTPHost = ""
				c.Notify.RatePerSecond = 0
			},
		},
		{name: "embedded nats", mutate: func(c *Config) { c.Events.Backend = "nats" }},
		{
			name: "external nats bad url",
			mutate: func(c *Config) {
				c.Events.Backend = "nats"
				c.Events.Embedded = false
				c.Events.NATSURL = "http://127.0.0.1:4222"
			},
			wantErr: "NATS_URL",
		},
		{
			name: "external nats",
			mutate: func(c *Config) {
				c.Events.Backend = "nats"
				c.Events.Embedded = false
				c.Events.NATSURL = "nats://nats.internal:4222"
			},
		},
		{name: "empty topic", mutate: func(c *Config) { c.Events.Topic = "" }, wantErr: "EVENTS_TOPIC"},
		{name: "ocr enabled", mutate: func(c *Config) { c.OCR.Enabled = true }},
		{
			name: "ocr url with path",
			mutate: func(c *Config) {
				c.OCR.Enabled = true
				c.OCR.URL = "http://localhost:11434/api"
			},
			wantErr: "OLLAMA_URL",
		},
		{
			name: "ocr zero timeout",
			mutate: func(c *Config) {
				c.OCR.Enabled = true
				c.OCR.Timeout = 0
			},
			wantErr: "OCR_TIMEOUT",
		},
		{name: "no cors origins", mutate: func(c *Config) { c.Security.CORSOrigins = nil }, wantErr: "CORS_ORIGINS"},
		{name: "rate limit zero", mutate: func(c *Config) { c.Security.RateLimitReqs = 0 }, wantErr: "RATE_LIMIT_REQUESTS"},
		{name: "rate limit window", mutate: func(c *Config) { c.Security.RateLimitWindow = 2 * time.Hour }, wantErr: "RATE_LIMIT_WINDOW"},
		{
			name: "rate limit disabled skips bounds",
			mutate: func(c *Config) {
				c.Security.RateLimitDisabled = true
				c.Security.RateLimitReqs = 0
			},
		},
		{name: "bad log level", mutate: func(c *Config) { c.Logging.Level = "fatal" }, wantErr: "LOG_LEVEL"},
		{name: "bad log format", mutate: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "LOG_FORMAT"},
		{name: "empty log format", mutate: func(c *Config) { c.Logging.Format = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := defaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()

			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateHTTPURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url     string
		wantErr bool
	}{
		{"http://localhost:11434", false},
		{"https://ollama.example.com/", false},
		{"ftp://localhost", true},
		{"http://", true},
		{"http://localhost/api/generate", true},
		{"http://localhost?x=1", true},
		{"://bad", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			err := validateHTTPURL(tt.url, "OLLAMA_URL")
			if (err != nil) != tt.wantErr {
				t.Errorf("validateHTTPURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestValidateNATSURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		url     string
		wantErr bool
	}{
		{"nats://127.0.0.1:4222", false},
		{"tls://nats.example.com:4222", false},
		{"ws://nats.example.com:8080", false},
		{"http://nats.example.com", true},
		{"nats://", true},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			t.Parallel()
			err := validateNATSURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateNATSURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestServerAddress(t *testing.T) {
	t.Parallel()

	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 8420, "0.0.0.0:8420"},
		{"", 9000, ":9000"},
		{"::1", 8420, "[::1]:8420"},
	}
	for _, tt := range tests {
		s := ServerConfig{Host: tt.host, Port: tt.port}
		if got := s.Address(); got != tt.want {
			t.Errorf("Address() = %q, want %q", got, tt.want)
		}
	}
}

func TestShouldWarnAboutCORS(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()
	if cfg.ShouldWarnAboutCORS() {
		t.Error("wildcard CORS in development should not warn")
	}

	cfg.Server.Environment = "production"
	if !cfg.ShouldWarnAboutCORS() {
		t.Error("wildcard CORS in production should warn")
	}

	cfg.Security.CORSOrigins = []string{"https://books.example"}
	if cfg.ShouldWarnAboutCORS() {
		t.Error("explicit origins should not warn")
	}
}

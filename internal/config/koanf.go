// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/folio/config.yaml",
	"/etc/folio/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:        8420,
			Host:        "0.0.0.0",
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Catalog: CatalogConfig{
			Source:         "csv",
			Path:           "data/books_data.csv",
			ReloadInterval: 0,
			Watch:          false,
		},
		Recommend: RecommendConfig{
			ResolutionCacheSize: 1000,
			ResolutionCacheTTL:  10 * time.Minute,
		},
		Profiles: ProfilesConfig{
			Store: "badger",
			Path:  "data/profiles",
		},
		Notify: NotifyConfig{
			Enabled:       false, // opt-in, needs SMTP credentials
			SMTPHost:      "smtp.gmail.com",
			SMTPPort:      587,
			FromName:      "Your Book Recommendation Team",
			UseTLS:        true,
			MaxRetries:    3,
			RatePerSecond: 1,
		},
		Events: EventsConfig{
			Backend:  "memory",
			NATSURL:  "nats://127.0.0.1:4222",
			Embedded: true,
			StoreDir: "data/nats",
			Topic:    "notify.recommendations",
		},
		OCR: OCRConfig{
			Enabled: false,
			URL:     "http://localhost:11434",
			Model:   "llama3.2-vision",
			Timeout: 60 * time.Second,
		},
		Security: SecurityConfig{
			CORSOrigins:       []string{"*"},
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
//
// Precedence is ENV > File > Defaults. The result is validated before it is returned.
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	// HTTP_PORT -> server.port, CATALOG_PATH -> catalog.path
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while YAML files already produce slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps lowercased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server
	"http_port":    "server.port",
	"http_host":    "server.host",
	"http_timeout": "server.timeout",
	"environment":  "server.environment",

	// Catalog
	"catalog_source":          "catalog.source",
	"catalog_path":            "catalog.path",
	"catalog_reload_interval": "catalog.reload_interval",
	"catalog_watch":           "catalog.watch",

	// Recommendation
	"resolution_cache_size": "recommend.resolution_cache_size",
	"resolution_cache_ttl":  "recommend.resolution_cache_ttl",

	// Profiles
	"profile_store":      "profiles.store",
	"profile_store_path": "profiles.path",

	// Notifications
	"notify_enabled":         "notify.enabled",
	"smtp_host":              "notify.smtp_host",
	"smtp_port":              "notify.smtp_port",
	"smtp_user":              "notify.smtp_user",
	"smtp_password":          "notify.smtp_password",
	"smtp_from":              "notify.from",
	"smtp_from_name":         "notify.from_name",
	"smtp_use_tls":           "notify.use_tls",
	"notify_max_retries":     "notify.max_retries",
	"notify_rate_per_second": "notify.rate_per_second",

	// Events
	"events_backend": "events.backend",
	"nats_url":       "events.nats_url",
	"nats_embedded":  "events.embedded",
	"nats_store_dir": "events.store_dir",
	"events_topic":   "events.topic",

	// OCR
	"ocr_enabled":  "ocr.enabled",
	"ollama_url":   "ocr.url",
	"ollama_model": "ocr.model",
	"ocr_timeout":  "ocr.timeout",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped keys return an empty string so koanf skips them.
//
// Examples:
//   - HTTP_PORT -> server.port
//   - CATALOG_PATH -> catalog.path
//   - SMTP_FROM_NAME -> notify.from_name
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// WatchFile invokes callback every time the file at path changes and blocks
// until ctx is cancelled. Watch errors reported by the provider are dropped;
// the callback only runs for successful change events.
func WatchFile(ctx context.Context, path string, callback func()) error {
	provider := file.Provider(path)

	if err := provider.Watch(func(event interface{}, err error) {
		if err != nil {
			return
		}
		callback()
	}); err != nil {
		return fmt.Errorf("failed to watch %s: %w", path, err)
	}

	<-ctx.Done()
	if err := provider.Unwatch(); err != nil {
		return fmt.Errorf("failed to stop watching %s: %w", path, err)
	}
	return ctx.Err()
}

// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package config

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// clearConfigEnv unsets every mapped variable for the duration of the test.
func clearConfigEnv(t *testing.T) {
	t.Helper()
	keys := append([]string{ConfigPathEnvVar}, mappedEnvKeys()...)
	for _, key := range keys {
		if val, ok := os.LookupEnv(key); ok {
			t.Setenv(key, val) // registers restore
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("Unsetenv(%s): %v", key, err)
			}
		}
	}
}

func mappedEnvKeys() []string {
	keys := make([]string, 0, len(envMappings))
	for key := range envMappings {
		keys = append(keys, strings.ToUpper(key))
	}
	return keys
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
	return path
}

// TestDefaultConfig verifies that defaultConfig() returns proper defaults
func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Server.Port != 8420 {
		t.Errorf("Server.Port = %d, want 8420", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Catalog.Source != "csv" {
		t.Errorf("Catalog.Source = %q, want csv", cfg.Catalog.Source)
	}
	if cfg.Catalog.Path != "data/books_data.csv" {
		t.Errorf("Catalog.Path = %q, want data/books_data.csv", cfg.Catalog.Path)
	}
	if cfg.Catalog.ReloadInterval != 0 {
		t.Errorf("Catalog.ReloadInterval = %v, want 0", cfg.Catalog.ReloadInterval)
	}
	if cfg.Recommend.ResolutionCacheSize != 1000 {
		t.Errorf("Recommend.ResolutionCacheSize = %d, want 1000", cfg.Recommend.ResolutionCacheSize)
	}
	if cfg.Recommend.ResolutionCacheTTL != 10*time.Minute {
		t.Errorf("Recommend.ResolutionCacheTTL = %v, want 10m", cfg.Recommend.ResolutionCacheTTL)
	}
	if cfg.Profiles.Store != "badger" {
		t.Errorf("Profiles.Store = %q, want badger", cfg.Profiles.Store)
	}
	if cfg.Notify.Enabled {
		t.Error("Notify.Enabled should be false by default")
	}
	if cfg.Notify.SMTPHost != "smtp.gmail.com" || cfg.Notify.SMTPPort != 587 {
		t.Errorf("Notify SMTP = %s:%d, want smtp.gmail.com:587", cfg.Notify.SMTPHost, cfg.Notify.SMTPPort)
	}
	if cfg.Notify.FromName != "Your Book Recommendation Team" {
		t.Errorf("Notify.FromName = %q", cfg.Notify.FromName)
	}
	if !cfg.Notify.UseTLS {
		t.Error("Notify.UseTLS should be true by default")
	}
	if cfg.Events.Backend != "memory" {
		t.Errorf("Events.Backend = %q, want memory", cfg.Events.Backend)
	}
	if cfg.Events.Topic != "notify.recommendations" {
		t.Errorf("Events.Topic = %q, want notify.recommendations", cfg.Events.Topic)
	}
	if cfg.OCR.URL != "http://localhost:11434" {
		t.Errorf("OCR.URL = %q, want http://localhost:11434", cfg.OCR.URL)
	}
	if cfg.Security.RateLimitReqs != 100 {
		t.Errorf("Security.RateLimitReqs = %d, want 100", cfg.Security.RateLimitReqs)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("defaultConfig().Validate() error = %v", err)
	}
}

// TestEnvTransformFunc verifies environment variable name transformations
func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"HTTP_PORT", "server.port"},
		{"ENVIRONMENT", "server.environment"},
		{"CATALOG_PATH", "catalog.path"},
		{"CATALOG_RELOAD_INTERVAL", "catalog.reload_interval"},
		{"RESOLUTION_CACHE_TTL", "recommend.resolution_cache_ttl"},
		{"PROFILE_STORE_PATH", "profiles.path"},
		{"SMTP_FROM_NAME", "notify.from_name"},
		{"NOTIFY_RATE_PER_SECOND", "notify.rate_per_second"},
		{"NATS_URL", "events.nats_url"},
		{"OLLAMA_MODEL", "ocr.model"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"LOG_LEVEL", "logging.level"},
		{"log_format", "logging.format"},

		// Unmapped keys are skipped
		{"PATH", ""},
		{"HOME", ""},
		{"RANDOM_VAR", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.input); got != tt.expected {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	clearConfigEnv(t)
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	t.Run("no config file exists", func(t *testing.T) {
		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})

	t.Run("config.yaml exists", func(t *testing.T) {
		configPath := filepath.Join(tmpDir, "config.yaml")
		if err := os.WriteFile(configPath, []byte("server:\n  port: 9000\n"), 0o600); err != nil {
			t.Fatalf("Failed to create config file: %v", err)
		}
		defer os.Remove(configPath)

		if result := findConfigFile(); result != "config.yaml" {
			t.Errorf("findConfigFile() = %q, want config.yaml", result)
		}
	})

	t.Run("CONFIG_PATH env var takes precedence", func(t *testing.T) {
		customPath := writeConfigFile(t, "server:\n  port: 9000\n")
		t.Setenv(ConfigPathEnvVar, customPath)

		if result := findConfigFile(); result != customPath {
			t.Errorf("findConfigFile() = %q, want %q", result, customPath)
		}
	})

	t.Run("CONFIG_PATH env var with non-existent file", func(t *testing.T) {
		t.Setenv(ConfigPathEnvVar, "/non/existent/config.yaml")

		if result := findConfigFile(); result != "" {
			t.Errorf("findConfigFile() = %q, want empty string", result)
		}
	})
}

// TestLoadWithKoanfEnvVars tests loading configuration from environment variables
func TestLoadWithKoanfEnvVars(t *testing.T) {
	clearConfigEnv(t)
	t.Chdir(t.TempDir())

	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CATALOG_SOURCE", "duckdb")
	t.Setenv("CATALOG_PATH", "/srv/books.parquet")
	t.Setenv("CATALOG_RELOAD_INTERVAL", "15m")
	t.Setenv("RESOLUTION_CACHE_SIZE", "50")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("NOTIFY_RATE_PER_SECOND", "2.5")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Catalog.Source != "duckdb" || cfg.Catalog.Path != "/srv/books.parquet" {
		t.Errorf("Catalog = %+v", cfg.Catalog)
	}
	if cfg.Catalog.ReloadInterval != 15*time.Minute {
		t.Errorf("Catalog.ReloadInterval = %v, want 15m", cfg.Catalog.ReloadInterval)
	}
	if cfg.Recommend.ResolutionCacheSize != 50 {
		t.Errorf("Recommend.ResolutionCacheSize = %d, want 50", cfg.Recommend.ResolutionCacheSize)
	}
	if cfg.Notify.RatePerSecond != 2.5 {
		t.Errorf("Notify.RatePerSecond = %v, want 2.5", cfg.Notify.RatePerSecond)
	}

	wantOrigins := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != len(wantOrigins) {
		t.Fatalf("Security.CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, wantOrigins)
	}
	for i, origin := range wantOrigins {
		if cfg.Security.CORSOrigins[i] != origin {
			t.Errorf("Security.CORSOrigins[%d] = %q, want %q", i, cfg.Security.CORSOrigins[i], origin)
		}
	}

	// Defaults are still applied for unset values
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0 (default)", cfg.Server.Host)
	}
	if cfg.Events.Topic != "notify.recommendations" {
		t.Errorf("Events.Topic = %q, want default", cfg.Events.Topic)
	}
}

// TestLoadWithKoanfConfigFile tests loading configuration from a YAML file
func TestLoadWithKoanfConfigFile(t *testing.T) {
	clearConfigEnv(t)

	configPath := writeConfigFile(t, `
server:
  port: 8888
  host: "127.0.0.1"

catalog:
  path: "/srv/catalog.csv"
  watch: true

security:
  cors_origins:
    - "https://books.example"

logging:
  level: "warn"
`)
	t.Setenv(ConfigPathEnvVar, configPath)

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 8888 {
		t.Errorf("Server.Port = %d, want 8888", cfg.Server.Port)
	}
	if cfg.Server.Host != "127.0.0.1" {
		t.Errorf("Server.Host = %q, want 127.0.0.1", cfg.Server.Host)
	}
	if cfg.Catalog.Path != "/srv/catalog.csv" || !cfg.Catalog.Watch {
		t.Errorf("Catalog = %+v", cfg.Catalog)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "https://books.example" {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn", cfg.Logging.Level)
	}

	// Defaults are still applied for unset values
	if cfg.Catalog.Source != "csv" {
		t.Errorf("Catalog.Source = %q, want csv (default)", cfg.Catalog.Source)
	}
}

// TestLoadWithKoanfEnvOverridesFile tests that env vars override config file
func TestLoadWithKoanfEnvOverridesFile(t *testing.T) {
	clearConfigEnv(t)

	configPath := writeConfigFile(t, `
server:
  port: 8888
logging:
  level: "warn"
`)
	t.Setenv(ConfigPathEnvVar, configPath)
	t.Setenv("HTTP_PORT", "9999")

	cfg, err := LoadWithKoanf()
	if err != nil {
		t.Fatalf("LoadWithKoanf() error = %v", err)
	}

	if cfg.Server.Port != 9999 {
		t.Errorf("Server.Port = %d, want 9999 (env should override file)", cfg.Server.Port)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want warn (from file)", cfg.Logging.Level)
	}
}

// TestLoadWithKoanfValidation tests that invalid configuration is rejected
func TestLoadWithKoanfValidation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "invalid port",
			env:     map[string]string{"HTTP_PORT": "70000"},
			wantErr: "HTTP_PORT",
		},
		{
			name:    "invalid catalog source",
			env:     map[string]string{"CATALOG_SOURCE": "sqlite"},
			wantErr: "CATALOG_SOURCE",
		},
		{
			name:    "invalid log level",
			env:     map[string]string{"LOG_LEVEL": "verbose"},
			wantErr: "LOG_LEVEL",
		},
		{
			name:    "notify enabled without sender",
			env:     map[string]string{"NOTIFY_ENABLED": "true"},
			wantErr: "SMTP_FROM",
		},
		{
			name:    "invalid events backend",
			env:     map[string]string{"EVENTS_BACKEND": "kafka"},
			wantErr: "EVENTS_BACKEND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			t.Chdir(t.TempDir())
			for key, val := range tt.env {
				t.Setenv(key, val)
			}

			_, err := LoadWithKoanf()
			if err == nil {
				t.Fatal("LoadWithKoanf() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("LoadWithKoanf() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestLoadWithKoanfInvalidFile(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv(ConfigPathEnvVar, writeConfigFile(t, "server: [unterminated"))

	if _, err := LoadWithKoanf(); err == nil {
		t.Fatal("LoadWithKoanf() expected error for malformed YAML")
	}
}

func TestWatchFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "books.csv")
	if err := os.WriteFile(path, []byte("title\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	changed := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- WatchFile(ctx, path, func() {
			calls.Add(1)
			select {
			case changed <- struct{}{}:
			default:
			}
		})
	}()

	// Keep rewriting until the watcher is running and notices a change.
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	deadline := time.After(5 * time.Second)
wait:
	for {
		select {
		case <-changed:
			break wait
		case <-ticker.C:
			if err := os.WriteFile(path, []byte("title\nDune\n"), 0o600); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
		case <-deadline:
			t.Fatal("callback was not invoked after the file changed")
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("WatchFile() error = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("WatchFile did not return after cancellation")
	}
	if calls.Load() == 0 {
		t.Error("expected at least one callback")
	}
}

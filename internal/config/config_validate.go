// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package config

import (
	"fmt"
	"net/mail"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	validators := []func() error{
		c.validateServer,
		c.validateCatalog,
		c.validateRecommend,
		c.validateProfiles,
		c.validateNotify,
		c.validateEvents,
		c.validateOCR,
		c.validateSecurity,
		c.validateLogging,
	}
	for _, validate := range validators {
		if err := validate(); err != nil {
			return err
		}
	}
	return nil
}

// validateServer validates server configuration
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	if c.Server.Timeout < 0 {
		return fmt.Errorf("HTTP_TIMEOUT must not be negative")
	}
	if !validEnvironments[c.Server.Environment] {
		return fmt.Errorf("ENVIRONMENT must be one of: development, staging, production")
	}
	return nil
}

var validEnvironments = map[string]bool{
	"development": true,
	"staging":     true,
	"production":  true,
}

// validCatalogSources defines the allowed catalog source kinds
var validCatalogSources = map[string]bool{
	"csv":    true,
	"duckdb": true,
}

// validateCatalog validates catalog configuration
func (c *Config) validateCatalog() error {
	if !validCatalogSources[c.Catalog.Source] {
		return fmt.Errorf("CATALOG_SOURCE must be one of: csv, duckdb")
	}
	if c.Catalog.Path == "" {
		return fmt.Errorf("CATALOG_PATH is required")
	}
	if c.Catalog.ReloadInterval < 0 {
		return fmt.Errorf("CATALOG_RELOAD_INTERVAL must not be negative")
	}
	if c.Catalog.ReloadInterval > 0 && c.Catalog.ReloadInterval < minReloadInterval {
		return fmt.Errorf("CATALOG_RELOAD_INTERVAL must be at least %v when set", minReloadInterval)
	}
	return nil
}

const minReloadInterval = 10 * time.Second

// validateRecommend validates recommendation engine configuration
func (c *Config) validateRecommend() error {
	if c.Recommend.ResolutionCacheSize < 1 {
		return fmt.Errorf("RESOLUTION_CACHE_SIZE must be at least 1")
	}
	if c.Recommend.ResolutionCacheTTL < 0 {
		return fmt.Errorf("RESOLUTION_CACHE_TTL must not be negative")
	}
	return nil
}

// validProfileStores defines the allowed profile store backends
var validProfileStores = map[string]bool{
	"badger": true,
	"memory": true,
}

// validateProfiles validates profile store configuration
func (c *Config) validateProfiles() error {
	if !validProfileStores[c.Profiles.Store] {
		return fmt.Errorf("PROFILE_STORE must be one of: badger, memory")
	}
	if c.Profiles.Store == "badger" && c.Profiles.Path == "" {
		return fmt.Errorf("PROFILE_STORE_PATH is required when PROFILE_STORE=badger")
	}
	return nil
}

const maxNotifyRetries = 10

// validateNotify validates SMTP configuration (only if enabled)
func (c *Config) validateNotify() error {
	if !c.Notify.Enabled {
		return nil
	}
	if c.Notify.SMTPHost == "" {
		return fmt.Errorf("SMTP_HOST is required when NOTIFY_ENABLED=true")
	}
	if c.Notify.SMTPPort < 1 || c.Notify.SMTPPort > 65535 {
		return fmt.Errorf("SMTP_PORT must be between 1 and 65535")
	}
	if c.Notify.From == "" {
		return fmt.Errorf("SMTP_FROM is required when NOTIFY_ENABLED=true")
	}
	if _, err := mail.ParseAddress(c.Notify.From); err != nil {
		return fmt.Errorf("SMTP_FROM is invalid: %w", err)
	}
	if c.Notify.MaxRetries < 0 || c.Notify.MaxRetries > maxNotifyRetries {
		return fmt.Errorf("NOTIFY_MAX_RETRIES must be between 0 and %d", maxNotifyRetries)
	}
	if c.Notify.RatePerSecond <= 0 {
		return fmt.Errorf("NOTIFY_RATE_PER_SECOND must be positive")
	}
	return nil
}

// validateEvents validates notification bus configuration
func (c *Config) validateEvents() error {
	switch c.Events.Backend {
	case "memory":
	case "nats":
		if !c.Events.Embedded {
			if c.Events.NATSURL == "" {
				return fmt.Errorf("NATS_URL is required when EVENTS_BACKEND=nats and NATS_EMBEDDED=false")
			}
			if err := validateNATSURL(c.Events.NATSURL); err != nil {
				return fmt.Errorf("NATS_URL is invalid: %w", err)
			}
		}
		if c.Events.Embedded && c.Events.StoreDir == "" {
			return fmt.Errorf("NATS_STORE_DIR is required when NATS_EMBEDDED=true")
		}
	default:
		return fmt.Errorf("EVENTS_BACKEND must be one of: memory, nats")
	}
	if c.Events.Topic == "" {
		return fmt.Errorf("EVENTS_TOPIC is required")
	}
	return nil
}

// validateOCR validates OCR configuration (only if enabled)
func (c *Config) validateOCR() error {
	if !c.OCR.Enabled {
		return nil
	}
	if c.OCR.URL == "" {
		return fmt.Errorf("OLLAMA_URL is required when OCR_ENABLED=true")
	}
	if err := validateHTTPURL(c.OCR.URL, "OLLAMA_URL"); err != nil {
		return fmt.Errorf("OLLAMA_URL is invalid: %w", err)
	}
	if c.OCR.Model == "" {
		return fmt.Errorf("OLLAMA_MODEL is required when OCR_ENABLED=true")
	}
	if c.OCR.Timeout <= 0 {
		return fmt.Errorf("OCR_TIMEOUT must be positive")
	}
	return nil
}

// Rate limit constants
const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

// validateSecurity validates security configuration
func (c *Config) validateSecurity() error {
	if len(c.Security.CORSOrigins) == 0 {
		return fmt.Errorf("CORS_ORIGINS must contain at least one origin")
	}
	return c.validateRateLimits()
}

// validateRateLimits validates rate limiting configuration bounds.
func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

// ShouldWarnAboutCORS returns true if the CORS configuration should be
// flagged at startup: wildcard origins in production.
func (c *Config) ShouldWarnAboutCORS() bool {
	return c.IsProduction() && c.HasWildcardCORS()
}

// validLogLevels defines the allowed log levels
var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// validLogFormats defines the allowed log formats
var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

// validateLogging validates logging configuration
func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}

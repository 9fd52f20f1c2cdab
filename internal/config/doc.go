// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

/*
Package config provides centralized configuration management for Folio.

Configuration is loaded with Koanf v2 from three layers, each overriding the
previous one:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file (CONFIG_PATH, or the first of DefaultConfigPaths)
 3. Mapped environment variables

Unmapped environment variables are ignored so unrelated process state never
leaks into the configuration.

# Sections

  - server: HTTP bind address, port, request timeout, environment
  - catalog: book catalog source (csv or duckdb), path, reload policy
  - recommend: resolution cache sizing
  - profiles: reader profile store (badger or memory)
  - notify: SMTP delivery settings for recommendation emails
  - events: notification bus backend (memory or nats)
  - ocr: vision model endpoint used for cover text extraction
  - security: CORS origins and API rate limiting
  - logging: zerolog level, format and caller reporting

# Environment Variables

Server:
  - HTTP_HOST, HTTP_PORT (default: 8420), HTTP_TIMEOUT, ENVIRONMENT

Catalog:
  - CATALOG_SOURCE (csv, duckdb), CATALOG_PATH (default: data/books_data.csv)
  - CATALOG_RELOAD_INTERVAL (default: 0, disabled), CATALOG_WATCH

Recommendation:
  - RESOLUTION_CACHE_SIZE (default: 1000), RESOLUTION_CACHE_TTL (default: 10m)

Profiles:
  - PROFILE_STORE (badger, memory), PROFILE_STORE_PATH (default: data/profiles)

Notifications:
  - NOTIFY_ENABLED, SMTP_HOST, SMTP_PORT, SMTP_USER, SMTP_PASSWORD
  - SMTP_FROM, SMTP_FROM_NAME, SMTP_USE_TLS, NOTIFY_MAX_RETRIES, NOTIFY_RATE_PER_SECOND

Events:
  - EVENTS_BACKEND (memory, nats), NATS_URL, NATS_EMBEDDED, NATS_STORE_DIR, EVENTS_TOPIC

OCR:
  - OCR_ENABLED, OLLAMA_URL, OLLAMA_MODEL, OCR_TIMEOUT

Security:
  - CORS_ORIGINS (comma-separated), RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	addr := cfg.Server.Address()
*/
package config

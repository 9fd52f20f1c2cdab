// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package main is the entry point for the Folio server.
//
// Folio resolves free-form book titles against a catalog and recommends the
// ten most similar books by TF-IDF content similarity. The server exposes the
// REST API, reloads the catalog on a schedule or file change, and optionally
// emails recommendations to registered readers.
//
// Startup order:
//
//  1. .env file (optional) and configuration (koanf: defaults, config.yaml, environment)
//  2. Logging
//  3. Recommendation engine, catalog source and profile store
//  4. Event bus, notifier and consumer (when notifications are enabled)
//  5. OCR extractor (when enabled)
//  6. Supervisor tree: catalog service, consumer, HTTP server
//
// Build with the nats tag to enable the NATS JetStream event backend:
//
//	go build -tags nats ./cmd/server
//
// SIGINT and SIGTERM trigger graceful shutdown.
package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/metrics"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	// A missing .env is normal; real environment variables still apply.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Warn().Err(err).Msg("Failed to read .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("version", version).
		Str("environment", cfg.Server.Environment).
		Str("catalog", cfg.Catalog.Path).
		Str("catalog_source", cfg.Catalog.Source).
		Bool("notifications", cfg.Notify.Enabled).
		Bool("ocr", cfg.OCR.Enabled).
		Msg("Starting Folio")
	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	app, err := newApp(cfg, logging.Logger())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize application")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runErr := app.run(ctx)
	if err := app.close(); err != nil {
		logging.Error().Err(err).Msg("Error during shutdown")
	}
	if runErr != nil {
		logging.Fatal().Err(runErr).Msg("Supervisor tree exited with error")
	}
	logging.Info().Msg("Folio stopped")
}

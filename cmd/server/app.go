// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/api"
	"github.com/tomtom215/folio/internal/catalog"
	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/events"
	"github.com/tomtom215/folio/internal/logging"
	"github.com/tomtom215/folio/internal/notify"
	"github.com/tomtom215/folio/internal/ocr"
	"github.com/tomtom215/folio/internal/profile"
	"github.com/tomtom215/folio/internal/recommend"
	"github.com/tomtom215/folio/internal/supervisor"
	"github.com/tomtom215/folio/internal/supervisor/services"
)

// shutdownTimeout bounds graceful shutdown of each supervised service.
const shutdownTimeout = 10 * time.Second

// app owns every long-lived component and the supervisor tree running them.
type app struct {
	tree     *supervisor.SupervisorTree
	profiles profile.Store
	bus      *events.Bus
}

// newApp wires the components described by cfg.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newApp(cfg *config.Config, logger zerolog.Logger) (*app, error) {
	source, err := catalog.NewSource(cfg.Catalog.Source, cfg.Catalog.Path)
	if err != nil {
		return nil, fmt.Errorf("catalog source: %w", err)
	}

	engine := recommend.NewEngine(recommend.Config{
		ResolutionCacheSize: cfg.Recommend.ResolutionCacheSize,
		ResolutionCacheTTL:  cfg.Recommend.ResolutionCacheTTL,
	}, logger)

	watchPath := ""
	if cfg.Catalog.Watch {
		watchPath = cfg.Catalog.Path
	}
	catalogSvc := services.NewCatalogService(source, engine, services.CatalogServiceConfig{
		ReloadInterval: cfg.Catalog.ReloadInterval,
		WatchPath:      watchPath,
	}, logger)

	profiles, err := profile.Open(profile.StoreType(cfg.Profiles.Store), cfg.Profiles.Path)
	if err != nil {
		return nil, fmt.Errorf("profile store: %w", err)
	}

	a := &app{profiles: profiles}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		ShutdownTimeout: shutdownTimeout,
	})
	if err != nil {
		_ = a.close() //nolint:errcheck // already failing
		return nil, err
	}
	a.tree = tree
	tree.AddDataService(catalogSvc)

	deps := api.Dependencies{
		Recommender: engine,
		Reloader:    catalogSvc,
		Profiles:    profiles,
		Version:     version,
	}

	if cfg.Notify.Enabled {
		bus, consumer, err := newNotificationPipeline(cfg, logger)
		if err != nil {
			_ = a.close() //nolint:errcheck // already failing
			return nil, err
		}
		a.bus = bus
		deps.Publisher = bus
		tree.AddMessagingService(consumer)
	}

	if cfg.OCR.Enabled {
		deps.OCR = ocr.NewOllamaExtractor(ocr.Config{
			URL:     cfg.OCR.URL,
			Model:   cfg.OCR.Model,
			Timeout: cfg.OCR.Timeout,
		}, logger)
	}

	router := api.NewRouter(api.NewHandler(deps), api.NewChiMiddleware(&api.ChiMiddlewareConfig{
		CORSAllowedOrigins: cfg.Security.CORSOrigins,
		CORSAllowedMethods: api.DefaultChiMiddlewareConfig().CORSAllowedMethods,
		CORSAllowedHeaders: api.DefaultChiMiddlewareConfig().CORSAllowedHeaders,
		CORSMaxAge:         api.DefaultChiMiddlewareConfig().CORSMaxAge,
		RateLimitRequests:  cfg.Security.RateLimitReqs,
		RateLimitWindow:    cfg.Security.RateLimitWindow,
		RateLimitDisabled:  cfg.Security.RateLimitDisabled,
	}))

	server := &http.Server{
		Addr:              cfg.Server.Address(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      writeTimeout(cfg),
		IdleTimeout:       2 * time.Minute,
	}
	tree.AddAPIService(services.NewHTTPServerService(server, shutdownTimeout, logger))

	return a, nil
}

// newNotificationPipeline opens the event bus and builds the consumer that
// delivers queued requests over SMTP.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func newNotificationPipeline(cfg *config.Config, logger zerolog.Logger) (*events.Bus, *events.Consumer, error) {
	natsCfg := events.DefaultNATSConfig()
	if cfg.Events.NATSURL != "" {
		natsCfg.URL = cfg.Events.NATSURL
	}
	natsCfg.Embedded = cfg.Events.Embedded
	if cfg.Events.StoreDir != "" {
		natsCfg.StoreDir = cfg.Events.StoreDir
	}

	bus, err := events.Open(events.Options{
		Backend: cfg.Events.Backend,
		Topic:   cfg.Events.Topic,
		NATS:    natsCfg,
	}, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("event bus: %w", err)
	}

	channel := notify.NewEmailChannel(notify.SMTPConfig{
		Host:     cfg.Notify.SMTPHost,
		Port:     cfg.Notify.SMTPPort,
		User:     cfg.Notify.SMTPUser,
		Password: cfg.Notify.SMTPPassword,
		From:     cfg.Notify.From,
		FromName: cfg.Notify.FromName,
		UseTLS:   cfg.Notify.UseTLS,
	})

	notifyCfg := notify.DefaultConfig()
	notifyCfg.MaxRetries = cfg.Notify.MaxRetries
	if cfg.Notify.RatePerSecond > 0 {
		notifyCfg.RatePerSecond = cfg.Notify.RatePerSecond
	}
	notifier := notify.NewNotifier(channel, notifyCfg, logger)

	return bus, events.NewConsumer(bus, notifier, logger), nil
}

// writeTimeout leaves room for the OCR call on image uploads.
func writeTimeout(cfg *config.Config) time.Duration {
	timeout := cfg.Server.Timeout
	if cfg.OCR.Enabled && cfg.OCR.Timeout+5*time.Second > timeout {
		timeout = cfg.OCR.Timeout + 5*time.Second
	}
	return timeout
}

func (a *app) run(ctx context.Context) error {
	return a.tree.Run(ctx)
}

// close releases resources the supervisor does not own.
func (a *app) close() error {
	var errs []error
	if a.bus != nil {
		if err := a.bus.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close event bus: %w", err))
		}
	}
	if a.profiles != nil {
		if err := a.profiles.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close profile store: %w", err))
		}
	}
	return errors.Join(errs...)
}

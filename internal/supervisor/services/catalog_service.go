// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/catalog"
	"github.com/tomtom215/folio/internal/config"
	"github.com/tomtom215/folio/internal/recommend"
)

// defaultLoadTimeout bounds a single catalog load and snapshot build.
const defaultLoadTimeout = 5 * time.Minute

// SnapshotPublisher builds and publishes a snapshot from catalog rows.
// *recommend.Engine implements it.
type SnapshotPublisher interface {
	Reload(ctx context.Context, books []catalog.Book) (*recommend.Snapshot, error)
}

// CatalogServiceConfig controls when the catalog is reloaded.
type CatalogServiceConfig struct {
	// ReloadInterval triggers periodic reloads. Zero disables them.
	ReloadInterval time.Duration

	// WatchPath, when set, triggers a reload whenever the file changes.
	WatchPath string

	// LoadTimeout bounds one load. Default: 5m.
	LoadTimeout time.Duration
}

// CatalogService keeps the engine's snapshot in step with the catalog source.
//
// The first load happens when Serve starts; if it fails Serve returns the
// error so the supervisor restarts it with backoff. Later reload failures are
// logged and the previous snapshot keeps serving.
type CatalogService struct {
	source    catalog.Source
	publisher SnapshotPublisher
	cfg       CatalogServiceConfig
	logger    zerolog.Logger
	name      string

	// watch is replaced in tests.
	watch func(ctx context.Context, path string, callback func()) error

	reloads  atomic.Int64
	failures atomic.Int64
}

// NewCatalogService creates a catalog service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewCatalogService(source catalog.Source, publisher SnapshotPublisher, cfg CatalogServiceConfig, logger zerolog.Logger) *CatalogService {
	if cfg.LoadTimeout <= 0 {
		cfg.LoadTimeout = defaultLoadTimeout
	}
	return &CatalogService{
		source:    source,
		publisher: publisher,
		cfg:       cfg,
		logger:    logger.With().Str("service", "catalog").Str("source", source.String()).Logger(),
		name:      "catalog-service",
		watch:     config.WatchFile,
	}
}

// Serve implements suture.Service.
func (s *CatalogService) Serve(ctx context.Context) error {
	if _, err := s.Reload(ctx); err != nil {
		return fmt.Errorf("initial catalog load: %w", err)
	}

	var tick <-chan time.Time
	if s.cfg.ReloadInterval > 0 {
		ticker := time.NewTicker(s.cfg.ReloadInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	// Capacity 1 coalesces bursts of file events into one pending reload.
	changed := make(chan struct{}, 1)
	if s.cfg.WatchPath != "" {
		go func() {
			err := s.watch(ctx, s.cfg.WatchPath, func() {
				select {
				case changed <- struct{}{}:
				default:
				}
			})
			if err != nil && ctx.Err() == nil {
				s.logger.Warn().Err(err).Str("path", s.cfg.WatchPath).Msg("catalog file watch stopped")
			}
		}()
	}

	s.logger.Info().
		Dur("reload_interval", s.cfg.ReloadInterval).
		Str("watch_path", s.cfg.WatchPath).
		Msg("catalog service running")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("catalog service shutting down")
			return ctx.Err()
		case <-tick:
			s.reloadLogged(ctx, "interval")
		case <-changed:
			s.reloadLogged(ctx, "file_change")
		}
	}
}

// Reload loads the catalog and publishes a new snapshot. On error the
// previous snapshot stays published.
func (s *CatalogService) Reload(ctx context.Context) (*recommend.Snapshot, error) {
	loadCtx, cancel := context.WithTimeout(ctx, s.cfg.LoadTimeout)
	defer cancel()

	start := time.Now()
	books, err := s.source.Load(loadCtx)
	if err != nil {
		s.failures.Add(1)
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	snap, err := s.publisher.Reload(loadCtx, books)
	if err != nil {
		s.failures.Add(1)
		return nil, err
	}
	s.reloads.Add(1)

	s.logger.Info().
		Uint64("version", snap.Version).
		Int("rows", snap.Len()).
		Dur("duration", time.Since(start)).
		Msg("catalog snapshot published")
	return snap, nil
}

func (s *CatalogService) reloadLogged(ctx context.Context, trigger string) {
	if _, err := s.Reload(ctx); err != nil && ctx.Err() == nil {
		s.logger.Error().Err(err).Str("trigger", trigger).Msg("catalog reload failed, keeping previous snapshot")
	}
}

// Reloads returns the number of successful loads.
func (s *CatalogService) Reloads() int64 {
	return s.reloads.Load()
}

// Failures returns the number of failed loads.
func (s *CatalogService) Failures() int64 {
	return s.failures.Load()
}

// String returns the service name for logging.
func (s *CatalogService) String() string {
	return s.name
}

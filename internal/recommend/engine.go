// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/folio/internal/cache"
	"github.com/tomtom215/folio/internal/catalog"
	"github.com/tomtom215/folio/internal/metrics"
)

// Outcome labels used for metrics.
const (
	OutcomeResolved   = "resolved"
	OutcomeUnresolved = "unresolved"
	OutcomeError      = "error"
)

// Config contains engine tuning. Matching and fan-out constants are fixed and
// not part of it.
type Config struct {
	// ResolutionCacheSize is the number of query resolutions kept.
	ResolutionCacheSize int `json:"resolution_cache_size"`

	// ResolutionCacheTTL bounds how long a resolution is reused.
	ResolutionCacheTTL time.Duration `json:"resolution_cache_ttl"`
}

// DefaultConfig returns the production defaults.
func DefaultConfig() Config {
	return Config{
		ResolutionCacheSize: 1000,
		ResolutionCacheTTL:  10 * time.Minute,
	}
}

// Status describes the published snapshot.
type Status struct {
	Ready          bool      `json:"ready"`
	Version        uint64    `json:"version"`
	Rows           int       `json:"rows"`
	UniqueTitles   int       `json:"unique_titles"`
	VocabularySize int       `json:"vocabulary_size"`
	BuiltAt        time.Time `json:"built_at,omitempty"`

	ResolutionCache CacheStats `json:"resolution_cache"`
}

// CacheStats reports resolution cache usage since startup.
type CacheStats struct {
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
	Entries int   `json:"entries"`
}

type resolutionKey struct {
	version uint64
	query   string
}

type resolution struct {
	match    Match
	resolved bool
}

// Engine publishes catalog snapshots and serves recommendations from them.
// It is safe for concurrent use: queries load the current snapshot once and
// work on it alone, and Reload replaces the snapshot with one pointer swap.
type Engine struct {
	logger zerolog.Logger

	current atomic.Pointer[Snapshot]

	// reloadMu serializes builds so versions are published in order.
	reloadMu sync.Mutex
	version  uint64

	resolutions *cache.LRU[resolutionKey, resolution]
}

// NewEngine creates an engine with no snapshot. Recommend returns
// ErrSnapshotNotReady until the first Reload.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg Config, logger zerolog.Logger) *Engine {
	defaults := DefaultConfig()
	if cfg.ResolutionCacheSize <= 0 {
		cfg.ResolutionCacheSize = defaults.ResolutionCacheSize
	}
	if cfg.ResolutionCacheTTL <= 0 {
		cfg.ResolutionCacheTTL = defaults.ResolutionCacheTTL
	}

	return &Engine{
		logger:      logger.With().Str("component", "recommend").Logger(),
		resolutions: cache.NewLRU[resolutionKey, resolution](cfg.ResolutionCacheSize, cfg.ResolutionCacheTTL),
	}
}

// Reload builds a snapshot from books and publishes it. On failure the
// previously published snapshot stays in place.
func (e *Engine) Reload(ctx context.Context, books []catalog.Book) (*Snapshot, error) {
	e.reloadMu.Lock()
	defer e.reloadMu.Unlock()

	start := time.Now()
	version := e.version + 1

	snap, err := BuildSnapshot(ctx, books, version)
	duration := time.Since(start)
	if err != nil {
		metrics.RecordSnapshotBuild(duration, 0, 0, version, err)
		if errors.Is(err, ErrInvariantViolation) {
			e.logger.Error().Err(err).Uint64("version", version).Msg("Snapshot failed consistency check")
		}
		return nil, fmt.Errorf("build snapshot %d: %w", version, err)
	}

	e.version = version
	e.current.Store(snap)
	e.resolutions.Clear()

	metrics.RecordSnapshotBuild(duration, snap.Len(), snap.space.VocabularySize(), version, nil)

	if snap.Len() == 0 {
		e.logger.Warn().Uint64("version", version).Msg("Published empty catalog snapshot; every query will be unresolved")
	} else {
		e.logger.Info().
			Uint64("version", version).
			Int("rows", snap.Len()).
			Int("unique_titles", snap.titles.Len()).
			Int("vocabulary", snap.space.VocabularySize()).
			Dur("duration", duration).
			Msg("Catalog snapshot published")
	}

	return snap, nil
}

// Snapshot returns the published snapshot, or nil before the first Reload.
func (e *Engine) Snapshot() *Snapshot {
	return e.current.Load()
}

// Ready reports whether a snapshot has been published.
func (e *Engine) Ready() bool {
	return e.current.Load() != nil
}

// Status describes the published snapshot.
func (e *Engine) Status() Status {
	hits, misses, entries := e.resolutions.Stats()
	status := Status{
		ResolutionCache: CacheStats{Hits: hits, Misses: misses, Entries: entries},
	}

	snap := e.current.Load()
	if snap == nil {
		return status
	}
	status.Ready = true
	status.Version = snap.Version
	status.Rows = snap.Len()
	status.UniqueTitles = snap.titles.Len()
	status.VocabularySize = snap.space.VocabularySize()
	status.BuiltAt = snap.BuiltAt
	return status
}

// Resolve fuzzy-matches query against the published titles, using the
// resolution cache.
func (e *Engine) Resolve(ctx context.Context, query string) (Match, bool, error) {
	snap, err := e.load(ctx)
	if err != nil {
		return Match{}, false, err
	}
	res := e.resolve(snap, query)
	return res.match, res.resolved, nil
}

// Recommend resolves query and returns the catalog rows most similar to the
// matched title. Unresolved queries are returned as an Outcome, not an error.
func (e *Engine) Recommend(ctx context.Context, query string) (Outcome, error) {
	start := time.Now()

	snap, err := e.load(ctx)
	if err != nil {
		return Outcome{}, err
	}

	res := e.resolve(snap, query)
	out, err := snap.recommendMatch(query, res.match, res.resolved)
	if err != nil {
		metrics.RecordRecommendation(OutcomeError, time.Since(start))
		e.logger.Error().
			Err(err).
			Uint64("version", snap.Version).
			Str("query", query).
			Str("matched_title", res.match.Title).
			Msg("Snapshot invariant violated during recommendation")
		return Outcome{}, err
	}

	label := OutcomeUnresolved
	if out.Resolved {
		label = OutcomeResolved
	}
	metrics.RecordRecommendation(label, time.Since(start))

	e.logger.Debug().
		Str("query", query).
		Bool("resolved", out.Resolved).
		Str("matched_title", out.MatchedTitle).
		Int("score", out.Score).
		Int("results", len(out.Recommendations)).
		Msg("Recommendation served")

	return out, nil
}

// SimilarToText returns the k catalog rows closest in content to free text.
func (e *Engine) SimilarToText(ctx context.Context, text string, k int) ([]Recommendation, error) {
	snap, err := e.load(ctx)
	if err != nil {
		return nil, err
	}
	return snap.SimilarToText(text, k)
}

func (e *Engine) load(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap := e.current.Load()
	if snap == nil {
		return nil, ErrSnapshotNotReady
	}
	return snap, nil
}

// resolve consults the cache keyed by snapshot version so a resolution is
// never reused against a different catalog.
func (e *Engine) resolve(snap *Snapshot, query string) resolution {
	key := resolutionKey{version: snap.Version, query: query}
	if res, ok := e.resolutions.Get(key); ok {
		metrics.RecordResolutionCache(true)
		return res
	}
	metrics.RecordResolutionCache(false)

	m, ok := snap.titles.Resolve(query)
	res := resolution{match: m, resolved: ok}
	e.resolutions.Add(key, res)
	return res
}

// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package api

import (
	"context"
	"time"

	"github.com/tomtom215/folio/internal/catalog"
	"github.com/tomtom215/folio/internal/events"
	"github.com/tomtom215/folio/internal/models"
	"github.com/tomtom215/folio/internal/ocr"
	"github.com/tomtom215/folio/internal/profile"
	"github.com/tomtom215/folio/internal/recommend"
)

const (
	// maxBodyBytes bounds JSON request bodies.
	maxBodyBytes = 64 << 10

	// booksPageSize is the catalog listing page size.
	booksPageSize = 10

	// defaultSimilarResults is used when k is omitted.
	defaultSimilarResults = 10
)

// Recommender serves queries from the published catalog snapshot.
// *recommend.Engine implements it.
type Recommender interface {
	Recommend(ctx context.Context, query string) (recommend.Outcome, error)
	SimilarToText(ctx context.Context, text string, k int) ([]recommend.Recommendation, error)
	Snapshot() *recommend.Snapshot
	Status() recommend.Status
}

// CatalogReloader rebuilds the snapshot from the configured catalog source.
type CatalogReloader interface {
	Reload(ctx context.Context) (*recommend.Snapshot, error)
}

// Publisher enqueues notification requests for asynchronous delivery.
type Publisher interface {
	Publish(ctx context.Context, req *events.NotificationRequest) error
}

// Dependencies are the services the handlers call. Reloader, Publisher and
// OCR are optional: endpoints that need a missing one answer 503
// FEATURE_DISABLED.
type Dependencies struct {
	Recommender Recommender
	Reloader    CatalogReloader
	Profiles    profile.Store
	Publisher   Publisher
	OCR         ocr.Extractor
	Version     string
}

// Handler implements the HTTP endpoints.
type Handler struct {
	engine    Recommender
	reloader  CatalogReloader
	profiles  profile.Store
	publisher Publisher
	ocr       ocr.Extractor
	version   string
	startTime time.Time
}

// NewHandler creates a Handler over deps.
func NewHandler(deps Dependencies) *Handler {
	version := deps.Version
	if version == "" {
		version = "dev"
	}
	return &Handler{
		engine:    deps.Recommender,
		reloader:  deps.Reloader,
		profiles:  deps.Profiles,
		publisher: deps.Publisher,
		ocr:       deps.OCR,
		version:   version,
		startTime: time.Now(),
	}
}

// summarize converts a catalog row for display.
func summarize(row int, b *catalog.Book) models.BookSummary {
	return models.BookSummary{
		Row:           row,
		ISBN13:        b.ISBN13,
		Title:         b.Title,
		Subtitle:      b.Subtitle,
		Authors:       b.Authors,
		Categories:    b.Categories,
		Thumbnail:     b.Thumbnail,
		Description:   catalog.ShortDescription(b, catalog.DefaultDescriptionLength),
		PublishedYear: b.PublishedYear,
		AverageRating: b.AverageRating,
	}
}

// summarizeRecommendations keeps the neighbor order and attaches distances.
func summarizeRecommendations(recs []recommend.Recommendation) []models.BookSummary {
	out := make([]models.BookSummary, 0, len(recs))
	for _, rec := range recs {
		s := summarize(rec.Row, rec.Book)
		d := rec.Distance
		s.Distance = &d
		out = append(out, s)
	}
	return out
}

// recommendationResponse builds the response for outcome.
func recommendationResponse(outcome recommend.Outcome) models.RecommendationResponse {
	resp := models.RecommendationResponse{
		Query:           outcome.Query,
		Resolved:        outcome.Resolved,
		MatchedTitle:    outcome.MatchedTitle,
		Score:           outcome.Score,
		Recommendations: summarizeRecommendations(outcome.Recommendations),
	}
	if outcome.Resolved && outcome.Book != nil {
		book := summarize(outcome.Row, outcome.Book)
		resp.Book = &book
	}
	return resp
}

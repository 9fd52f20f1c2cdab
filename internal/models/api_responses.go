// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package models

import (
	"time"
)

// Response status values.
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// APIResponse represents a standardized API response wrapper used by all HTTP endpoints.
// It provides consistent structure for both successful and error responses, with metadata
// for observability and caching information.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example success response:
//
//	{
//	  "status": "success",
//	  "data": {"query": "java", "resolved": true, ...},
//	  "metadata": {"timestamp": "2026-01-15T10:30:00Z", "query_time_ms": 3}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "data": null,
//	  "metadata": {"timestamp": "2026-01-15T10:30:00Z"},
//	  "error": {"code": "VALIDATION_ERROR", "message": "title is required"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability and performance tracking.
// Cached is set when the title resolution was served from the resolution cache.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	Cached      bool      `json:"cached,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Fields:
//   - Code: Machine-readable error code (e.g., "VALIDATION_ERROR", "TITLE_NOT_FOUND")
//   - Message: Human-readable error message
//   - Details: Additional context (field names, constraints, etc.)
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthResponse is returned by the liveness and readiness checks.
type HealthResponse struct {
	Status          string    `json:"status"`
	Version         string    `json:"version"`
	Ready           bool      `json:"ready"`
	SnapshotVersion uint64    `json:"snapshot_version,omitempty"`
	Uptime          float64   `json:"uptime_seconds"`
	Timestamp       time.Time `json:"timestamp"`
}

// BookSummary is the display form of a catalog row.
type BookSummary struct {
	Row           int      `json:"row"`
	ISBN13        string   `json:"isbn13"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle,omitempty"`
	Authors       string   `json:"authors"`
	Categories    string   `json:"categories"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
	Description   string   `json:"description"`
	PublishedYear *int     `json:"published_year,omitempty"`
	AverageRating *float64 `json:"average_rating,omitempty"`
	Distance      *float64 `json:"distance,omitempty"`
}

// RecommendationResponse is returned by the recommendation endpoints.
// ExtractedText is set only when the query came from an uploaded image.
type RecommendationResponse struct {
	Query           string        `json:"query"`
	ExtractedText   string        `json:"extracted_text,omitempty"`
	Resolved        bool          `json:"resolved"`
	MatchedTitle    string        `json:"matched_title,omitempty"`
	Score           int           `json:"score"`
	Book            *BookSummary  `json:"book,omitempty"`
	Recommendations []BookSummary `json:"recommendations"`
}

// SimilarBooksResponse is returned by GET /api/v1/books/similar.
type SimilarBooksResponse struct {
	Query   string        `json:"query"`
	Results []BookSummary `json:"results"`
}

// BookPage is one page of the catalog listing.
type BookPage struct {
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	TotalBooks int           `json:"total_books"`
	TotalPages int           `json:"total_pages"`
	Books      []BookSummary `json:"books"`
}

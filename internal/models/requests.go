// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package models

// Request length limits shared by handlers and validation tags.
const (
	MaxTitleLength = 500
	MaxTextLength  = 4000
)

// RecommendationRequest holds the title query of GET /api/v1/recommendations.
type RecommendationRequest struct {
	Title string `json:"title" validate:"required,notblank,max=500"`
}

// SimilarBooksRequest holds the free-text query of GET /api/v1/books/similar.
type SimilarBooksRequest struct {
	Query string `json:"q" validate:"required,notblank,max=4000"`
	K     int    `json:"k" validate:"min=1,max=100"`
}

// CreateProfileRequest registers a reader for recommendation emails.
// The email format is checked by the profile store.
type CreateProfileRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,max=254"`
}

// NotificationRequest asks for recommendations for title to be emailed to a reader.
type NotificationRequest struct {
	Username string `json:"username" validate:"required,username"`
	Title    string `json:"title" validate:"required,notblank,max=500"`
}

// NotificationAccepted is returned when a notification has been queued.
type NotificationAccepted struct {
	ID           string   `json:"id"`
	Username     string   `json:"username"`
	MatchedTitle string   `json:"matched_title"`
	Titles       []string `json:"titles"`
}

// ReloadResponse reports the snapshot published by POST /api/v1/catalog/reload.
type ReloadResponse struct {
	Version uint64 `json:"version"`
	Rows    int    `json:"rows"`
}

// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package catalog provides the book record type and the sources that load a
// catalog snapshot (CSV files, DuckDB queries over CSV or Parquet).
//
// A catalog is an ordered slice of Book values. Order matters: row indices are
// the identity used by the recommendation engine, so every source preserves the
// order of the underlying file.
package catalog

import (
	"context"
	"strings"
	"unicode/utf8"
)

// DefaultDescriptionLength is the display length used for short descriptions.
const DefaultDescriptionLength = 200

// NoDescription is shown for rows without a description.
const NoDescription = "No description available."

// Book is one catalog row.
//
// Text fields hold "" when the source value is missing. Numeric fields are nil
// when missing or unparsable so callers can distinguish "unknown" from zero.
type Book struct {
	ISBN13        string   `json:"isbn13"`
	ISBN10        string   `json:"isbn10,omitempty"`
	Title         string   `json:"title"`
	Subtitle      string   `json:"subtitle,omitempty"`
	Authors       string   `json:"authors"`
	Categories    string   `json:"categories"`
	Thumbnail     string   `json:"thumbnail,omitempty"`
	Description   string   `json:"description"`
	PublishedYear *int     `json:"published_year,omitempty"`
	AverageRating *float64 `json:"average_rating,omitempty"`
	NumPages      *int     `json:"num_pages,omitempty"`
	RatingsCount  *int     `json:"ratings_count,omitempty"`
}

// Source loads a full catalog snapshot.
type Source interface {
	// Load returns every row in source order.
	Load(ctx context.Context) ([]Book, error)

	// String names the source for logging.
	String() string
}

// ShortDescription returns the description cut to maxRunes runes, with "..."
// appended when it was cut. A maxRunes <= 0 uses DefaultDescriptionLength.
// A blank description yields NoDescription.
func ShortDescription(b *Book, maxRunes int) string {
	if maxRunes <= 0 {
		maxRunes = DefaultDescriptionLength
	}
	desc := strings.TrimSpace(b.Description)
	if desc == "" {
		return NoDescription
	}
	if utf8.RuneCountInString(desc) <= maxRunes {
		return desc
	}
	runes := []rune(desc)
	return string(runes[:maxRunes]) + "..."
}

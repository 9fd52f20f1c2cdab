// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package catalog

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// ErrMissingTitleColumn is returned when a CSV header has no title column.
var ErrMissingTitleColumn = errors.New("catalog header has no title column")

// CSVSource reads a catalog from a CSV file with a header row.
//
// Columns are matched by header name (case-insensitive, surrounding spaces
// ignored). Unknown columns are skipped and missing columns leave the field absent.
type CSVSource struct {
	path string
}

// NewCSVSource creates a CSV source for the given path.
func NewCSVSource(path string) *CSVSource {
	return &CSVSource{path: path}
}

// String implements Source.
func (s *CSVSource) String() string {
	return "csv:" + s.path
}

// Load implements Source.
func (s *CSVSource) Load(ctx context.Context) ([]Book, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("open catalog %s: %w", s.path, err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // read-only file

	books, err := ReadCSV(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", s.path, err)
	}
	return books, nil
}

// column setters keyed by normalized header name
var csvColumns = map[string]func(b *Book, v string){
	"isbn13":         func(b *Book, v string) { b.ISBN13 = v },
	"isbn10":         func(b *Book, v string) { b.ISBN10 = v },
	"title":          func(b *Book, v string) { b.Title = v },
	"subtitle":       func(b *Book, v string) { b.Subtitle = v },
	"authors":        func(b *Book, v string) { b.Authors = v },
	"categories":     func(b *Book, v string) { b.Categories = v },
	"thumbnail":      func(b *Book, v string) { b.Thumbnail = v },
	"description":    func(b *Book, v string) { b.Description = v },
	"published_year": func(b *Book, v string) { b.PublishedYear = parseInt(v) },
	"average_rating": func(b *Book, v string) { b.AverageRating = parseFloat(v) },
	"num_pages":      func(b *Book, v string) { b.NumPages = parseInt(v) },
	"ratings_count":  func(b *Book, v string) { b.RatingsCount = parseInt(v) },
}

// ReadCSV decodes a catalog from r. The first record is the header.
// An empty input (no header) yields an empty catalog.
func ReadCSV(ctx context.Context, r io.Reader) ([]Book, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = false

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []Book{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	setters := make([]func(b *Book, v string), len(header))
	hasTitle := false
	for i, name := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		setters[i] = csvColumns[key]
		if key == "title" {
			hasTitle = true
		}
	}
	if !hasTitle {
		return nil, ErrMissingTitleColumn
	}

	books := make([]Book, 0, 256)
	for {
		if len(books)%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", len(books)+1, err)
		}

		var b Book
		for i, value := range record {
			if setters[i] != nil {
				setters[i](&b, value)
			}
		}
		books = append(books, b)
	}

	return books, nil
}

// parseFloat accepts values like "4.5"; empty, NaN and garbage become nil.
func parseFloat(v string) *float64 {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// parseInt accepts "2004" and the float rendering "2004.0" written by
// dataframe exports.
func parseInt(v string) *int {
	f := parseFloat(v)
	if f == nil {
		return nil
	}
	n := int(math.Trunc(*f))
	return &n
}

// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleCSV = `isbn13,title,subtitle,authors,categories,thumbnail,description,published_year,average_rating,num_pages,ratings_count
9780001,Java Programming,,A,Tech,http://img/1,Intro to Java,2004.0,3.85,320,12
9780002,Advanced Java,Second Edition,B,Tech,,Deep dive Java,,,,
9780003,Cooking Basics,,C,Food,,Learn to cook,1999,nan,abc,7
`

func TestReadCSV(t *testing.T) {
	t.Parallel()

	books, err := ReadCSV(context.Background(), strings.NewReader(sampleCSV))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(books) != 3 {
		t.Fatalf("len(books) = %d, want 3", len(books))
	}

	first := books[0]
	if first.Title != "Java Programming" || first.Authors != "A" || first.Categories != "Tech" {
		t.Errorf("first row = %+v", first)
	}
	if first.PublishedYear == nil || *first.PublishedYear != 2004 {
		t.Errorf("PublishedYear = %v, want 2004", first.PublishedYear)
	}
	if first.AverageRating == nil || *first.AverageRating != 3.85 {
		t.Errorf("AverageRating = %v, want 3.85", first.AverageRating)
	}

	second := books[1]
	if second.Subtitle != "Second Edition" {
		t.Errorf("Subtitle = %q", second.Subtitle)
	}
	if second.PublishedYear != nil || second.NumPages != nil {
		t.Errorf("empty numerics should be nil, got %+v", second)
	}

	third := books[2]
	if third.AverageRating != nil {
		t.Errorf("nan rating should be nil, got %v", *third.AverageRating)
	}
	if third.NumPages != nil {
		t.Errorf("garbage num_pages should be nil, got %v", *third.NumPages)
	}
	if third.RatingsCount == nil || *third.RatingsCount != 7 {
		t.Errorf("RatingsCount = %v, want 7", third.RatingsCount)
	}
}

func TestReadCSV_MissingColumns(t *testing.T) {
	t.Parallel()

	input := "Title,Description,extra\nDune,Spice,x\n"
	books, err := ReadCSV(context.Background(), strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("len(books) = %d, want 1", len(books))
	}
	if books[0].Title != "Dune" || books[0].Description != "Spice" || books[0].Authors != "" {
		t.Errorf("row = %+v", books[0])
	}
}

func TestReadCSV_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "no title column", input: "isbn13,authors\n1,A\n", wantErr: ErrMissingTitleColumn},
		{name: "ragged row", input: "title,authors\nDune,Herbert\nOnly\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadCSV(context.Background(), strings.NewReader(tt.input))
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestReadCSV_Empty(t *testing.T) {
	t.Parallel()

	books, err := ReadCSV(context.Background(), strings.NewReader(""))
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if len(books) != 0 {
		t.Errorf("len(books) = %d, want 0", len(books))
	}
}

func bookTitles(books []Book) []string {
	titles := make([]string, len(books))
	for i := range books {
		titles[i] = books[i].Title
	}
	return titles
}

func TestCSVSource_Load(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "books.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0o600); err != nil {
		t.Fatal(err)
	}

	src := NewCSVSource(path)
	books, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := bookTitles(books); strings.Join(got, "|") != "Java Programming|Advanced Java|Cooking Basics" {
		t.Errorf("titles = %v", got)
	}
	if src.String() != "csv:"+path {
		t.Errorf("String() = %q", src.String())
	}

	if _, err := NewCSVSource(filepath.Join(t.TempDir(), "missing.csv")).Load(context.Background()); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestShortDescription(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("é", 250)
	tests := []struct {
		name string
		desc string
		max  int
		want string
	}{
		{name: "short kept", desc: "  A tale.  ", max: 200, want: "A tale."},
		{name: "cut at rune boundary", desc: long, max: 200, want: strings.Repeat("é", 200) + "..."},
		{name: "default length", desc: long, max: 0, want: strings.Repeat("é", 200) + "..."},
		{name: "exact length kept", desc: "abcde", max: 5, want: "abcde"},
		{name: "missing description", desc: "", max: 200, want: NoDescription},
		{name: "blank description", desc: " \t ", max: 200, want: NoDescription},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := &Book{Description: tt.desc}
			if got := ShortDescription(b, tt.max); got != tt.want {
				t.Errorf("ShortDescription() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind    string
		want    string
		wantErr bool
	}{
		{kind: "", want: "csv:x"},
		{kind: "CSV", want: "csv:x"},
		{kind: "duckdb", want: "duckdb:x"},
		{kind: "sqlite", wantErr: true},
	}

	for _, tt := range tests {
		src, err := NewSource(tt.kind, "x")
		if tt.wantErr {
			if err == nil {
				t.Errorf("NewSource(%q) expected error", tt.kind)
			}
			continue
		}
		if err != nil {
			t.Fatalf("NewSource(%q) error = %v", tt.kind, err)
		}
		if src.String() != tt.want {
			t.Errorf("NewSource(%q).String() = %q, want %q", tt.kind, src.String(), tt.want)
		}
	}
}

func TestDuckDBSource_Query(t *testing.T) {
	t.Parallel()

	tests := []struct {
		path string
		want string
	}{
		{path: "books.csv", want: "read_csv_auto('books.csv', header = true)"},
		{path: "books.PARQUET", want: "read_parquet('books.PARQUET')"},
		{path: "o'brien.csv", want: "read_csv_auto('o''brien.csv', header = true)"},
	}

	for _, tt := range tests {
		q := NewDuckDBSource(tt.path).query()
		if !strings.Contains(q, tt.want) {
			t.Errorf("query(%q) = %q, want it to contain %q", tt.path, q, tt.want)
		}
	}
}

// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2" // registers the "duckdb" driver
)

// DuckDBSource reads a catalog file through an in-memory DuckDB instance.
//
// CSV files go through read_csv_auto and Parquet files through read_parquet,
// which handles quoting, encodings and typed columns that the plain CSV reader
// rejects. Every column is cast to VARCHAR and mapped with the same header
// rules as CSVSource.
type DuckDBSource struct {
	path string
}

// NewDuckDBSource creates a DuckDB-backed source for a CSV or Parquet file.
func NewDuckDBSource(path string) *DuckDBSource {
	return &DuckDBSource{path: path}
}

// String implements Source.
func (s *DuckDBSource) String() string {
	return "duckdb:" + s.path
}

// query builds the scan statement. Table functions take the path as a literal,
// so quotes are doubled rather than bound.
func (s *DuckDBSource) query() string {
	literal := "'" + strings.ReplaceAll(s.path, "'", "''") + "'"
	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".parquet", ".pq":
		return "SELECT COLUMNS(*)::VARCHAR FROM read_parquet(" + literal + ")"
	default:
		return "SELECT COLUMNS(*)::VARCHAR FROM read_csv_auto(" + literal + ", header = true)"
	}
}

// Load implements Source.
func (s *DuckDBSource) Load(ctx context.Context) ([]Book, error) {
	db, err := sql.Open("duckdb", "?autoinstall_known_extensions=false&autoload_known_extensions=false")
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}
	defer func() { _ = db.Close() }() //nolint:errcheck // in-memory database

	rows, err := db.QueryContext(ctx, s.query())
	if err != nil {
		return nil, fmt.Errorf("scan catalog %s: %w", s.path, err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck // closed after iteration

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	setters := make([]func(b *Book, v string), len(columns))
	hasTitle := false
	for i, name := range columns {
		key := strings.ToLower(strings.TrimSpace(name))
		setters[i] = csvColumns[key]
		if key == "title" {
			hasTitle = true
		}
	}
	if !hasTitle {
		return nil, ErrMissingTitleColumn
	}

	values := make([]sql.NullString, len(columns))
	dest := make([]any, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	books := make([]Book, 0, 256)
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan row %d: %w", len(books)+1, err)
		}
		var b Book
		for i, v := range values {
			if setters[i] != nil && v.Valid {
				setters[i](&b, v.String)
			}
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog rows: %w", err)
	}

	return books, nil
}

// NewSource picks a source implementation by name ("csv" or "duckdb").
func NewSource(kind, path string) (Source, error) {
	switch strings.ToLower(kind) {
	case "", "csv":
		return NewCSVSource(path), nil
	case "duckdb":
		return NewDuckDBSource(path), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q (want csv or duckdb)", kind)
	}
}

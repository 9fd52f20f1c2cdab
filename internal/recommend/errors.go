// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCorpus is returned by operations that need at least one catalog row.
	ErrEmptyCorpus = errors.New("catalog snapshot is empty")

	// ErrInvariantViolation marks a row index that does not exist in the
	// structures it was paired with. It indicates a programming error.
	ErrInvariantViolation = errors.New("snapshot invariant violated")

	// ErrSnapshotNotReady is returned before the first snapshot is published.
	ErrSnapshotNotReady = errors.New("no catalog snapshot has been loaded")
)

// InvariantError describes which structure rejected a row index.
type InvariantError struct {
	Component string
	Row       int
	Rows      int
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: row %d out of range for %d rows: %v",
		e.Component, e.Row, e.Rows, ErrInvariantViolation)
}

// Unwrap allows errors.Is(err, ErrInvariantViolation).
func (e *InvariantError) Unwrap() error {
	return ErrInvariantViolation
}

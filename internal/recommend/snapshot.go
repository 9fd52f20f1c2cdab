// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"context"
	"fmt"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/folio/internal/catalog"
)

// Recommendation fan-out. The neighbor query fetches one extra row because the
// resolved row is always its own nearest neighbor.
const (
	RecommendationCount = 10
	neighborFanout      = RecommendationCount + 1

	// MaxSimilarResults caps free-text similarity queries.
	MaxSimilarResults = 100
)

// Recommendation is a catalog row ranked by distance from the query row.
// Book points into the snapshot's catalog and must not be modified.
type Recommendation struct {
	Row      int           `json:"row"`
	Distance float64       `json:"distance"`
	Book     *catalog.Book `json:"book"`
}

// Outcome is the result of a recommend call. When Resolved is false no catalog
// title matched the query well enough; MatchedTitle and Score then describe
// the closest candidate, if any, and Recommendations is empty. Book is the
// resolved row, from the same snapshot as the recommendations.
type Outcome struct {
	Query           string           `json:"query"`
	Resolved        bool             `json:"resolved"`
	MatchedTitle    string           `json:"matched_title,omitempty"`
	Score           int              `json:"score"`
	Row             int              `json:"row"`
	Version         uint64           `json:"snapshot_version"`
	Book            *catalog.Book    `json:"book,omitempty"`
	Recommendations []Recommendation `json:"recommendations"`
}

// Snapshot bundles every structure derived from one catalog snapshot. All of
// them are built together by BuildSnapshot and never change afterwards.
type Snapshot struct {
	Version uint64
	BuiltAt time.Time

	books     []catalog.Book
	space     *VectorSpace
	titles    *TitleIndex
	neighbors *NeighborIndex
}

// BuildSnapshot derives a complete snapshot from books. The slice is copied.
// The vector space and the title index are built concurrently; the neighbor
// index follows the vector space. An empty catalog produces a valid, empty
// snapshot on which every recommendation is unresolved.
func BuildSnapshot(ctx context.Context, books []catalog.Book, version uint64) (*Snapshot, error) {
	owned := slices.Clone(books)
	if owned == nil {
		owned = []catalog.Book{}
	}

	var (
		space  *VectorSpace
		titles *TitleIndex
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vs, err := Fit(gctx, Normalize(owned))
		if err != nil {
			return fmt.Errorf("fit vector space: %w", err)
		}
		space = vs
		return nil
	})
	g.Go(func() error {
		titles = BuildTitleIndex(owned)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s := &Snapshot{
		Version:   version,
		BuiltAt:   time.Now().UTC(),
		books:     owned,
		space:     space,
		titles:    titles,
		neighbors: FitNeighbors(space),
	}
	if err := s.verify(); err != nil {
		return nil, err
	}
	return s, nil
}

// verify checks that every structure describes the same rows.
func (s *Snapshot) verify() error {
	n := len(s.books)
	if s.space.Len() != n {
		return &InvariantError{Component: "vector space", Row: s.space.Len() - 1, Rows: n}
	}
	if s.neighbors.Len() != n {
		return &InvariantError{Component: "neighbor index", Row: s.neighbors.Len() - 1, Rows: n}
	}
	for _, title := range s.titles.Titles() {
		if row, _ := s.titles.ResolveExact(title); row < 0 || row >= n {
			return &InvariantError{Component: "title index", Row: row, Rows: n}
		}
	}
	return nil
}

// Len returns the number of catalog rows.
func (s *Snapshot) Len() int {
	return len(s.books)
}

// Books returns the catalog rows. The slice must not be modified.
func (s *Snapshot) Books() []catalog.Book {
	return s.books
}

// Space returns the fitted vector space.
func (s *Snapshot) Space() *VectorSpace {
	return s.space
}

// Titles returns the title index.
func (s *Snapshot) Titles() *TitleIndex {
	return s.titles
}

// Neighbors returns the neighbor index.
func (s *Snapshot) Neighbors() *NeighborIndex {
	return s.neighbors
}

// Resolve fuzzy-matches query against the snapshot's titles.
func (s *Snapshot) Resolve(query string) (Match, bool) {
	return s.titles.Resolve(query)
}

// Recommend resolves query and returns up to RecommendationCount rows nearest
// to the resolved row. An unresolved query is not an error.
func (s *Snapshot) Recommend(query string) (Outcome, error) {
	m, ok := s.titles.Resolve(query)
	return s.recommendMatch(query, m, ok)
}

// recommendMatch finishes a recommendation from a resolution, which may come
// from the engine's cache.
func (s *Snapshot) recommendMatch(query string, m Match, resolved bool) (Outcome, error) {
	out := Outcome{Query: query, Row: -1, Version: s.Version, Recommendations: []Recommendation{}}
	if m.Position >= 0 {
		out.MatchedTitle = m.Title
		out.Score = m.Score
	}
	if !resolved {
		return out, nil
	}

	row, ok := s.titles.ResolveExact(m.Title)
	if !ok {
		return Outcome{}, &InvariantError{Component: "title index", Row: m.Position, Rows: s.titles.Len()}
	}
	if row < 0 || row >= len(s.books) {
		return Outcome{}, &InvariantError{Component: "catalog", Row: row, Rows: len(s.books)}
	}

	neighbors, err := s.neighbors.Query(row, neighborFanout)
	if err != nil {
		return Outcome{}, err
	}
	if len(neighbors) == 0 || neighbors[0].Row != row {
		return Outcome{}, &InvariantError{Component: "neighbor index", Row: row, Rows: s.neighbors.Len()}
	}

	out.Resolved = true
	out.Row = row
	out.Book = &s.books[row]
	out.Recommendations = s.materialize(neighbors[1:])
	return out, nil
}

// SimilarToText maps free text into the vector space and returns the k rows
// nearest to it. k is clamped to [1, MaxSimilarResults]; k <= 0 means
// RecommendationCount.
func (s *Snapshot) SimilarToText(text string, k int) ([]Recommendation, error) {
	if len(s.books) == 0 {
		return nil, ErrEmptyCorpus
	}
	if k <= 0 {
		k = RecommendationCount
	}
	k = min(k, MaxSimilarResults)

	neighbors := s.neighbors.QueryVector(s.space.Transform(text), k)
	return s.materialize(neighbors), nil
}

func (s *Snapshot) materialize(neighbors []Neighbor) []Recommendation {
	recs := make([]Recommendation, len(neighbors))
	for i, nb := range neighbors {
		recs[i] = Recommendation{Row: nb.Row, Distance: nb.Distance, Book: &s.books[nb.Row]}
	}
	return recs
}

// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"cmp"
	"slices"
)

// Neighbor is one result of a nearest-neighbor query.
type Neighbor struct {
	Row      int     `json:"row"`
	Distance float64 `json:"distance"`
}

type posting struct {
	row    int
	weight float64
}

// NeighborIndex answers exact cosine nearest-neighbor queries over the rows of
// a VectorSpace.
//
// Rows are unit length, so cosine distance is 1 - dot product. Dot products
// are accumulated through an inverted index (column -> rows with a weight in
// that column), touching only rows that share a term with the query. Rows
// sharing no term sit at distance 1.
type NeighborIndex struct {
	rows     []SparseVector
	postings [][]posting
}

// FitNeighbors builds the inverted index over every row of vs.
func FitNeighbors(vs *VectorSpace) *NeighborIndex {
	ni := &NeighborIndex{
		rows:     vs.rows,
		postings: make([][]posting, vs.VocabularySize()),
	}
	for row, v := range vs.rows {
		for k, col := range v.Indices {
			ni.postings[col] = append(ni.postings[col], posting{row: row, weight: v.Values[k]})
		}
	}
	return ni
}

// Len returns the number of indexed rows.
func (ni *NeighborIndex) Len() int {
	return len(ni.rows)
}

// Query returns the min(k, Len()) rows nearest to row, nearest first.
//
// The query row itself is always the first result at distance 0, even when
// another row is an exact duplicate, so callers wanting k genuine neighbors
// ask for k+1 and drop the first. The remaining rows are ordered by ascending
// distance, then ascending row index.
func (ni *NeighborIndex) Query(row, k int) ([]Neighbor, error) {
	if row < 0 || row >= len(ni.rows) {
		return nil, &InvariantError{Component: "neighbor index", Row: row, Rows: len(ni.rows)}
	}

	n := min(k, len(ni.rows))
	if n <= 0 {
		return []Neighbor{}, nil
	}

	candidates := ni.rank(ni.rows[row], row)
	result := make([]Neighbor, 0, n)
	result = append(result, Neighbor{Row: row, Distance: 0})
	result = append(result, candidates[:n-1]...)
	return result, nil
}

// QueryVector returns the min(k, Len()) rows nearest to an arbitrary vector,
// typically one produced by VectorSpace.Transform.
func (ni *NeighborIndex) QueryVector(v SparseVector, k int) []Neighbor {
	n := min(k, len(ni.rows))
	if n <= 0 {
		return []Neighbor{}
	}
	return ni.rank(v, -1)[:n]
}

// rank orders every row except skip by distance from v.
func (ni *NeighborIndex) rank(v SparseVector, skip int) []Neighbor {
	dots := make([]float64, len(ni.rows))
	for k, col := range v.Indices {
		if col < 0 || col >= len(ni.postings) {
			continue
		}
		w := v.Values[k]
		for _, p := range ni.postings[col] {
			dots[p.row] += w * p.weight
		}
	}

	ranked := make([]Neighbor, 0, len(ni.rows))
	for row, dot := range dots {
		if row == skip {
			continue
		}
		ranked = append(ranked, Neighbor{Row: row, Distance: cosineDistance(dot)})
	}
	slices.SortFunc(ranked, func(a, b Neighbor) int {
		if c := cmp.Compare(a.Distance, b.Distance); c != 0 {
			return c
		}
		return cmp.Compare(a.Row, b.Row)
	})
	return ranked
}

// cosineDistance clamps rounding noise into [0, 2].
func cosineDistance(dot float64) float64 {
	return min(max(1-dot, 0), 2)
}

// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"context"
	"math"
	"slices"
)

// SparseVector is a row of the document-term matrix. Indices are strictly
// increasing column numbers; Values holds the weight at each index.
type SparseVector struct {
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
}

// nnz returns the number of stored entries.
func (v SparseVector) nnz() int {
	return len(v.Indices)
}

// Dot returns the inner product with o by merging the sorted index lists.
func (v SparseVector) Dot(o SparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			sum += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// Norm returns the Euclidean length.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// VectorSpace is a fitted TF-IDF model and the matrix of its training documents.
//
// Weights are raw term counts times the smoothed inverse document frequency
// ln((1+n)/(1+df)) + 1, and every row is scaled to unit L2 length so that the
// dot product of two rows is their cosine similarity. The vocabulary is sorted
// lexicographically, which makes column numbers and weights reproducible.
// A VectorSpace is immutable once fitted.
type VectorSpace struct {
	vocabulary map[string]int
	terms      []string
	idf        []float64
	rows       []SparseVector
}

// ctxCheckInterval is how many documents are processed between context checks.
const ctxCheckInterval = 1024

// Fit learns the vocabulary and weights from docs and returns their rows.
// An empty document yields an all-zero row; an empty corpus yields an empty space.
func Fit(ctx context.Context, docs []string) (*VectorSpace, error) {
	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)

	for i, doc := range docs {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		tf := make(map[string]int)
		for _, tok := range Analyze(doc) {
			tf[tok]++
		}
		for term := range tf {
			df[term]++
		}
		counts[i] = tf
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	slices.Sort(terms)

	vs := &VectorSpace{
		vocabulary: make(map[string]int, len(terms)),
		terms:      terms,
		idf:        make([]float64, len(terms)),
		rows:       make([]SparseVector, len(docs)),
	}

	n := float64(len(docs))
	for col, term := range terms {
		vs.vocabulary[term] = col
		vs.idf[col] = math.Log((1+n)/(1+float64(df[term]))) + 1
	}

	for i, tf := range counts {
		if i%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		vs.rows[i] = vs.weigh(tf)
	}

	return vs, nil
}

// Transform maps a new document into the fitted space. Terms outside the
// vocabulary are ignored, so an unrelated document maps to the zero vector.
func (vs *VectorSpace) Transform(doc string) SparseVector {
	tf := make(map[string]int)
	for _, tok := range Analyze(doc) {
		if _, ok := vs.vocabulary[tok]; ok {
			tf[tok]++
		}
	}
	return vs.weigh(tf)
}

// weigh turns term counts into a unit-length row with sorted columns.
func (vs *VectorSpace) weigh(tf map[string]int) SparseVector {
	if len(tf) == 0 {
		return SparseVector{}
	}

	indices := make([]int, 0, len(tf))
	for term := range tf {
		indices = append(indices, vs.vocabulary[term])
	}
	slices.Sort(indices)

	values := make([]float64, len(indices))
	for k, col := range indices {
		values[k] = float64(tf[vs.terms[col]]) * vs.idf[col]
	}

	v := SparseVector{Indices: indices, Values: values}
	if norm := v.Norm(); norm > 0 {
		for k := range values {
			values[k] /= norm
		}
	}
	return v
}

// Len returns the number of rows.
func (vs *VectorSpace) Len() int {
	return len(vs.rows)
}

// VocabularySize returns the number of columns.
func (vs *VectorSpace) VocabularySize() int {
	return len(vs.terms)
}

// Row returns row i. The returned vector shares storage with the space and
// must not be modified.
func (vs *VectorSpace) Row(i int) (SparseVector, error) {
	if i < 0 || i >= len(vs.rows) {
		return SparseVector{}, &InvariantError{Component: "vector space", Row: i, Rows: len(vs.rows)}
	}
	return vs.rows[i], nil
}

// column returns the column of term and whether it is in the vocabulary.
func (vs *VectorSpace) column(term string) (int, bool) {
	col, ok := vs.vocabulary[term]
	return col, ok
}

// term returns the term stored at column col.
func (vs *VectorSpace) term(col int) string {
	return vs.terms[col]
}

// idfOf returns the inverse document frequency of term.
func (vs *VectorSpace) idfOf(term string) (float64, bool) {
	col, ok := vs.vocabulary[term]
	if !ok {
		return 0, false
	}
	return vs.idf[col], true
}

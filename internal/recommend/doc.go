// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Package recommend resolves imprecise book titles against a catalog and
// returns the catalog rows most similar in content to the resolved title.
//
// # Architecture
//
// Every derived structure is built from one catalog snapshot, leaf first:
//
//   - Normalize: one text document per row (title, authors, categories, description)
//   - VectorSpace: TF-IDF weights over a lexicographic vocabulary, L2-normalized rows
//   - TitleIndex: exact title to row, first occurrence wins
//   - Resolve: fuzzy title match on a 0-100 scale, accepted at MatchThreshold
//   - NeighborIndex: exact cosine nearest neighbors over the vector rows
//
// A Snapshot bundles all of them. Queries against a Snapshot never mutate it,
// so any number of goroutines may read one concurrently.
//
// # Reloading
//
// Engine publishes snapshots through a single atomic pointer. Reload builds a
// complete new bundle off to the side and swaps it in; a request loads the
// pointer once and uses that bundle for its whole lifetime, so it can never mix
// a title index from one catalog with vectors from another.
//
// # Usage
//
//	engine := recommend.NewEngine(recommend.DefaultConfig(), logger)
//	if _, err := engine.Reload(ctx, books); err != nil {
//	    return err
//	}
//
//	outcome, err := engine.Recommend(ctx, "jav programing")
//	if err != nil {
//	    return err
//	}
//	if !outcome.Resolved {
//	    // no catalog title matched well enough
//	}
//	for _, rec := range outcome.Recommendations {
//	    fmt.Println(rec.Book.Title, rec.Distance)
//	}
//
// # Determinism
//
// The same catalog always yields the same vocabulary, the same weights and the
// same neighbor order. Equal distances are ordered by row index.
package recommend

// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import "github.com/tomtom215/folio/internal/catalog"

// TitleIndex maps exact titles to the first catalog row carrying them.
//
// Later rows with a repeated title stay valid rows of the catalog; they are
// only absent from the index. Known titles are kept in first-seen order and
// double as the fuzzy resolution candidates.
type TitleIndex struct {
	rows    map[string]int
	titles  []string
	choices *Choices
}

// BuildTitleIndex indexes books in one pass.
func BuildTitleIndex(books []catalog.Book) *TitleIndex {
	ti := &TitleIndex{
		rows:   make(map[string]int, len(books)),
		titles: make([]string, 0, len(books)),
	}
	for i := range books {
		title := books[i].Title
		if _, seen := ti.rows[title]; seen {
			continue
		}
		ti.rows[title] = i
		ti.titles = append(ti.titles, title)
	}
	ti.choices = PrepareChoices(ti.titles)
	return ti
}

// ResolveExact returns the row of an exact title.
func (ti *TitleIndex) ResolveExact(title string) (int, bool) {
	row, ok := ti.rows[title]
	return row, ok
}

// Titles returns the distinct titles in first-seen order. The slice must not
// be modified.
func (ti *TitleIndex) Titles() []string {
	return ti.titles
}

// Len returns the number of distinct titles.
func (ti *TitleIndex) Len() int {
	return len(ti.titles)
}

// Resolve fuzzy-matches query against the indexed titles.
func (ti *TitleIndex) Resolve(query string) (Match, bool) {
	return ti.choices.Resolve(query)
}

// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"strings"

	"github.com/tomtom215/folio/internal/catalog"
)

// Normalize builds one document per catalog row, in row order.
//
// A document is title, authors, categories and description joined by single
// spaces. Missing fields are empty strings, so an empty row still produces a
// document (of three spaces).
func Normalize(books []catalog.Book) []string {
	docs := make([]string, len(books))
	var sb strings.Builder
	for i := range books {
		b := &books[i]
		sb.Reset()
		sb.Grow(len(b.Title) + len(b.Authors) + len(b.Categories) + len(b.Description) + 3)
		sb.WriteString(b.Title)
		sb.WriteByte(' ')
		sb.WriteString(b.Authors)
		sb.WriteByte(' ')
		sb.WriteString(b.Categories)
		sb.WriteByte(' ')
		sb.WriteString(b.Description)
		docs[i] = sb.String()
	}
	return docs
}

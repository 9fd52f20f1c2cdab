// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Custom tags registered on the singleton validator:
//
//   - username: 1-64 characters from [A-Za-z0-9_.-]
//   - notblank: at least one non-whitespace character
//
// Error translation produces messages such as "title is required" or
// "k must be at most 100", using json field names.

package validation

// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

// Command folio queries a book catalog from the command line without running
// the server:
//
//	folio resolve "harry poter"
//	folio recommend --catalog data/books.csv "java programming"
//	folio similar -k 5 "space opera with politics"
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

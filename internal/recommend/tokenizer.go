// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// minTokenRunes is the shortest token kept; single characters carry no signal.
const minTokenRunes = 2

// Tokenize lower-cases text and splits it into maximal runs of word characters
// (letters, digits and underscore in any script). Runs shorter than two runes
// are dropped. Stop words are kept; see Analyze.
func Tokenize(text string) []string {
	lower := strings.ToLower(text)
	tokens := make([]string, 0, len(lower)/6)

	start := -1
	for i, r := range lower {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			tokens = appendToken(tokens, lower[start:i])
			start = -1
		}
	}
	if start >= 0 {
		tokens = appendToken(tokens, lower[start:])
	}
	return tokens
}

// Analyze is Tokenize with English stop words removed. It is the analyzer used
// to fit and transform documents.
func Analyze(text string) []string {
	tokens := Tokenize(text)
	kept := tokens[:0]
	for _, tok := range tokens {
		if !IsStopWord(tok) {
			kept = append(kept, tok)
		}
	}
	return kept
}

func appendToken(tokens []string, tok string) []string {
	if utf8.RuneCountInString(tok) < minTokenRunes {
		return tokens
	}
	return append(tokens, tok)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

// MatchThreshold is the minimum WRatio score for a fuzzy match to be accepted.
const MatchThreshold = 80

// Match is the best-scoring candidate title for a query.
type Match struct {
	Title    string `json:"title"`
	Score    int    `json:"score"`
	Position int    `json:"-"`
}

// Choices is a candidate title list prepared for repeated fuzzy resolution.
// It is immutable and safe for concurrent use.
type Choices struct {
	titles    []string
	processed []string
	exact     map[string]int
}

// PrepareChoices processes every title once so queries only process the query.
func PrepareChoices(titles []string) *Choices {
	c := &Choices{
		titles:    titles,
		processed: make([]string, len(titles)),
		exact:     make(map[string]int, len(titles)),
	}
	for i, t := range titles {
		c.processed[i] = FullProcess(t)
		if _, seen := c.exact[t]; !seen {
			c.exact[t] = i
		}
	}
	return c
}

// Len returns the number of candidate titles.
func (c *Choices) Len() int {
	return len(c.titles)
}

// Best returns the highest-scoring title for query, whatever its score.
// Ties go to the earliest title, except that a non-empty query equal to a
// title always returns that title with score 100. It returns false only when
// there are no titles.
func (c *Choices) Best(query string) (Match, bool) {
	if len(c.titles) == 0 {
		return Match{Position: -1}, false
	}
	if pos, ok := c.exact[query]; ok && query != "" {
		return Match{Title: query, Score: 100, Position: pos}, true
	}

	pq := FullProcess(query)
	best := Match{Title: c.titles[0], Position: 0, Score: -1}
	for i, p := range c.processed {
		score := weightedRatio(pq, p)
		if score > best.Score {
			best = Match{Title: c.titles[i], Score: score, Position: i}
			if score == 100 {
				break
			}
		}
	}
	return best, true
}

// Resolve returns the best title when it scores at least MatchThreshold.
// When it does not, the best candidate is still returned with false so
// callers can report how close the query came.
func (c *Choices) Resolve(query string) (Match, bool) {
	m, ok := c.Best(query)
	if !ok || m.Score < MatchThreshold {
		return m, false
	}
	return m, true
}

// Resolve matches query against titles. See Choices.Resolve.
func Resolve(query string, titles []string) (Match, bool) {
	if len(titles) == 0 {
		return Match{Position: -1}, false
	}
	return PrepareChoices(titles).Resolve(query)
}

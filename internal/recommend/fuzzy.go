// Folio - Book Discovery and Content Recommendation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/folio

package recommend

import (
	"math"
	"math/bits"
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Weighted ratio scaling
const (
	unbaseScale      = 0.95
	partialScale     = 0.9
	longPartialScale = 0.6

	// length ratios that switch the weighted ratio to partial matching
	partialLengthRatio     = 1.5
	longPartialLengthRatio = 8
)

// FullProcess prepares a string for fuzzy comparison: compatibility
// decomposition with combining marks removed ("Café" -> "cafe"), every
// non-word character replaced by a space, lower-cased and trimmed.
// Inner runs of spaces are kept.
func FullProcess(s string) string {
	var sb strings.Builder
	decomposed := norm.NFKD.String(s)
	sb.Grow(len(decomposed))
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			// accent stripped from its base letter
		case isWordRune(r):
			sb.WriteRune(unicode.ToLower(r))
		default:
			sb.WriteByte(' ')
		}
	}
	return strings.TrimSpace(sb.String())
}

// WRatio scores two strings on a 0-100 scale. It takes the best of a plain
// edit similarity, token-order-insensitive variants and, when the lengths
// differ a lot, substring variants scaled down so that a short string fully
// contained in a long one scores 90 rather than 100.
func WRatio(s1, s2 string) int {
	return weightedRatio(FullProcess(s1), FullProcess(s2))
}

// weightedRatio is WRatio over already processed strings.
func weightedRatio(p1, p2 string) int {
	if p1 == "" || p2 == "" {
		return 0
	}

	r1, r2 := []rune(p1), []rune(p2)
	base := float64(ratio(r1, r2))

	lenRatio := float64(max(len(r1), len(r2))) / float64(min(len(r1), len(r2)))
	if lenRatio < partialLengthRatio {
		tsor := float64(tokenSortRatio(p1, p2, false)) * unbaseScale
		tser := float64(tokenSetRatio(p1, p2, false)) * unbaseScale
		return roundScore(max(base, tsor, tser))
	}

	scale := partialScale
	if lenRatio > longPartialLengthRatio {
		scale = longPartialScale
	}
	partial := float64(partialRatio(r1, r2)) * scale
	ptsor := float64(tokenSortRatio(p1, p2, true)) * unbaseScale * scale
	ptser := float64(tokenSetRatio(p1, p2, true)) * unbaseScale * scale
	return roundScore(max(base, partial, ptsor, ptser))
}

// ratio is 100 * 2*LCS / (len(a)+len(b)), the indel similarity.
func ratio(a, b []rune) int {
	if slices.Equal(a, b) {
		return 100
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return roundScore(100 * indelSimilarity(lcsLength(a, b), len(a), len(b)))
}

// partialRatio is the best ratio of the shorter string against every
// same-length window of the longer one. Windows that run off the end are
// compared truncated.
func partialRatio(a, b []rune) int {
	if slices.Equal(a, b) {
		return 100
	}
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	shorter, longer := a, b
	if len(shorter) > len(longer) {
		shorter, longer = longer, shorter
	}

	var pat *bitPattern
	if len(shorter) <= 64 {
		pat = newBitPattern(shorter)
	}

	best := 0.0
	for start := range longer {
		window := longer[start:min(start+len(shorter), len(longer))]
		var lcs int
		if pat != nil {
			lcs = pat.lcs(window)
		} else {
			lcs = lcsDP(shorter, window)
		}
		r := indelSimilarity(lcs, len(shorter), len(window))
		if r > 0.995 {
			return 100
		}
		best = max(best, r)
	}
	return roundScore(100 * best)
}

// tokenSortRatio compares the strings after sorting their tokens.
func tokenSortRatio(p1, p2 string, partial bool) int {
	s1 := []rune(sortedTokens(p1))
	s2 := []rune(sortedTokens(p2))
	if partial {
		return partialRatio(s1, s2)
	}
	return ratio(s1, s2)
}

// tokenSetRatio compares the shared tokens against each side's shared plus
// leftover tokens, so a title that is a token subset of another scores high.
func tokenSetRatio(p1, p2 string, partial bool) int {
	if p1 == p2 {
		return 100
	}
	if p1 == "" || p2 == "" {
		return 0
	}

	set1 := tokenSet(p1)
	set2 := tokenSet(p2)

	var sect, diff12, diff21 []string
	for tok := range set1 {
		if _, ok := set2[tok]; ok {
			sect = append(sect, tok)
		} else {
			diff12 = append(diff12, tok)
		}
	}
	for tok := range set2 {
		if _, ok := set1[tok]; !ok {
			diff21 = append(diff21, tok)
		}
	}
	slices.Sort(sect)
	slices.Sort(diff12)
	slices.Sort(diff21)

	sorted := strings.Join(sect, " ")
	combined12 := strings.TrimSpace(sorted + " " + strings.Join(diff12, " "))
	combined21 := strings.TrimSpace(sorted + " " + strings.Join(diff21, " "))

	score := ratio
	if partial {
		score = partialRatio
	}
	rs, r12, r21 := []rune(sorted), []rune(combined12), []rune(combined21)
	return max(score(rs, r12), score(rs, r21), score(r12, r21))
}

func sortedTokens(s string) string {
	tokens := strings.Fields(s)
	slices.Sort(tokens)
	return strings.Join(tokens, " ")
}

func tokenSet(s string) map[string]struct{} {
	fields := strings.Fields(s)
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func indelSimilarity(lcs, len1, len2 int) float64 {
	return 2 * float64(lcs) / float64(len1+len2)
}

// roundScore rounds half to even.
func roundScore(x float64) int {
	return int(math.RoundToEven(x))
}

// lcsLength returns the length of the longest common subsequence.
func lcsLength(a, b []rune) int {
	if len(a) > len(b) {
		a, b = b, a
	}
	if len(a) == 0 {
		return 0
	}
	if len(a) <= 64 {
		return newBitPattern(a).lcs(b)
	}
	return lcsDP(a, b)
}

// bitPattern holds per-character match masks of a pattern of at most 64 runes
// for the bit-parallel LCS recurrence V' = (V + (V & M)) | (V - (V & M)).
type bitPattern struct {
	n     int
	ascii [128]uint64
	other map[rune]uint64
}

func newBitPattern(p []rune) *bitPattern {
	bp := &bitPattern{n: len(p)}
	for i, r := range p {
		bit := uint64(1) << uint(i)
		if r < 128 {
			bp.ascii[r] |= bit
			continue
		}
		if bp.other == nil {
			bp.other = make(map[rune]uint64)
		}
		bp.other[r] |= bit
	}
	return bp
}

func (bp *bitPattern) mask(r rune) uint64 {
	if r >= 0 && r < 128 {
		return bp.ascii[r]
	}
	return bp.other[r]
}

func (bp *bitPattern) lcs(text []rune) int {
	v := ^uint64(0)
	for _, r := range text {
		u := v & bp.mask(r)
		v = (v + u) | (v - u)
	}
	low := ^uint64(0)
	if bp.n < 64 {
		low = uint64(1)<<uint(bp.n) - 1
	}
	return bits.OnesCount64(^v & low)
}

// lcsDP is the quadratic two-row LCS used for patterns longer than 64 runes.
func lcsDP(a, b []rune) int {
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			switch {
			case a[i-1] == b[j-1]:
				curr[j] = prev[j-1] + 1
			case prev[j] >= curr[j-1]:
				curr[j] = prev[j]
			default:
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

// Package matching scores destination-catalog search results against source
// tracks: string similarity, duration parsing, title/artist extraction,
// query generation and best-candidate selection.
package matching

import (
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Similarity returns a case-insensitive similarity in [0, 1] derived from the
// Levenshtein distance between a and b, normalized by the longer input.
// Distances and lengths are counted in characters, not bytes.
func Similarity(a, b string) float64 {
	a, b = strings.ToLower(a), strings.ToLower(b)
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	maxLen := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))

	distance := levenshtein.ComputeDistance(a, b)
	return clamp01(1.0 - float64(distance)/float64(maxLen))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

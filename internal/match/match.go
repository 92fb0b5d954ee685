// Package match provides pluggable string-similarity scoring for fuzzy
// category and title lookup.
//
// The scorer sits behind a small interface so the algorithm and thresholds
// can change without touching query logic.
package match

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

const (
	// CategoryThreshold is the minimum similarity for a category query to
	// match a stored label.
	CategoryThreshold = 0.70

	// TitleThreshold is the minimum similarity for a detail lookup to match
	// an event title.
	TitleThreshold = 0.60
)

// Scorer rates the similarity of two strings on a 0..1 scale, where 1 means
// identical.
type Scorer interface {
	Score(a, b string) float64
}

// Levenshtein scores strings by normalized edit distance, case-insensitive.
type Levenshtein struct{}

// Score returns 1 minus the edit distance divided by the longer string's
// rune length.
func (Levenshtein) Score(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == b {
		return 1
	}
	if a == "" || b == "" {
		return 0
	}

	longest := len([]rune(a))
	if l := len([]rune(b)); l > longest {
		longest = l
	}

	distance := levenshtein.ComputeDistance(a, b)
	return 1 - float64(distance)/float64(longest)
}

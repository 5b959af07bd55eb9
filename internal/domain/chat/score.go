package chat

import (
	"math"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// similarity returns a length-normalized edit distance ratio in [0, 100]:
// 100 for identical strings, 0 for an empty input or nothing in common.
// Distances are computed over runes, not bytes.
func similarity(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	longest := utf8.RuneCountInString(a)
	if lb := utf8.RuneCountInString(b); lb > longest {
		longest = lb
	}
	dist := levenshtein.ComputeDistance(a, b)
	score := int(math.Round(100 * (1 - float64(dist)/float64(longest))))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

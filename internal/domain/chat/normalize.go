package chat

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// normalizeText lowers, strips diacritics, and collapses punctuation and
// whitespace so superficially different phrasings score against the same
// canonical form. The corpus is Czech, so the diacritic fold matters:
// "počasí" and "pocasi" must land on the same string. Raw text is still
// what gets logged.
func normalizeText(q string) string {
	lowered := strings.ToLower(strings.TrimSpace(q))
	if folded, _, err := transform.String(diacriticStripper, lowered); err == nil {
		lowered = folded
	}
	var builder strings.Builder
	builder.Grow(len(lowered))
	lastSpace := true
	for _, r := range lowered {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			builder.WriteRune(r)
			lastSpace = false
			continue
		}
		// punctuation and whitespace both collapse to a single space
		if !lastSpace {
			builder.WriteRune(' ')
			lastSpace = true
		}
	}
	return strings.TrimSpace(builder.String())
}

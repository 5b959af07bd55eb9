package chat

import "github.com/dotazy/faqbot/internal/domain/corpus"

// Resolution is the two-outcome result of matching a query against the
// corpus: either a confident match carrying the stored entry, or a
// refusal. Score is the best similarity found either way.
type Resolution struct {
	Entry   corpus.Entry
	Score   int
	Matched bool
}

// matcher scores queries against the corpus. Questions are normalized
// once at construction, so serving only pays for the distance scan.
type matcher struct {
	corpus     *corpus.Corpus
	normalized []string
}

func newMatcher(c *corpus.Corpus) *matcher {
	normalized := make([]string, c.Len())
	for i := range normalized {
		normalized[i] = normalizeText(c.Entry(i).Question)
	}
	return &matcher{corpus: c, normalized: normalized}
}

// Resolve selects the single best-scoring entry, earliest corpus
// position winning ties, and applies the confidence threshold: only a
// score strictly above it qualifies as a match. An empty query or an
// empty corpus always resolves to a refusal.
func (m *matcher) Resolve(query string, threshold int) Resolution {
	normalizedQuery := normalizeText(query)

	bestScore := -1
	var best corpus.Entry
	for i, question := range m.normalized {
		score := similarity(normalizedQuery, question)
		if score > bestScore {
			bestScore = score
			best = m.corpus.Entry(i)
		}
	}
	if bestScore < 0 {
		return Resolution{}
	}
	return Resolution{
		Entry:   best,
		Score:   bestScore,
		Matched: bestScore > threshold,
	}
}

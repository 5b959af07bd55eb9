package corpus

// Entry is one stored question/answer pair.
type Entry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// Corpus holds the ordered FAQ entries loaded once at startup. It is
// immutable after construction, so concurrent readers need no locking.
// Duplicate questions are kept as-is; position decides ties downstream.
type Corpus struct {
	entries []Entry
}

// New builds a corpus from the loaded entries, preserving their order.
func New(entries []Entry) *Corpus {
	cloned := make([]Entry, len(entries))
	copy(cloned, entries)
	return &Corpus{entries: cloned}
}

// Len reports the number of entries.
func (c *Corpus) Len() int {
	return len(c.entries)
}

// Entry returns the entry at position i.
func (c *Corpus) Entry(i int) Entry {
	return c.entries[i]
}

// IsEmpty reports whether the corpus failed to load or had no records.
func (c *Corpus) IsEmpty() bool {
	return len(c.entries) == 0
}

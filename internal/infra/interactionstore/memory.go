package interactionstore

import (
	"context"
	"sync"

	"github.com/dotazy/faqbot/internal/domain/interaction"
	"github.com/dotazy/faqbot/pkg/util"
)

// MemoryStore is an in-memory interaction.Store used for tests/dev and
// as the fallback when no durable backend is configured.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID int64

	records map[int64]interaction.Record
	order   []int64
}

// NewMemoryStore constructs a store backed by process memory.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:  1,
		records: make(map[int64]interaction.Record),
	}
}

// Append implements interaction.Store.
func (s *MemoryStore) Append(_ context.Context, question, answer string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.records[id] = interaction.Record{
		ID:        id,
		Question:  question,
		Answer:    answer,
		Rating:    interaction.RatingNone,
		CreatedAt: util.NowUTC(),
	}
	s.order = append(s.order, id)
	return id, nil
}

// UpdateRating implements interaction.Store.
func (s *MemoryStore) UpdateRating(_ context.Context, id int64, rating interaction.Rating) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[id]
	if !ok {
		return interaction.ErrNotFound
	}
	rec.Rating = rating
	s.records[id] = rec
	return nil
}

// Get implements interaction.Store.
func (s *MemoryStore) Get(_ context.Context, id int64) (interaction.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return interaction.Record{}, interaction.ErrNotFound
	}
	return rec, nil
}

// Recent implements interaction.Store.
func (s *MemoryStore) Recent(_ context.Context, limit int) ([]interaction.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 || limit > len(s.order) {
		limit = len(s.order)
	}
	out := make([]interaction.Record, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.records[s.order[i]])
	}
	return out, nil
}

var _ interaction.Store = (*MemoryStore)(nil)

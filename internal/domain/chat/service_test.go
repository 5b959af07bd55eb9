package chat

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dotazy/faqbot/internal/domain/corpus"
	"github.com/dotazy/faqbot/internal/domain/interaction"
	apperrors "github.com/dotazy/faqbot/pkg/errors"
)

type stubStore struct {
	appendErr error
	updateErr error
	recentErr error

	nextID  int64
	records map[int64]interaction.Record
	recent  []interaction.Record
}

func newStubStore() *stubStore {
	return &stubStore{nextID: 1, records: make(map[int64]interaction.Record)}
}

func (s *stubStore) Append(_ context.Context, question, answer string) (int64, error) {
	if s.appendErr != nil {
		return 0, s.appendErr
	}
	id := s.nextID
	s.nextID++
	s.records[id] = interaction.Record{
		ID:        id,
		Question:  question,
		Answer:    answer,
		Rating:    interaction.RatingNone,
		CreatedAt: time.Now().UTC(),
	}
	return id, nil
}

func (s *stubStore) UpdateRating(_ context.Context, id int64, rating interaction.Rating) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	rec, ok := s.records[id]
	if !ok {
		return interaction.ErrNotFound
	}
	rec.Rating = rating
	s.records[id] = rec
	return nil
}

func (s *stubStore) Get(_ context.Context, id int64) (interaction.Record, error) {
	rec, ok := s.records[id]
	if !ok {
		return interaction.Record{}, interaction.ErrNotFound
	}
	return rec, nil
}

func (s *stubStore) Recent(_ context.Context, limit int) ([]interaction.Record, error) {
	if s.recentErr != nil {
		return nil, s.recentErr
	}
	if limit > len(s.recent) {
		limit = len(s.recent)
	}
	return s.recent[:limit], nil
}

func newTestService(store interaction.Store, entries ...corpus.Entry) Service {
	cfg := Config{
		Threshold:   76,
		Fallback:    "Omlouvám se, ale na tuto otázku nemám odpověď.",
		RecentLimit: 20,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(cfg, corpus.New(entries), store, logger)
}

func TestAnswerMatchedQuery(t *testing.T) {
	store := newStubStore()
	svc := newTestService(store,
		corpus.Entry{Question: "Jak se resetuje heslo?", Answer: "Klikněte na Zapomenuté heslo."},
	)

	resp, err := svc.Answer(context.Background(), Request{Query: "jak se resetuje heslo"})
	require.NoError(t, err)
	require.True(t, resp.Matched)
	require.Equal(t, "Klikněte na Zapomenuté heslo.", resp.Answer)

	rec, err := store.Get(context.Background(), resp.AnswerID)
	require.NoError(t, err)
	require.Equal(t, interaction.RatingNone, rec.Rating)
	require.Equal(t, "jak se resetuje heslo", rec.Question)
}

func TestAnswerRefusalIsStillLogged(t *testing.T) {
	store := newStubStore()
	svc := newTestService(store,
		corpus.Entry{Question: "Jak se resetuje heslo?", Answer: "Klikněte na Zapomenuté heslo."},
	)

	resp, err := svc.Answer(context.Background(), Request{Query: "jaké je počasí"})
	require.NoError(t, err)
	require.False(t, resp.Matched)
	require.Equal(t, "Omlouvám se, ale na tuto otázku nemám odpověď.", resp.Answer)

	rec, err := store.Get(context.Background(), resp.AnswerID)
	require.NoError(t, err)
	require.Equal(t, resp.Answer, rec.Answer)
	require.Equal(t, interaction.RatingNone, rec.Rating)
}

func TestAnswerEmptyCorpusDegradesToFallback(t *testing.T) {
	store := newStubStore()
	svc := newTestService(store)

	resp, err := svc.Answer(context.Background(), Request{Query: "anything"})
	require.NoError(t, err)
	require.False(t, resp.Matched)
	require.Equal(t, "Omlouvám se, ale na tuto otázku nemám odpověď.", resp.Answer)
}

func TestAnswerStorageFailurePropagates(t *testing.T) {
	store := newStubStore()
	store.appendErr = errors.New("disk gone")
	svc := newTestService(store,
		corpus.Entry{Question: "Jak se resetuje heslo?", Answer: "Klikněte na Zapomenuté heslo."},
	)

	_, err := svc.Answer(context.Background(), Request{Query: "jak se resetuje heslo"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "storage_error"))
}

func TestRateLifecycle(t *testing.T) {
	store := newStubStore()
	svc := newTestService(store,
		corpus.Entry{Question: "Jak se resetuje heslo?", Answer: "Klikněte na Zapomenuté heslo."},
	)

	resp, err := svc.Answer(context.Background(), Request{Query: "jak se resetuje heslo"})
	require.NoError(t, err)

	require.NoError(t, svc.Rate(context.Background(), RateRequest{AnswerID: resp.AnswerID, Rating: "up"}))
	rec, err := store.Get(context.Background(), resp.AnswerID)
	require.NoError(t, err)
	require.Equal(t, interaction.RatingUp, rec.Rating)

	// repeat is idempotent, a different value overwrites
	require.NoError(t, svc.Rate(context.Background(), RateRequest{AnswerID: resp.AnswerID, Rating: "up"}))
	require.NoError(t, svc.Rate(context.Background(), RateRequest{AnswerID: resp.AnswerID, Rating: "down"}))
	rec, err = store.Get(context.Background(), resp.AnswerID)
	require.NoError(t, err)
	require.Equal(t, interaction.RatingDown, rec.Rating)

	require.Len(t, store.records, 1)
}

func TestRateInvalidValue(t *testing.T) {
	svc := newTestService(newStubStore())
	err := svc.Rate(context.Background(), RateRequest{AnswerID: 1, Rating: "meh"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "invalid_rating"))
}

func TestRateUnknownRecord(t *testing.T) {
	store := newStubStore()
	svc := newTestService(store)
	err := svc.Rate(context.Background(), RateRequest{AnswerID: 42, Rating: "up"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "not_found"))
	require.Empty(t, store.records)
}

func TestRateStorageFailurePropagates(t *testing.T) {
	store := newStubStore()
	store.updateErr = errors.New("backend unreachable")
	svc := newTestService(store)
	err := svc.Rate(context.Background(), RateRequest{AnswerID: 1, Rating: "up"})
	require.Error(t, err)
	require.True(t, apperrors.IsCode(err, "storage_error"))
}

func TestRecentClampsLimit(t *testing.T) {
	store := newStubStore()
	for i := 0; i < 30; i++ {
		store.recent = append(store.recent, interaction.Record{ID: int64(i + 1)})
	}
	svc := newTestService(store)

	records, err := svc.Recent(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, records, 20)

	records, err = svc.Recent(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, records, 5)
}

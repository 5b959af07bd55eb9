package chat

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/dotazy/faqbot/internal/domain/corpus"
	"github.com/dotazy/faqbot/internal/domain/interaction"
	apperrors "github.com/dotazy/faqbot/pkg/errors"
)

// Service exposes the FAQ chatbot capabilities.
type Service interface {
	Answer(ctx context.Context, req Request) (Response, error)
	Rate(ctx context.Context, req RateRequest) error
	Recent(ctx context.Context, limit int) ([]interaction.Record, error)
}

type service struct {
	cfg     Config
	matcher *matcher
	store   interaction.Store
	logger  *slog.Logger
}

// NewService wires up the chat domain.
func NewService(cfg Config, c *corpus.Corpus, store interaction.Store, logger *slog.Logger) Service {
	return &service{
		cfg:     cfg,
		matcher: newMatcher(c),
		store:   store,
		logger:  logger.With("component", "chat.service"),
	}
}

// Answer resolves a query to the best corpus match or the fallback and
// logs the outcome either way. A refusal is still a loggable event.
func (s *service) Answer(ctx context.Context, req Request) (Response, error) {
	query := strings.TrimSpace(req.Query)

	res := s.matcher.Resolve(query, s.cfg.Threshold)
	answer := s.cfg.Fallback
	if res.Matched {
		answer = res.Entry.Answer
	}

	id, err := s.store.Append(ctx, query, answer)
	if err != nil {
		return Response{}, apperrors.Wrap("storage_error", "failed to log interaction", err)
	}

	s.logger.Info("query resolved", "matched", res.Matched, "score", res.Score, "answer_id", id)
	return Response{Answer: answer, AnswerID: id, Matched: res.Matched}, nil
}

// Rate validates and applies a rating revision to a logged interaction.
func (s *service) Rate(ctx context.Context, req RateRequest) error {
	rating, err := interaction.ParseRating(req.Rating)
	if err != nil {
		return apperrors.Wrap("invalid_rating", "rating must be up, down or none", err)
	}

	if err := s.store.UpdateRating(ctx, req.AnswerID, rating); err != nil {
		switch {
		case errors.Is(err, interaction.ErrNotFound):
			return apperrors.Wrap("not_found", "unknown answer id", err)
		case errors.Is(err, interaction.ErrInvalidRating):
			return apperrors.Wrap("invalid_rating", "rating must be up, down or none", err)
		default:
			return apperrors.Wrap("storage_error", "failed to update rating", err)
		}
	}

	s.logger.Info("rating updated", "answer_id", req.AnswerID, "rating", rating)
	return nil
}

// Recent returns the latest logged interactions, newest first.
func (s *service) Recent(ctx context.Context, limit int) ([]interaction.Record, error) {
	if limit <= 0 || limit > s.cfg.RecentLimit {
		limit = s.cfg.RecentLimit
	}
	records, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, apperrors.Wrap("storage_error", "failed to load interactions", err)
	}
	return records, nil
}

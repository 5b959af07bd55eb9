package interactionstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dotazy/faqbot/internal/domain/interaction"
)

// PostgresStore is the relational backend on a pgx pool. Statement-level
// transactions from the engine make each append and rating update
// atomic without application locking.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs the backend.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the interactions table when it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS interactions (
			id BIGSERIAL PRIMARY KEY,
			question TEXT NOT NULL,
			answer TEXT NOT NULL,
			rating TEXT NOT NULL DEFAULT 'none',
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure interactions table: %w", err)
	}
	return nil
}

// Append implements interaction.Store.
func (s *PostgresStore) Append(ctx context.Context, question, answer string) (int64, error) {
	var id int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO interactions (question, answer, rating)
		VALUES ($1, $2, $3)
		RETURNING id
	`, question, answer, string(interaction.RatingNone)).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert interaction: %w", err)
	}
	return id, nil
}

// UpdateRating implements interaction.Store.
func (s *PostgresStore) UpdateRating(ctx context.Context, id int64, rating interaction.Rating) error {
	tag, err := s.pool.Exec(ctx, `UPDATE interactions SET rating = $1 WHERE id = $2`, string(rating), id)
	if err != nil {
		return fmt.Errorf("update rating: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return interaction.ErrNotFound
	}
	return nil
}

// Get implements interaction.Store.
func (s *PostgresStore) Get(ctx context.Context, id int64) (interaction.Record, error) {
	var (
		rec    interaction.Record
		rating string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, question, answer, rating, created_at
		FROM interactions WHERE id = $1
	`, id).Scan(&rec.ID, &rec.Question, &rec.Answer, &rating, &rec.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return interaction.Record{}, interaction.ErrNotFound
	}
	if err != nil {
		return interaction.Record{}, fmt.Errorf("query interaction: %w", err)
	}
	parsed, err := interaction.ParseRating(rating)
	if err != nil {
		return interaction.Record{}, fmt.Errorf("record %d: %w", rec.ID, err)
	}
	rec.Rating = parsed
	return rec, nil
}

// Recent implements interaction.Store.
func (s *PostgresStore) Recent(ctx context.Context, limit int) ([]interaction.Record, error) {
	var bound any
	if limit > 0 {
		bound = limit
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, question, answer, rating, created_at
		FROM interactions ORDER BY id DESC LIMIT $1
	`, bound)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var records []interaction.Record
	for rows.Next() {
		var (
			rec    interaction.Record
			rating string
		)
		if err := rows.Scan(&rec.ID, &rec.Question, &rec.Answer, &rating, &rec.CreatedAt); err != nil {
			return nil, err
		}
		parsed, err := interaction.ParseRating(rating)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", rec.ID, err)
		}
		rec.Rating = parsed
		records = append(records, rec)
	}
	return records, rows.Err()
}

var _ interaction.Store = (*PostgresStore)(nil)

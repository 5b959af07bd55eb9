package interactionstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dotazy/faqbot/internal/domain/interaction"
	"github.com/dotazy/faqbot/pkg/util"
)

// SQLiteStore is the embedded relational backend. Row-level inserts and
// updates come from the database engine, so no application lock is
// needed around individual operations.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path and bootstraps the
// schema. Pass ":memory:" for an in-memory database (used by tests).
func OpenSQLite(path string) (*SQLiteStore, error) {
	dsn := path
	if dsn != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(dsn), 0o755); err != nil {
			return nil, fmt.Errorf("create data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Single connection avoids "database is locked" under writer contention.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS interactions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		rating TEXT NOT NULL DEFAULT 'none',
		created_at TEXT NOT NULL
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create interactions table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Append implements interaction.Store.
func (s *SQLiteStore) Append(ctx context.Context, question, answer string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO interactions (question, answer, rating, created_at)
		VALUES (?, ?, ?, ?)`,
		question, answer, string(interaction.RatingNone), util.NowUTC().Format(time.RFC3339),
	)
	if err != nil {
		return 0, fmt.Errorf("insert interaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted id: %w", err)
	}
	return id, nil
}

// UpdateRating implements interaction.Store.
func (s *SQLiteStore) UpdateRating(ctx context.Context, id int64, rating interaction.Rating) error {
	res, err := s.db.ExecContext(ctx, `UPDATE interactions SET rating = ? WHERE id = ?`, string(rating), id)
	if err != nil {
		return fmt.Errorf("update rating: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("check rows affected: %w", err)
	}
	if n == 0 {
		return interaction.ErrNotFound
	}
	return nil
}

// Get implements interaction.Store.
func (s *SQLiteStore) Get(ctx context.Context, id int64) (interaction.Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, question, answer, rating, created_at
		FROM interactions WHERE id = ?`, id)
	rec, err := scanInteraction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return interaction.Record{}, interaction.ErrNotFound
	}
	return rec, err
}

// Recent implements interaction.Store.
func (s *SQLiteStore) Recent(ctx context.Context, limit int) ([]interaction.Record, error) {
	if limit <= 0 {
		limit = -1 // sqlite LIMIT -1 means unbounded
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, question, answer, rating, created_at
		FROM interactions ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query interactions: %w", err)
	}
	defer rows.Close()

	var records []interaction.Record
	for rows.Next() {
		rec, err := scanInteraction(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInteraction(row rowScanner) (interaction.Record, error) {
	var (
		rec       interaction.Record
		rating    string
		createdAt string
	)
	if err := row.Scan(&rec.ID, &rec.Question, &rec.Answer, &rating, &createdAt); err != nil {
		return interaction.Record{}, err
	}
	parsed, err := interaction.ParseRating(rating)
	if err != nil {
		return interaction.Record{}, fmt.Errorf("record %d: %w", rec.ID, err)
	}
	rec.Rating = parsed
	ts, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return interaction.Record{}, fmt.Errorf("record %d: parse created_at: %w", rec.ID, err)
	}
	rec.CreatedAt = ts
	return rec, nil
}

var _ interaction.Store = (*SQLiteStore)(nil)

package interactionstore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/dotazy/faqbot/internal/domain/interaction"
	"github.com/dotazy/faqbot/pkg/util"
)

const lockRetryDelay = 50 * time.Millisecond

// CSVFileStore persists interactions in a local CSV file. Every mutation
// is a whole-dataset read-modify-write: there is no per-record
// atomicity, so a process mutex plus an advisory file lock serialize the
// full cycle. Concurrent writers outside those locks can lose updates;
// the Store contract deliberately does not promise more here.
type CSVFileStore struct {
	path string
	mu   sync.Mutex
	lock *flock.Flock
}

// NewCSVFileStore opens (or creates) the CSV file at path.
func NewCSVFileStore(path string) (*CSVFileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	s := &CSVFileStore{
		path: path,
		lock: flock.New(path + ".lock"),
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		empty, err := encodeRecords(nil)
		if err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, empty, 0o644); err != nil {
			return nil, fmt.Errorf("initialize csv file: %w", err)
		}
	}
	return s, nil
}

// Append implements interaction.Store.
func (s *CSVFileStore) Append(ctx context.Context, question, answer string) (int64, error) {
	var id int64
	err := s.withDataset(ctx, func(records []interaction.Record) ([]interaction.Record, error) {
		id = nextRecordID(records)
		return append(records, interaction.Record{
			ID:        id,
			Question:  question,
			Answer:    answer,
			Rating:    interaction.RatingNone,
			CreatedAt: util.NowUTC(),
		}), nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateRating implements interaction.Store.
func (s *CSVFileStore) UpdateRating(ctx context.Context, id int64, rating interaction.Rating) error {
	return s.withDataset(ctx, func(records []interaction.Record) ([]interaction.Record, error) {
		for i := range records {
			if records[i].ID == id {
				records[i].Rating = rating
				return records, nil
			}
		}
		return nil, interaction.ErrNotFound
	})
}

// Get implements interaction.Store.
func (s *CSVFileStore) Get(ctx context.Context, id int64) (interaction.Record, error) {
	records, err := s.readDataset(ctx)
	if err != nil {
		return interaction.Record{}, err
	}
	for _, rec := range records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return interaction.Record{}, interaction.ErrNotFound
}

// Recent implements interaction.Store.
func (s *CSVFileStore) Recent(ctx context.Context, limit int) ([]interaction.Record, error) {
	records, err := s.readDataset(ctx)
	if err != nil {
		return nil, err
	}
	return recentOf(records, limit), nil
}

// withDataset runs one read-modify-write cycle under both locks. A nil
// change from mutate means "keep the dataset as is".
func (s *CSVFileStore) withDataset(ctx context.Context, mutate func([]interaction.Record) ([]interaction.Record, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	locked, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire file lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("file lock held elsewhere: %s", s.lock.Path())
	}
	defer s.lock.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}
	updated, err := mutate(records)
	if err != nil {
		return err
	}
	return s.save(updated)
}

func (s *CSVFileStore) readDataset(ctx context.Context) ([]interaction.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	locked, err := s.lock.TryRLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire file lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("file lock held elsewhere: %s", s.lock.Path())
	}
	defer s.lock.Unlock()

	return s.load()
}

func (s *CSVFileStore) load() ([]interaction.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read interaction file: %w", err)
	}
	records, err := decodeRecords(data)
	if err != nil {
		return nil, fmt.Errorf("decode interaction file: %w", err)
	}
	return records, nil
}

func (s *CSVFileStore) save(records []interaction.Record) error {
	data, err := encodeRecords(records)
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write interaction file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace interaction file: %w", err)
	}
	return nil
}

var _ interaction.Store = (*CSVFileStore)(nil)

package interaction

import "context"

// Store is the persistence contract shared by every interaction backend.
//
// File-backed implementations rewrite the whole dataset on each mutation
// and only serialize writers within a single process; the SQL backends
// get row-level atomicity from the database engine. Callers must not
// assume more than the weakest backend provides.
type Store interface {
	// Append durably persists a new record with rating none and returns
	// its assigned id. A failed write must surface as an error.
	Append(ctx context.Context, question, answer string) (int64, error)
	// UpdateRating overwrites the rating of an existing record.
	// Returns ErrNotFound when id is unknown. Last write wins.
	UpdateRating(ctx context.Context, id int64, rating Rating) error
	// Get fetches a single record by id, or ErrNotFound.
	Get(ctx context.Context, id int64) (Record, error)
	// Recent returns up to limit records, newest first.
	Recent(ctx context.Context, limit int) ([]Record, error)
}

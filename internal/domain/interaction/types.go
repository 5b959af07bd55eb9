package interaction

import (
	"errors"
	"time"
)

// Rating is the revisable feedback value attached to a logged interaction.
type Rating string

const (
	RatingUp   Rating = "up"
	RatingDown Rating = "down"
	RatingNone Rating = "none"
)

var (
	// ErrNotFound is returned when a record id does not exist.
	ErrNotFound = errors.New("interaction not found")
	// ErrInvalidRating is returned for values outside the rating enum.
	ErrInvalidRating = errors.New("invalid rating")
)

// ParseRating validates a raw rating value against the enum domain.
func ParseRating(raw string) (Rating, error) {
	switch Rating(raw) {
	case RatingUp, RatingDown, RatingNone:
		return Rating(raw), nil
	default:
		return "", ErrInvalidRating
	}
}

// Record is one logged query outcome. The id is store-assigned and
// immutable; only Rating may change after creation.
type Record struct {
	ID        int64     `json:"id"`
	Question  string    `json:"question"`
	Answer    string    `json:"answer"`
	Rating    Rating    `json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
}

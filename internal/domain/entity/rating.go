package entity

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MinRatingValue is the lowest accepted score.
	MinRatingValue RatingValue = 1
	// MaxRatingValue is the highest accepted score.
	MaxRatingValue RatingValue = 5
)

// RatingValue is a score in [MinRatingValue, MaxRatingValue].
type RatingValue int

// IsValid checks if the value lies in the accepted range.
func (v RatingValue) IsValid() bool {
	return v >= MinRatingValue && v <= MaxRatingValue
}

// Rating is one principal's scored opinion of one store.
// At most one Rating exists per (UserID, StoreID); a revision keeps ID and
// replaces Value and CreatedAt.
type Rating struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	StoreID   uuid.UUID
	Value     RatingValue
	CreatedAt time.Time // Set on creation and on every revision.
}

// Revise overwrites the score in place.
func (r *Rating) Revise(value RatingValue, at time.Time) {
	r.Value = value
	r.CreatedAt = at
}

// Aggregate is the derived count and arithmetic mean of a store's ratings.
type Aggregate struct {
	Count   int
	Average float64
}

// ComputeAggregate derives the aggregate from the full rating set of one store.
// An empty set yields the zero Aggregate.
func ComputeAggregate(ratings []*Rating) Aggregate {
	if len(ratings) == 0 {
		return Aggregate{}
	}

	sum := 0
	for _, r := range ratings {
		sum += int(r.Value)
	}

	return Aggregate{
		Count:   len(ratings),
		Average: float64(sum) / float64(len(ratings)),
	}
}

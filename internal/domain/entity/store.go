package entity

import (
	"time"

	"github.com/google/uuid"
)

// Store is a rateable business listed in the directory.
// RatingCount and AverageRating are derived from the store's ratings and are
// only ever written by recomputing an Aggregate.
type Store struct {
	ID            uuid.UUID
	Name          string
	Email         string
	Address       string
	OwnerID       uuid.UUID
	RatingCount   int
	AverageRating float64
	CreatedAt     time.Time
}

// Aggregate returns the derived rating statistics currently stored on the store.
func (s *Store) Aggregate() Aggregate {
	return Aggregate{Count: s.RatingCount, Average: s.AverageRating}
}

// ApplyAggregate overwrites the derived fields with a freshly computed aggregate.
func (s *Store) ApplyAggregate(agg Aggregate) {
	s.RatingCount = agg.Count
	s.AverageRating = agg.Average
}

package repository

import (
	"context"
	"errors"

	"storerating/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrRatingNotFound is returned when a (user, store) pair has no rating yet.
	ErrRatingNotFound = errors.New("rating not found")
	// ErrRatingExists is returned when creating a second rating for the same pair.
	ErrRatingExists = errors.New("rating already exists for this user and store")
)

// RatingRepository defines the persistence operations for ratings.
type RatingRepository interface {
	// FindByPair retrieves the rating a user gave a store.
	FindByPair(ctx context.Context, userID, storeID uuid.UUID) (*entity.Rating, error)

	// Create inserts a new rating. It fails with ErrRatingExists if the pair is taken.
	Create(ctx context.Context, rating *entity.Rating) error

	// Update overwrites value and timestamp of an existing rating without changing its position.
	Update(ctx context.Context, rating *entity.Rating) error

	// ListByStore returns a store's ratings in insertion order.
	ListByStore(ctx context.Context, storeID uuid.UUID) ([]*entity.Rating, error)

	Count(ctx context.Context) (int64, error)
}

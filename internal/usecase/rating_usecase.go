package usecase

import (
	"context"

	"storerating/internal/domain/entity"

	"github.com/google/uuid"
)

// RatingUsecase is the ledger owning ratings and their per-store aggregates.
// Every operation either succeeds with its state change or fails with none.
type RatingUsecase interface {
	// SubmitRating inserts the first rating of a (user, store) pair or revises the
	// existing one in place, then recomputes the store aggregate.
	SubmitRating(ctx context.Context, userID, storeID uuid.UUID, value entity.RatingValue) (*entity.Rating, error)

	// GetUserRatingFor returns nil without error when the user has not rated the store.
	GetUserRatingFor(ctx context.Context, userID, storeID uuid.UUID) (*entity.Rating, error)

	// ListRatingsForStore returns ratings in insertion order; revisions do not reorder.
	ListRatingsForStore(ctx context.Context, storeID uuid.UUID) ([]*entity.Rating, error)

	AggregateFor(ctx context.Context, storeID uuid.UUID) (entity.Aggregate, error)
}

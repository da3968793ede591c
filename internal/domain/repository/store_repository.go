package repository

import (
	"context"
	"errors"

	"storerating/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrStoreNotFound is returned when no store matches the lookup.
var ErrStoreNotFound = errors.New("store not found")

// StoreRepository defines the persistence operations for stores.
type StoreRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Store, error)

	// LockByID reads a store and holds its row until the enclosing transaction ends,
	// serialising aggregate recomputes of the same store.
	LockByID(ctx context.Context, id uuid.UUID) (*entity.Store, error)

	// FindByOwnerID retrieves the store owned by a store owner.
	FindByOwnerID(ctx context.Context, ownerID uuid.UUID) (*entity.Store, error)

	Create(ctx context.Context, store *entity.Store) error

	// UpdateAggregate overwrites the derived rating fields of a store.
	// It is the only write path for RatingCount and AverageRating.
	UpdateAggregate(ctx context.Context, storeID uuid.UUID, agg entity.Aggregate) error

	// List returns every store in insertion order.
	List(ctx context.Context) ([]*entity.Store, error)

	Count(ctx context.Context) (int64, error)
}

package memory

import (
	"context"

	"storerating/internal/domain/entity"
	"storerating/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type storeRepository struct {
	src source
}

// NewStoreRepository is the constructor for storeRepository.
func NewStoreRepository(db *Database) repository.StoreRepository {
	return &storeRepository{src: db}
}

func (repo *storeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	var found *entity.Store
	err := repo.src.read(ctx, func(t *tables) error {
		s, ok := t.stores[id]
		if !ok {
			return repository.ErrStoreNotFound
		}
		found = &s

		return nil
	})

	return found, err
}

// LockByID is FindByID: a transaction already holds the database write lock.
func (repo *storeRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	return repo.FindByID(ctx, id)
}

func (repo *storeRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) (*entity.Store, error) {
	var found *entity.Store
	err := repo.src.read(ctx, func(t *tables) error {
		for _, id := range t.storeOrder {
			if s := t.stores[id]; s.OwnerID == ownerID {
				found = &s

				return nil
			}
		}

		return repository.ErrStoreNotFound
	})

	return found, err
}

// Create stores a new store, assigning an ID when none is set.
func (repo *storeRepository) Create(ctx context.Context, store *entity.Store) error {
	return repo.src.write(ctx, func(t *tables) error {
		if store.ID == uuid.Nil {
			store.ID = uuid.New()
		}
		if _, exists := t.stores[store.ID]; exists {
			return errors.Errorf("store %s already exists", store.ID)
		}

		t.stores[store.ID] = *store
		t.storeOrder = append(t.storeOrder, store.ID)

		return nil
	})
}

func (repo *storeRepository) UpdateAggregate(ctx context.Context, storeID uuid.UUID, agg entity.Aggregate) error {
	return repo.src.write(ctx, func(t *tables) error {
		s, ok := t.stores[storeID]
		if !ok {
			return repository.ErrStoreNotFound
		}
		s.ApplyAggregate(agg)
		t.stores[storeID] = s

		return nil
	})
}

func (repo *storeRepository) List(ctx context.Context) ([]*entity.Store, error) {
	var list []*entity.Store
	err := repo.src.read(ctx, func(t *tables) error {
		list = make([]*entity.Store, 0, len(t.storeOrder))
		for _, id := range t.storeOrder {
			s := t.stores[id]
			list = append(list, &s)
		}

		return nil
	})

	return list, err
}

func (repo *storeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := repo.src.read(ctx, func(t *tables) error {
		n = int64(len(t.stores))

		return nil
	})

	return n, err
}

package postgres

import (
	"context"

	"storerating/internal/domain/entity"
	"storerating/internal/domain/repository"
	"storerating/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type storeRepository struct {
	db *gorm.DB
}

// NewStoreRepository is the constructor for storeRepository.
func NewStoreRepository(db *gorm.DB) repository.StoreRepository {
	return &storeRepository{db: db}
}

func (repo *storeRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	return repo.findOne(repo.db.WithContext(ctx), "id = ?", id)
}

// LockByID selects the store row FOR UPDATE.
func (repo *storeRepository) LockByID(ctx context.Context, id uuid.UUID) (*entity.Store, error) {
	tx := repo.db.WithContext(ctx).Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})

	return repo.findOne(tx, "id = ?", id)
}

func (repo *storeRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) (*entity.Store, error) {
	return repo.findOne(repo.db.WithContext(ctx), "owner_id = ?", ownerID)
}

func (repo *storeRepository) findOne(tx *gorm.DB, query string, arg any) (*entity.Store, error) {
	var storeM model.StoreModel
	err := tx.Where(query, arg).First(&storeM).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrStoreNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find store")
	}

	return toStoreDomain(&storeM), nil
}

func (repo *storeRepository) Create(ctx context.Context, store *entity.Store) error {
	if store.ID == uuid.Nil {
		store.ID = uuid.New()
	}

	storeM := &model.StoreModel{
		ID:            store.ID,
		Name:          store.Name,
		Email:         store.Email,
		Address:       store.Address,
		OwnerID:       store.OwnerID,
		RatingCount:   store.RatingCount,
		AverageRating: store.AverageRating,
		CreatedAt:     store.CreatedAt,
	}
	if err := repo.db.WithContext(ctx).Create(storeM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrPrincipalNotFound
		}

		return errors.Wrap(err, "failed to create store")
	}

	store.CreatedAt = storeM.CreatedAt

	return nil
}

// UpdateAggregate overwrites the derived rating columns only.
func (repo *storeRepository) UpdateAggregate(ctx context.Context, storeID uuid.UUID, agg entity.Aggregate) error {
	result := repo.db.WithContext(ctx).
		Model(&model.StoreModel{}).
		Where("id = ?", storeID).
		Updates(map[string]any{
			"rating_count":   agg.Count,
			"average_rating": agg.Average,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update store aggregate")
	}
	if result.RowsAffected == 0 {
		return repository.ErrStoreNotFound
	}

	return nil
}

func (repo *storeRepository) List(ctx context.Context) ([]*entity.Store, error) {
	var storeMs []*model.StoreModel
	if err := repo.db.WithContext(ctx).Order("position").Find(&storeMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list stores")
	}

	stores := make([]*entity.Store, 0, len(storeMs))
	for _, storeM := range storeMs {
		stores = append(stores, toStoreDomain(storeM))
	}

	return stores, nil
}

func (repo *storeRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := repo.db.WithContext(ctx).Model(&model.StoreModel{}).Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count stores")
	}

	return n, nil
}

func toStoreDomain(data *model.StoreModel) *entity.Store {
	return &entity.Store{
		ID:            data.ID,
		Name:          data.Name,
		Email:         data.Email,
		Address:       data.Address,
		OwnerID:       data.OwnerID,
		RatingCount:   data.RatingCount,
		AverageRating: data.AverageRating,
		CreatedAt:     data.CreatedAt,
	}
}

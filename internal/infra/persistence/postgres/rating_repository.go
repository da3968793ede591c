package postgres

import (
	"context"

	"storerating/internal/domain/entity"
	"storerating/internal/domain/repository"
	"storerating/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type ratingRepository struct {
	db *gorm.DB
}

// NewRatingRepository is the constructor for ratingRepository.
func NewRatingRepository(db *gorm.DB) repository.RatingRepository {
	return &ratingRepository{db: db}
}

func (repo *ratingRepository) FindByPair(ctx context.Context, userID, storeID uuid.UUID) (*entity.Rating, error) {
	var ratingM model.RatingModel
	err := repo.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		First(&ratingM).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrRatingNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find rating")
	}

	return toRatingDomain(&ratingM), nil
}

func (repo *ratingRepository) Create(ctx context.Context, rating *entity.Rating) error {
	if rating.ID == uuid.Nil {
		rating.ID = uuid.New()
	}

	ratingM := &model.RatingModel{
		ID:        rating.ID,
		UserID:    rating.UserID,
		StoreID:   rating.StoreID,
		Value:     int16(rating.Value),
		CreatedAt: rating.CreatedAt,
	}
	if err := repo.db.WithContext(ctx).Create(ratingM).Error; err != nil {
		switch {
		case isUniqueConstraintViolation(err):
			return repository.ErrRatingExists
		case isForeignKeyConstraintViolation(err):
			return repository.ErrStoreNotFound
		}

		return errors.Wrap(err, "failed to create rating")
	}

	return nil
}

// Update rewrites value and timestamp; position keeps the original insertion slot.
func (repo *ratingRepository) Update(ctx context.Context, rating *entity.Rating) error {
	result := repo.db.WithContext(ctx).
		Model(&model.RatingModel{}).
		Where("id = ? AND user_id = ? AND store_id = ?", rating.ID, rating.UserID, rating.StoreID).
		Updates(map[string]any{
			"value":      int16(rating.Value),
			"created_at": rating.CreatedAt,
		})
	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update rating")
	}
	if result.RowsAffected == 0 {
		return repository.ErrRatingNotFound
	}

	return nil
}

func (repo *ratingRepository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]*entity.Rating, error) {
	var ratingMs []*model.RatingModel
	err := repo.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("position").
		Find(&ratingMs).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to list ratings")
	}

	ratings := make([]*entity.Rating, 0, len(ratingMs))
	for _, ratingM := range ratingMs {
		ratings = append(ratings, toRatingDomain(ratingM))
	}

	return ratings, nil
}

func (repo *ratingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := repo.db.WithContext(ctx).Model(&model.RatingModel{}).Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count ratings")
	}

	return n, nil
}

func toRatingDomain(data *model.RatingModel) *entity.Rating {
	return &entity.Rating{
		ID:        data.ID,
		UserID:    data.UserID,
		StoreID:   data.StoreID,
		Value:     entity.RatingValue(data.Value),
		CreatedAt: data.CreatedAt,
	}
}

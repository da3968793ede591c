package memory

import (
	"context"

	"storerating/internal/domain/entity"
	"storerating/internal/domain/repository"

	"github.com/google/uuid"
)

type ratingRepository struct {
	src source
}

// NewRatingRepository is the constructor for ratingRepository.
func NewRatingRepository(db *Database) repository.RatingRepository {
	return &ratingRepository{src: db}
}

func (repo *ratingRepository) FindByPair(ctx context.Context, userID, storeID uuid.UUID) (*entity.Rating, error) {
	var found *entity.Rating
	err := repo.src.read(ctx, func(t *tables) error {
		id, ok := t.pairs[ratingPair{userID: userID, storeID: storeID}]
		if !ok {
			return repository.ErrRatingNotFound
		}
		r := t.ratings[id]
		found = &r

		return nil
	})

	return found, err
}

// Create appends a rating; the (user, store) pair must be free.
func (repo *ratingRepository) Create(ctx context.Context, rating *entity.Rating) error {
	return repo.src.write(ctx, func(t *tables) error {
		pair := ratingPair{userID: rating.UserID, storeID: rating.StoreID}
		if _, taken := t.pairs[pair]; taken {
			return repository.ErrRatingExists
		}
		if rating.ID == uuid.Nil {
			rating.ID = uuid.New()
		}

		t.ratings[rating.ID] = *rating
		t.ratingOrder = append(t.ratingOrder, rating.ID)
		t.pairs[pair] = rating.ID

		return nil
	})
}

// Update rewrites value and timestamp in place. The pair of a rating never changes.
func (repo *ratingRepository) Update(ctx context.Context, rating *entity.Rating) error {
	return repo.src.write(ctx, func(t *tables) error {
		current, ok := t.ratings[rating.ID]
		if !ok || current.UserID != rating.UserID || current.StoreID != rating.StoreID {
			return repository.ErrRatingNotFound
		}

		current.Revise(rating.Value, rating.CreatedAt)
		t.ratings[rating.ID] = current

		return nil
	})
}

func (repo *ratingRepository) ListByStore(ctx context.Context, storeID uuid.UUID) ([]*entity.Rating, error) {
	var list []*entity.Rating
	err := repo.src.read(ctx, func(t *tables) error {
		list = []*entity.Rating{}
		for _, id := range t.ratingOrder {
			if r := t.ratings[id]; r.StoreID == storeID {
				list = append(list, &r)
			}
		}

		return nil
	})

	return list, err
}

func (repo *ratingRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := repo.src.read(ctx, func(t *tables) error {
		n = int64(len(t.ratings))

		return nil
	})

	return n, err
}

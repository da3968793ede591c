package impl

import (
	"context"
	"log/slog"
	"strconv"

	deliverycontext "storerating/internal/delivery/context"
	"storerating/internal/domain/entity"
	domainerrors "storerating/internal/domain/errors"
	"storerating/internal/domain/repository"
	"storerating/internal/domain/service"
	"storerating/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// ratingService implements the RatingUsecase interface.
type ratingService struct {
	txManager  repository.TransactionManager
	ratingRepo repository.RatingRepository
	storeRepo  repository.StoreRepository
	clock      service.Clock
	logger     *slog.Logger
}

// RatingServiceParams holds dependencies for RatingService, injected by Fx.
type RatingServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	RatingRepo repository.RatingRepository
	StoreRepo  repository.StoreRepository
	Clock      service.Clock
	Logger     *slog.Logger
}

// NewRatingService is the constructor for ratingService.
func NewRatingService(params RatingServiceParams) usecase.RatingUsecase {
	return &ratingService{
		txManager:  params.TxManager,
		ratingRepo: params.RatingRepo,
		storeRepo:  params.StoreRepo,
		clock:      params.Clock,
		logger:     params.Logger,
	}
}

func (srv *ratingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// SubmitRating upserts the rating of the (userID, storeID) pair and recomputes the
// store aggregate from the full rating set, all in one transaction.
func (srv *ratingService) SubmitRating(ctx context.Context, userID, storeID uuid.UUID, value entity.RatingValue) (*entity.Rating, error) {
	if !value.IsValid() {
		return nil, domainerrors.ErrInvalidRatingValue.WithDetails("got " + strconv.Itoa(int(value)))
	}

	var saved *entity.Rating
	var agg entity.Aggregate
	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		ratingRepo := repoFactory.RatingRepo()
		storeRepo := repoFactory.StoreRepo()

		if _, err := repoFactory.PrincipalRepo().FindByID(ctx, userID); err != nil {
			return lookupError(err)
		}
		// Held until commit, so concurrent submissions for this store recompute in turn.
		if _, err := storeRepo.LockByID(ctx, storeID); err != nil {
			return lookupError(err)
		}

		now := srv.clock.Now()
		rating, err := ratingRepo.FindByPair(ctx, userID, storeID)
		switch {
		case errors.Is(err, repository.ErrRatingNotFound):
			rating = &entity.Rating{
				ID:        uuid.New(),
				UserID:    userID,
				StoreID:   storeID,
				Value:     value,
				CreatedAt: now,
			}
			if err := ratingRepo.Create(ctx, rating); err != nil {
				return storageError(err, "failed to create rating")
			}
		case err != nil:
			return storageError(err, "failed to find rating")
		default:
			rating.Revise(value, now)
			if err := ratingRepo.Update(ctx, rating); err != nil {
				return storageError(err, "failed to update rating")
			}
		}

		ratings, err := ratingRepo.ListByStore(ctx, storeID)
		if err != nil {
			return storageError(err, "failed to list store ratings")
		}

		agg = entity.ComputeAggregate(ratings)
		if err := storeRepo.UpdateAggregate(ctx, storeID, agg); err != nil {
			return storageError(err, "failed to update store aggregate")
		}

		saved = rating

		return nil
	})
	if err != nil {
		return nil, err
	}

	srv.log(ctx).Debug("Rating submitted",
		slog.Any("storeID", storeID),
		slog.Any("userID", userID),
		slog.Int("value", int(value)),
		slog.Int("count", agg.Count),
		slog.Float64("average", agg.Average),
	)

	return saved, nil
}

// lookupError maps a failed reference lookup to ErrNotFound or a storage error.
func lookupError(err error) error {
	switch {
	case errors.Is(err, repository.ErrPrincipalNotFound):
		return domainerrors.ErrNotFound.WithDetails("user does not exist")
	case errors.Is(err, repository.ErrStoreNotFound):
		return domainerrors.ErrNotFound.WithDetails("store does not exist")
	default:
		return storageError(err, "failed to look up reference")
	}
}

func (srv *ratingService) GetUserRatingFor(ctx context.Context, userID, storeID uuid.UUID) (*entity.Rating, error) {
	rating, err := srv.ratingRepo.FindByPair(ctx, userID, storeID)
	if errors.Is(err, repository.ErrRatingNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageError(err, "failed to find rating")
	}

	return rating, nil
}

func (srv *ratingService) ListRatingsForStore(ctx context.Context, storeID uuid.UUID) ([]*entity.Rating, error) {
	if _, err := srv.storeRepo.FindByID(ctx, storeID); err != nil {
		return nil, lookupError(err)
	}

	ratings, err := srv.ratingRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, storageError(err, "failed to list store ratings")
	}

	return ratings, nil
}

func (srv *ratingService) AggregateFor(ctx context.Context, storeID uuid.UUID) (entity.Aggregate, error) {
	store, err := srv.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		return entity.Aggregate{}, lookupError(err)
	}

	return store.Aggregate(), nil
}

package impl

import (
	"context"
	"log/slog"

	deliverycontext "storerating/internal/delivery/context"
	"storerating/internal/domain/entity"
	domainerrors "storerating/internal/domain/errors"
	"storerating/internal/domain/repository"
	"storerating/internal/domain/service"
	"storerating/internal/usecase"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// directoryService implements the DirectoryUsecase interface.
type directoryService struct {
	txManager     repository.TransactionManager
	principalRepo repository.PrincipalRepository
	storeRepo     repository.StoreRepository
	ratingRepo    repository.RatingRepository
	hasher        service.PasswordHasher
	creator       *principalCreator
	clock         service.Clock
	validate      *validator.Validate
	logger        *slog.Logger
}

// DirectoryServiceParams holds dependencies for DirectoryService, injected by Fx.
type DirectoryServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	PrincipalRepo repository.PrincipalRepository
	StoreRepo     repository.StoreRepository
	RatingRepo    repository.RatingRepository
	Hasher        service.PasswordHasher
	Clock         service.Clock
	Logger        *slog.Logger
}

// NewDirectoryService is the constructor for directoryService.
func NewDirectoryService(params DirectoryServiceParams) usecase.DirectoryUsecase {
	return &directoryService{
		txManager:     params.TxManager,
		principalRepo: params.PrincipalRepo,
		storeRepo:     params.StoreRepo,
		ratingRepo:    params.RatingRepo,
		hasher:        params.Hasher,
		creator: &principalCreator{
			txManager: params.TxManager,
			hasher:    params.Hasher,
			clock:     params.Clock,
		},
		clock:    params.Clock,
		validate: newValidator(),
		logger:   params.Logger,
	}
}

func (srv *directoryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

func (srv *directoryService) ListStores(ctx context.Context) ([]*entity.Store, error) {
	stores, err := srv.storeRepo.List(ctx)
	if err != nil {
		return nil, storageError(err, "failed to list stores")
	}

	return stores, nil
}

func (srv *directoryService) ListPrincipals(ctx context.Context) ([]*entity.Principal, error) {
	principals, err := srv.principalRepo.List(ctx)
	if err != nil {
		return nil, storageError(err, "failed to list principals")
	}

	return principals, nil
}

// PlatformStats counts principals, stores and ratings.
func (srv *directoryService) PlatformStats(ctx context.Context) (*usecase.PlatformStats, error) {
	principals, err := srv.principalRepo.Count(ctx)
	if err != nil {
		return nil, storageError(err, "failed to count principals")
	}

	stores, err := srv.storeRepo.Count(ctx)
	if err != nil {
		return nil, storageError(err, "failed to count stores")
	}

	ratings, err := srv.ratingRepo.Count(ctx)
	if err != nil {
		return nil, storageError(err, "failed to count ratings")
	}

	return &usecase.PlatformStats{
		TotalPrincipals: principals,
		TotalStores:     stores,
		TotalRatings:    ratings,
	}, nil
}

// OwnerOverview returns the owner's store with every rating joined to its rater.
func (srv *directoryService) OwnerOverview(ctx context.Context, ownerID uuid.UUID) (*usecase.OwnerOverview, error) {
	store, err := srv.storeRepo.FindByOwnerID(ctx, ownerID)
	if errors.Is(err, repository.ErrStoreNotFound) {
		return nil, domainerrors.ErrNotFound.WithDetails("owner has no store")
	}
	if err != nil {
		return nil, storageError(err, "failed to find owned store")
	}

	ratings, err := srv.ratingRepo.ListByStore(ctx, store.ID)
	if err != nil {
		return nil, storageError(err, "failed to list store ratings")
	}

	overview := &usecase.OwnerOverview{
		Store:   store,
		Ratings: make([]usecase.RatingWithRater, 0, len(ratings)),
	}
	for _, rating := range ratings {
		row := usecase.RatingWithRater{Rating: rating}

		rater, err := srv.principalRepo.FindByID(ctx, rating.UserID)
		switch {
		case err == nil:
			row.RaterName = rater.Name
			row.RaterEmail = rater.Email
		case !errors.Is(err, repository.ErrPrincipalNotFound):
			return nil, storageError(err, "failed to find rater")
		}

		overview.Ratings = append(overview.Ratings, row)
	}

	return overview, nil
}

// CreatePrincipal adds a principal with any valid role.
func (srv *directoryService) CreatePrincipal(ctx context.Context, input usecase.CreatePrincipalInput) (*entity.Principal, error) {
	if err := validateInput(srv.validate, input); err != nil {
		return nil, err
	}
	if err := srv.hasher.ValidatePasswordStrength(input.Password); err != nil {
		return nil, err
	}

	principal := &entity.Principal{
		ID:      input.ID,
		Name:    input.Name,
		Email:   input.Email,
		Address: input.Address,
		Role:    input.Role,
	}
	if err := srv.creator.create(ctx, principal, input.Password); err != nil {
		return nil, errors.Wrap(err, "failed to create principal")
	}

	srv.log(ctx).Debug("Principal created", slog.Any("principalID", principal.ID), slog.Any("role", principal.Role))

	return principal, nil
}

// ProvisionStore creates the single store of a store owner and links it to the owner.
func (srv *directoryService) ProvisionStore(ctx context.Context, input usecase.ProvisionStoreInput) (*entity.Store, error) {
	if err := validateInput(srv.validate, input); err != nil {
		return nil, err
	}

	storeID := input.ID
	if storeID == uuid.Nil {
		storeID = uuid.New()
	}

	store := &entity.Store{
		ID:        storeID,
		Name:      input.Name,
		Email:     input.Email,
		Address:   input.Address,
		OwnerID:   input.OwnerID,
		CreatedAt: srv.clock.Now(),
	}

	err := srv.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		principalRepo := repoFactory.PrincipalRepo()
		storeRepo := repoFactory.StoreRepo()

		owner, err := principalRepo.FindByID(ctx, input.OwnerID)
		if errors.Is(err, repository.ErrPrincipalNotFound) {
			return domainerrors.ErrNotFound.WithDetails("owner does not exist")
		}
		if err != nil {
			return storageError(err, "failed to find owner")
		}
		if owner.Role != entity.RoleStoreOwner {
			return domainerrors.ErrForbidden.WithDetails("only store owners can own a store")
		}
		if owner.OwnedStoreID != nil {
			return domainerrors.ErrConflict.WithDetails("owner already has a store")
		}

		if err := storeRepo.Create(ctx, store); err != nil {
			return storageError(err, "failed to create store")
		}

		owner.OwnedStoreID = &store.ID
		if err := principalRepo.Update(ctx, owner); err != nil {
			return storageError(err, "failed to link store to owner")
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to provision store")
	}

	srv.log(ctx).Debug("Store provisioned", slog.Any("storeID", store.ID), slog.Any("ownerID", input.OwnerID))

	return store, nil
}

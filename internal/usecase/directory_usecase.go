package usecase

import (
	"context"

	"storerating/internal/domain/entity"

	"github.com/google/uuid"
)

// CreatePrincipalInput is the administrative form of registration; any role is allowed.
// A zero ID is replaced by a fresh one.
type CreatePrincipalInput struct {
	ID       uuid.UUID   `validate:"-"`
	Name     string      `validate:"required,max=100"`
	Email    string      `validate:"required,email,max=255"`
	Address  string      `validate:"required,max=400"`
	Password string      `validate:"required"`
	Role     entity.Role `validate:"required,oneof=admin customer store_owner"`
}

// ProvisionStoreInput describes a new store and the owner it belongs to.
// A zero ID is replaced by a fresh one.
type ProvisionStoreInput struct {
	ID      uuid.UUID `validate:"-"`
	OwnerID uuid.UUID `validate:"required"`
	Name    string    `validate:"required,max=100"`
	Email   string    `validate:"required,email,max=255"`
	Address string    `validate:"required,max=400"`
}

// PlatformStats holds the platform-wide totals shown to administrators.
type PlatformStats struct {
	TotalPrincipals int64
	TotalStores     int64
	TotalRatings    int64
}

// RatingWithRater joins a rating with the profile of the principal who gave it.
// RaterName and RaterEmail are empty when the rater is no longer in the directory.
type RatingWithRater struct {
	Rating     *entity.Rating
	RaterName  string
	RaterEmail string
}

// OwnerOverview is the owned-store view of a store owner.
type OwnerOverview struct {
	Store   *entity.Store
	Ratings []RatingWithRater
}

// DirectoryUsecase serves the read models of the three dashboards and the
// provisioning actions that populate the directory.
type DirectoryUsecase interface {
	ListStores(ctx context.Context) ([]*entity.Store, error)
	ListPrincipals(ctx context.Context) ([]*entity.Principal, error)
	PlatformStats(ctx context.Context) (*PlatformStats, error)
	OwnerOverview(ctx context.Context, ownerID uuid.UUID) (*OwnerOverview, error)

	CreatePrincipal(ctx context.Context, input CreatePrincipalInput) (*entity.Principal, error)
	ProvisionStore(ctx context.Context, input ProvisionStoreInput) (*entity.Store, error)
}

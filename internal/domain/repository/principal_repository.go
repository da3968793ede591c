// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"storerating/internal/domain/entity"

	"github.com/google/uuid"
)

var (
	// ErrPrincipalNotFound is returned when no principal matches the lookup.
	ErrPrincipalNotFound = errors.New("principal not found")
	// ErrEmailTaken is returned when a principal with the same email already exists.
	ErrEmailTaken = errors.New("email already taken")
)

// PrincipalRepository defines the standard operations for principal persistence.
type PrincipalRepository interface {
	// FindByID retrieves a single principal by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Principal, error)

	// FindByEmail retrieves a single principal by exact, case-sensitive email.
	FindByEmail(ctx context.Context, email string) (*entity.Principal, error)

	// Create persists a new principal. The email must not be taken.
	Create(ctx context.Context, principal *entity.Principal) error

	// Update modifies an existing principal.
	Update(ctx context.Context, principal *entity.Principal) error

	// List returns every principal in insertion order.
	List(ctx context.Context) ([]*entity.Principal, error)

	// Count returns the number of registered principals.
	Count(ctx context.Context) (int64, error)
}

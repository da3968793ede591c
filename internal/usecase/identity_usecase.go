// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"

	"storerating/internal/domain/entity"
)

// --- Input DTOs ---

// LoginInput defines the data required for a principal to log in.
type LoginInput struct {
	Email    string
	Password string
}

// RegisterInput defines the profile supplied when a customer signs up.
type RegisterInput struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email,max=255"`
	Address  string `validate:"required,max=400"`
	Password string `validate:"required"`
}

// ChangeCredentialInput carries the replacement password for the active principal.
type ChangeCredentialInput struct {
	NewPassword string
}

// IdentityUsecase authenticates principals and tracks the single active session.
//
// Login, Register and ChangeCredential wait a fixed artificial latency before they
// touch any state. They cannot be cancelled once issued, and concurrent calls are not
// deduplicated: callers that allow double submits must guard against them.
type IdentityUsecase interface {
	Login(ctx context.Context, input LoginInput) (*entity.Principal, error)
	Register(ctx context.Context, input RegisterInput) (*entity.Principal, error)

	// RestoreSession returns the active principal, reading the persisted snapshot when
	// nothing is active in memory. Missing or unreadable snapshots yield nil.
	RestoreSession(ctx context.Context) *entity.Principal

	// Logout clears the active session. Calling it while anonymous is a no-op.
	Logout(ctx context.Context)

	ChangeCredential(ctx context.Context, input ChangeCredentialInput) error

	// Current returns the in-memory active principal without consulting storage.
	Current() *entity.Principal
	State() entity.SessionState
}

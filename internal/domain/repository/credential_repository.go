package repository

import (
	"context"
	"errors"

	"storerating/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCredentialNotFound is returned when a principal has no stored credential.
var ErrCredentialNotFound = errors.New("credential not found")

// CredentialRepository stores password hashes separately from principal profiles.
type CredentialRepository interface {
	FindByPrincipalID(ctx context.Context, principalID uuid.UUID) (*entity.Credential, error)

	// Save inserts or replaces the credential of a principal.
	Save(ctx context.Context, credential *entity.Credential) error
}

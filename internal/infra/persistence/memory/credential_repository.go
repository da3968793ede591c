package memory

import (
	"context"

	"storerating/internal/domain/entity"
	"storerating/internal/domain/repository"

	"github.com/google/uuid"
)

type credentialRepository struct {
	src source
}

// NewCredentialRepository is the constructor for credentialRepository.
func NewCredentialRepository(db *Database) repository.CredentialRepository {
	return &credentialRepository{src: db}
}

func (repo *credentialRepository) FindByPrincipalID(ctx context.Context, principalID uuid.UUID) (*entity.Credential, error) {
	var found *entity.Credential
	err := repo.src.read(ctx, func(t *tables) error {
		c, ok := t.credentials[principalID]
		if !ok {
			return repository.ErrCredentialNotFound
		}
		found = &c

		return nil
	})

	return found, err
}

// Save requires the principal to exist.
func (repo *credentialRepository) Save(ctx context.Context, credential *entity.Credential) error {
	return repo.src.write(ctx, func(t *tables) error {
		if _, ok := t.principals[credential.PrincipalID]; !ok {
			return repository.ErrPrincipalNotFound
		}
		t.credentials[credential.PrincipalID] = *credential

		return nil
	})
}

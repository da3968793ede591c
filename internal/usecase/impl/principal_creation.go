package impl

import (
	"context"

	"storerating/internal/domain/entity"
	domainerrors "storerating/internal/domain/errors"
	"storerating/internal/domain/repository"
	"storerating/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// principalCreator is the registration path shared by self sign-up and administrative creation.
type principalCreator struct {
	txManager repository.TransactionManager
	hasher    service.PasswordHasher
	clock     service.Clock
}

// create stores principal and a credential for password in one transaction.
// The password must already satisfy the strength policy. A zero principal ID is assigned.
func (c *principalCreator) create(ctx context.Context, principal *entity.Principal, password string) error {
	hash, err := c.hasher.Hash(password)
	if err != nil {
		return errors.Wrap(err, "failed to hash password")
	}

	now := c.clock.Now()
	if principal.ID == uuid.Nil {
		principal.ID = uuid.New()
	}
	principal.CreatedAt = now

	return c.txManager.Execute(ctx, func(repoFactory repository.RepositoryFactory) error {
		principalRepo := repoFactory.PrincipalRepo()

		_, err := principalRepo.FindByEmail(ctx, principal.Email)
		if err == nil {
			return domainerrors.ErrDuplicateIdentity
		}
		if !errors.Is(err, repository.ErrPrincipalNotFound) {
			return storageError(err, "failed to look up email")
		}

		if err := principalRepo.Create(ctx, principal); err != nil {
			if errors.Is(err, repository.ErrEmailTaken) {
				return domainerrors.ErrDuplicateIdentity
			}

			return storageError(err, "failed to create principal")
		}

		credential := &entity.Credential{
			PrincipalID:  principal.ID,
			PasswordHash: hash,
			UpdatedAt:    now,
		}
		if err := repoFactory.CredentialRepo().Save(ctx, credential); err != nil {
			return storageError(err, "failed to save credential")
		}

		return nil
	})
}

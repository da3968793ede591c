package memory

import (
	"context"

	"storerating/internal/domain/repository"

	"github.com/pkg/errors"
)

type memoryTransactionManager struct {
	db *Database
}

type memoryRepositoryFactory struct {
	src *txSource
}

func (f *memoryRepositoryFactory) PrincipalRepo() repository.PrincipalRepository {
	return &principalRepository{src: f.src}
}

func (f *memoryRepositoryFactory) CredentialRepo() repository.CredentialRepository {
	return &credentialRepository{src: f.src}
}

func (f *memoryRepositoryFactory) StoreRepo() repository.StoreRepository {
	return &storeRepository{src: f.src}
}

func (f *memoryRepositoryFactory) RatingRepo() repository.RatingRepository {
	return &ratingRepository{src: f.src}
}

// NewTransactionManager is the constructor for memoryTransactionManager.
func NewTransactionManager(db *Database) repository.TransactionManager {
	return &memoryTransactionManager{db: db}
}

// Execute runs fn against a private copy of the tables and publishes the copy
// only if fn succeeds. A panic inside fn leaves the live tables untouched.
func (tm *memoryTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}

	tm.db.mu.Lock()
	defer tm.db.mu.Unlock()

	staged := &txSource{state: tm.db.state.clone()}
	if err := fn(&memoryRepositoryFactory{src: staged}); err != nil {
		return err
	}

	tm.db.state = staged.state

	return nil
}

package memory

import (
	"context"

	"storerating/internal/domain/entity"
	"storerating/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type principalRepository struct {
	src source
}

// NewPrincipalRepository is the constructor for principalRepository.
func NewPrincipalRepository(db *Database) repository.PrincipalRepository {
	return &principalRepository{src: db}
}

// FindByID retrieves a single principal by their unique ID.
func (repo *principalRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Principal, error) {
	var found *entity.Principal
	err := repo.src.read(ctx, func(t *tables) error {
		p, ok := t.principals[id]
		if !ok {
			return repository.ErrPrincipalNotFound
		}
		found = p.Clone()

		return nil
	})

	return found, err
}

// FindByEmail retrieves a single principal by exact email.
func (repo *principalRepository) FindByEmail(ctx context.Context, email string) (*entity.Principal, error) {
	var found *entity.Principal
	err := repo.src.read(ctx, func(t *tables) error {
		id, ok := t.emails[email]
		if !ok {
			return repository.ErrPrincipalNotFound
		}
		found = t.principals[id].Clone()

		return nil
	})

	return found, err
}

// Create stores a new principal, assigning an ID when none is set.
func (repo *principalRepository) Create(ctx context.Context, principal *entity.Principal) error {
	return repo.src.write(ctx, func(t *tables) error {
		if _, taken := t.emails[principal.Email]; taken {
			return repository.ErrEmailTaken
		}
		if principal.ID == uuid.Nil {
			principal.ID = uuid.New()
		}
		if _, exists := t.principals[principal.ID]; exists {
			return errors.Errorf("principal %s already exists", principal.ID)
		}

		t.principals[principal.ID] = principal.Clone()
		t.principalOrder = append(t.principalOrder, principal.ID)
		t.emails[principal.Email] = principal.ID

		return nil
	})
}

// Update replaces an existing principal, keeping the email index in step.
func (repo *principalRepository) Update(ctx context.Context, principal *entity.Principal) error {
	return repo.src.write(ctx, func(t *tables) error {
		current, ok := t.principals[principal.ID]
		if !ok {
			return repository.ErrPrincipalNotFound
		}
		if principal.Email != current.Email {
			if _, taken := t.emails[principal.Email]; taken {
				return repository.ErrEmailTaken
			}
			delete(t.emails, current.Email)
			t.emails[principal.Email] = principal.ID
		}

		t.principals[principal.ID] = principal.Clone()

		return nil
	})
}

// List returns every principal in insertion order.
func (repo *principalRepository) List(ctx context.Context) ([]*entity.Principal, error) {
	var list []*entity.Principal
	err := repo.src.read(ctx, func(t *tables) error {
		list = make([]*entity.Principal, 0, len(t.principalOrder))
		for _, id := range t.principalOrder {
			list = append(list, t.principals[id].Clone())
		}

		return nil
	})

	return list, err
}

// Count returns the number of principals.
func (repo *principalRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := repo.src.read(ctx, func(t *tables) error {
		n = int64(len(t.principals))

		return nil
	})

	return n, err
}

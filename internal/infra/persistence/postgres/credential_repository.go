package postgres

import (
	"context"

	"storerating/internal/domain/entity"
	"storerating/internal/domain/repository"
	"storerating/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type credentialRepository struct {
	db *gorm.DB
}

// NewCredentialRepository is the constructor for credentialRepository.
func NewCredentialRepository(db *gorm.DB) repository.CredentialRepository {
	return &credentialRepository{db: db}
}

func (repo *credentialRepository) FindByPrincipalID(ctx context.Context, principalID uuid.UUID) (*entity.Credential, error) {
	var credentialM model.CredentialModel
	err := repo.db.WithContext(ctx).Where("principal_id = ?", principalID).First(&credentialM).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrCredentialNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find credential")
	}

	return &entity.Credential{
		PrincipalID:  credentialM.PrincipalID,
		PasswordHash: credentialM.PasswordHash,
		UpdatedAt:    credentialM.UpdatedAt,
	}, nil
}

// Save inserts the credential or replaces the hash of the existing one.
func (repo *credentialRepository) Save(ctx context.Context, credential *entity.Credential) error {
	credentialM := &model.CredentialModel{
		PrincipalID:  credential.PrincipalID,
		PasswordHash: credential.PasswordHash,
		UpdatedAt:    credential.UpdatedAt,
	}

	err := repo.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "principal_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"password_hash", "updated_at"}),
		}).
		Create(credentialM).Error
	if err != nil {
		if isForeignKeyConstraintViolation(err) {
			return repository.ErrPrincipalNotFound
		}

		return errors.Wrap(err, "failed to save credential")
	}

	return nil
}

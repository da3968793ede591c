package postgres

import (
	"context"

	"storerating/internal/domain/entity"
	"storerating/internal/domain/repository"
	"storerating/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// principalRepository implements the domain.PrincipalRepository interface using GORM.
type principalRepository struct {
	db *gorm.DB
}

// NewPrincipalRepository is the constructor for principalRepository.
func NewPrincipalRepository(db *gorm.DB) repository.PrincipalRepository {
	return &principalRepository{db: db}
}

func (repo *principalRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Principal, error) {
	return repo.findOne(ctx, "id = ?", id)
}

// FindByEmail matches the email exactly; the comparison is case-sensitive.
func (repo *principalRepository) FindByEmail(ctx context.Context, email string) (*entity.Principal, error) {
	return repo.findOne(ctx, "email = ?", email)
}

func (repo *principalRepository) findOne(ctx context.Context, query string, arg any) (*entity.Principal, error) {
	var principalM model.PrincipalModel
	err := repo.db.WithContext(ctx).Where(query, arg).First(&principalM).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, repository.ErrPrincipalNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to find principal")
	}

	return toPrincipalDomain(&principalM), nil
}

func (repo *principalRepository) Create(ctx context.Context, principal *entity.Principal) error {
	if principal.ID == uuid.Nil {
		principal.ID = uuid.New()
	}

	principalM := fromPrincipalDomain(principal)
	if err := repo.db.WithContext(ctx).Create(principalM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrEmailTaken
		}

		return errors.Wrap(err, "failed to create principal")
	}

	principal.CreatedAt = principalM.CreatedAt

	return nil
}

// Update rewrites the mutable profile columns. Role is fixed at creation.
func (repo *principalRepository) Update(ctx context.Context, principal *entity.Principal) error {
	result := repo.db.WithContext(ctx).
		Model(&model.PrincipalModel{}).
		Where("id = ?", principal.ID).
		Updates(map[string]any{
			"name":           principal.Name,
			"email":          principal.Email,
			"address":        principal.Address,
			"owned_store_id": principal.OwnedStoreID,
		})
	if result.Error != nil {
		if isUniqueConstraintViolation(result.Error) {
			return repository.ErrEmailTaken
		}

		return errors.Wrap(result.Error, "failed to update principal")
	}
	if result.RowsAffected == 0 {
		return repository.ErrPrincipalNotFound
	}

	return nil
}

func (repo *principalRepository) List(ctx context.Context) ([]*entity.Principal, error) {
	var principalMs []*model.PrincipalModel
	if err := repo.db.WithContext(ctx).Order("position").Find(&principalMs).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list principals")
	}

	principals := make([]*entity.Principal, 0, len(principalMs))
	for _, principalM := range principalMs {
		principals = append(principals, toPrincipalDomain(principalM))
	}

	return principals, nil
}

func (repo *principalRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := repo.db.WithContext(ctx).Model(&model.PrincipalModel{}).Count(&n).Error; err != nil {
		return 0, errors.Wrap(err, "failed to count principals")
	}

	return n, nil
}

func toPrincipalDomain(data *model.PrincipalModel) *entity.Principal {
	if data == nil {
		return nil
	}

	return &entity.Principal{
		ID:           data.ID,
		Name:         data.Name,
		Email:        data.Email,
		Address:      data.Address,
		Role:         entity.Role(data.Role),
		OwnedStoreID: data.OwnedStoreID,
		CreatedAt:    data.CreatedAt,
	}
}

func fromPrincipalDomain(data *entity.Principal) *model.PrincipalModel {
	return &model.PrincipalModel{
		ID:           data.ID,
		Name:         data.Name,
		Email:        data.Email,
		Address:      data.Address,
		Role:         data.Role.String(),
		OwnedStoreID: data.OwnedStoreID,
		CreatedAt:    data.CreatedAt,
	}
}

package main

import (
	"log/slog"

	"storerating/config"
	"storerating/internal/domain/repository"
	"storerating/internal/infra/persistence/memory"
	"storerating/internal/infra/persistence/postgres"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type storageParams struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
}

type storageResult struct {
	fx.Out

	TxManager      repository.TransactionManager
	PrincipalRepo  repository.PrincipalRepository
	CredentialRepo repository.CredentialRepository
	StoreRepo      repository.StoreRepository
	RatingRepo     repository.RatingRepository
}

// newStorage provides the repositories of the configured driver.
// The postgres connection is only opened when that driver is selected.
func newStorage(params storageParams) (storageResult, error) {
	switch params.Config.Storage.Driver {
	case config.StoragePostgres:
		db, err := postgres.New(postgres.Params{
			Lifecycle: params.Lifecycle,
			Config:    params.Config,
			Logger:    params.Logger,
		})
		if err != nil {
			return storageResult{}, err
		}

		return storageResult{
			TxManager:      postgres.NewTransactionManager(db),
			PrincipalRepo:  postgres.NewPrincipalRepository(db),
			CredentialRepo: postgres.NewCredentialRepository(db),
			StoreRepo:      postgres.NewStoreRepository(db),
			RatingRepo:     postgres.NewRatingRepository(db),
		}, nil

	case config.StorageMemory, "":
		db := memory.NewDatabase()

		return storageResult{
			TxManager:      memory.NewTransactionManager(db),
			PrincipalRepo:  memory.NewPrincipalRepository(db),
			CredentialRepo: memory.NewCredentialRepository(db),
			StoreRepo:      memory.NewStoreRepository(db),
			RatingRepo:     memory.NewRatingRepository(db),
		}, nil

	default:
		return storageResult{}, errors.Errorf("unknown storage driver %q", params.Config.Storage.Driver)
	}
}

package repository

import "context"

// TransactionManager defines the interface for managing storage transactions.
// This allows the use case layer to handle transactions without depending on a specific driver.
type TransactionManager interface {
	// Execute runs a function within a transaction.
	// If the function returns an error, every write made through the factory is discarded.
	// Otherwise, all of them become visible at once.
	Execute(ctx context.Context, fn func(txRepoFactory RepositoryFactory) error) error
}

// RepositoryFactory provides repository instances bound to a specific transaction.
type RepositoryFactory interface {
	PrincipalRepo() PrincipalRepository
	CredentialRepo() CredentialRepository
	StoreRepo() StoreRepository
	RatingRepo() RatingRepository
}

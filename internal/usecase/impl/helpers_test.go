package impl

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"storerating/config"
	"storerating/internal/domain/entity"
	"storerating/internal/domain/repository"
	"storerating/internal/domain/service"
	"storerating/internal/infra/auth"
	"storerating/internal/infra/persistence/memory"
	"storerating/internal/infra/session"
	"storerating/internal/usecase"

	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	"gocloud.dev/blob/memblob"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Password123!"

func newDiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestConfig(latency time.Duration) *config.Config {
	return &config.Config{
		Identity: &config.IdentityConfig{
			Latency:    latency,
			BcryptCost: bcrypt.MinCost,
		},
	}
}

// testEnv wires the services to the memory driver and a memblob session cell.
type testEnv struct {
	db          *memory.Database
	txManager   repository.TransactionManager
	bucket      *blob.Bucket
	sessionRepo repository.SessionRepository
	hasher      service.PasswordHasher
	clock       service.Clock
	identity    usecase.IdentityUsecase
	ratings     usecase.RatingUsecase
	directory   usecase.DirectoryUsecase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })

	db := memory.NewDatabase()
	env := &testEnv{
		db:          db,
		txManager:   memory.NewTransactionManager(db),
		bucket:      bucket,
		sessionRepo: session.NewBlobSessionRepository(bucket, session.NewJSONCodec(), "currentUser"),
		hasher:      auth.NewBcryptHasherWithCost(bcrypt.MinCost, auth.DefaultPasswordPolicy),
		clock:       service.SystemClock{},
	}
	env.identity = env.newIdentity(0)
	env.ratings = env.newRatings(env.txManager)
	env.directory = NewDirectoryService(DirectoryServiceParams{
		TxManager:     env.txManager,
		PrincipalRepo: memory.NewPrincipalRepository(db),
		StoreRepo:     memory.NewStoreRepository(db),
		RatingRepo:    memory.NewRatingRepository(db),
		Hasher:        env.hasher,
		Clock:         env.clock,
		Logger:        newDiscardLogger(),
	})

	return env
}

// newIdentity builds a second identity service over the same directory and session cell,
// standing in for a restarted process.
func (env *testEnv) newIdentity(latency time.Duration) usecase.IdentityUsecase {
	return NewIdentityService(IdentityServiceParams{
		TxManager:      env.txManager,
		PrincipalRepo:  memory.NewPrincipalRepository(env.db),
		CredentialRepo: memory.NewCredentialRepository(env.db),
		SessionRepo:    env.sessionRepo,
		Hasher:         env.hasher,
		Clock:          env.clock,
		Config:         newTestConfig(latency),
		Logger:         newDiscardLogger(),
	})
}

func (env *testEnv) newRatings(txManager repository.TransactionManager) usecase.RatingUsecase {
	return NewRatingService(RatingServiceParams{
		TxManager:  txManager,
		RatingRepo: memory.NewRatingRepository(env.db),
		StoreRepo:  memory.NewStoreRepository(env.db),
		Clock:      env.clock,
		Logger:     newDiscardLogger(),
	})
}

func (env *testEnv) createPrincipal(t *testing.T, name, email string, role entity.Role) *entity.Principal {
	t.Helper()

	p, err := env.directory.CreatePrincipal(context.Background(), usecase.CreatePrincipalInput{
		Name:     name,
		Email:    email,
		Address:  "1 Main St",
		Password: testPassword,
		Role:     role,
	})
	require.NoError(t, err)

	return p
}

func (env *testEnv) createStore(t *testing.T, name string) (*entity.Principal, *entity.Store) {
	t.Helper()

	owner := env.createPrincipal(t, name+" Owner", name+"-owner@example.com", entity.RoleStoreOwner)
	store, err := env.directory.ProvisionStore(context.Background(), usecase.ProvisionStoreInput{
		OwnerID: owner.ID,
		Name:    name,
		Email:   name + "@example.com",
		Address: "2 Market St",
	})
	require.NoError(t, err)

	return owner, store
}

package cli

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
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
	"storerating/internal/usecase/impl"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob/memblob"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Password123!"

type fixture struct {
	identity    usecase.IdentityUsecase
	ratings     usecase.RatingUsecase
	directory   usecase.DirectoryUsecase
	sessionRepo repository.SessionRepository
	logger      *slog.Logger
	owner       *entity.Principal
	customer    *entity.Principal
	store       *entity.Store
}

func newFixture(t *testing.T, latency time.Duration) *fixture {
	t.Helper()
	ctx := context.Background()

	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db := memory.NewDatabase()
	txManager := memory.NewTransactionManager(db)
	hasher := auth.NewBcryptHasherWithCost(bcrypt.MinCost, auth.DefaultPasswordPolicy)
	clock := service.SystemClock{}
	sessionRepo := session.NewBlobSessionRepository(bucket, session.NewJSONCodec(), "currentUser")

	f := &fixture{sessionRepo: sessionRepo, logger: logger}
	f.identity = impl.NewIdentityService(impl.IdentityServiceParams{
		TxManager:      txManager,
		PrincipalRepo:  memory.NewPrincipalRepository(db),
		CredentialRepo: memory.NewCredentialRepository(db),
		SessionRepo:    sessionRepo,
		Hasher:         hasher,
		Clock:          clock,
		Config:         &config.Config{Identity: &config.IdentityConfig{Latency: latency}},
		Logger:         logger,
	})
	f.ratings = impl.NewRatingService(impl.RatingServiceParams{
		TxManager:  txManager,
		RatingRepo: memory.NewRatingRepository(db),
		StoreRepo:  memory.NewStoreRepository(db),
		Clock:      clock,
		Logger:     logger,
	})
	f.directory = impl.NewDirectoryService(impl.DirectoryServiceParams{
		TxManager:     txManager,
		PrincipalRepo: memory.NewPrincipalRepository(db),
		StoreRepo:     memory.NewStoreRepository(db),
		RatingRepo:    memory.NewRatingRepository(db),
		Hasher:        hasher,
		Clock:         clock,
		Logger:        logger,
	})

	var err error
	f.owner, err = f.directory.CreatePrincipal(ctx, usecase.CreatePrincipalInput{
		Name: "Pizza Owner", Email: "owner@pizza.com", Address: "1 Main St", Password: testPassword, Role: entity.RoleStoreOwner,
	})
	require.NoError(t, err)
	f.customer, err = f.directory.CreatePrincipal(ctx, usecase.CreatePrincipalInput{
		Name: "John Smith", Email: "john@example.com", Address: "2 Main St", Password: testPassword, Role: entity.RoleCustomer,
	})
	require.NoError(t, err)
	f.store, err = f.directory.ProvisionStore(ctx, usecase.ProvisionStoreInput{
		OwnerID: f.owner.ID, Name: "Pizza Palace", Email: "hi@pizza.com", Address: "1 Main St",
	})
	require.NoError(t, err)

	return f
}

func (f *fixture) run(t *testing.T, script string) string {
	t.Helper()

	var out bytes.Buffer
	console := NewConsole(Params{
		Identity:  f.identity,
		Ratings:   f.ratings,
		Directory: f.directory,
		Logger:    f.logger,
		Input:     strings.NewReader(script),
		Output:    &out,
	})
	require.NoError(t, console.Serve(context.Background()))

	return out.String()
}

func TestConsole_CustomerFlow(t *testing.T) {
	f := newFixture(t, 0)

	out := f.run(t, strings.Join([]string{
		"whoami",
		"login john@example.com " + testPassword,
		"whoami",
		"rate 1 4",
		"rate 1 9",
		"ratings 1",
		"logout",
		"whoami",
		"quit",
	}, "\n"))

	assert.Contains(t, out, "Anonymous User (ANONYMOUS)")
	assert.Contains(t, out, "Signed in as John Smith (customer).")
	assert.Contains(t, out, "=== Store directory ===")
	assert.Contains(t, out, "John Smith <john@example.com> customer (AUTHENTICATED)")
	assert.Contains(t, out, "Rated 4. Store now at 4.0/5 (1).")
	assert.Contains(t, out, "Error: rating must be between 1 and 5")
	assert.Contains(t, out, "****.")
	assert.Contains(t, out, "Signed out.")
	assert.Contains(t, out, "Bye.")

	agg, err := f.ratings.AggregateFor(context.Background(), f.store.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.Aggregate{Count: 1, Average: 4}, agg)
}

func TestConsole_WrongPasswordIsGeneric(t *testing.T) {
	f := newFixture(t, 0)

	out := f.run(t, "login john@example.com nope\nwhoami\nlogin nobody@example.com nope\n")

	assert.Equal(t, 2, strings.Count(out, "Error: invalid email or password"))
	assert.Equal(t, entity.SessionAnonymous, f.identity.State())
}

func TestConsole_DoubleSubmitIsGuarded(t *testing.T) {
	f := newFixture(t, 100*time.Millisecond)

	out := f.run(t, "login john@example.com "+testPassword+"\nlogin john@example.com "+testPassword+"\nwhoami\n")

	assert.Equal(t, 1, strings.Count(out, "Signing in..."))
	assert.Contains(t, out, "Signing in is already pending, please wait.")
	assert.Equal(t, 1, strings.Count(out, "Signed in as John Smith"))
	assert.Contains(t, out, "(AUTHENTICATED)")
}

func TestConsole_RestoresSessionOnStart(t *testing.T) {
	f := newFixture(t, 0)
	require.NoError(t, f.sessionRepo.Save(context.Background(), f.owner))

	out := f.run(t, "")

	assert.Contains(t, out, "Welcome back, Pizza Owner.")
	assert.Contains(t, out, "=== Pizza Palace ===")
	assert.Contains(t, out, "No ratings yet.")
}

func TestConsole_OwnerDashboardListsRaters(t *testing.T) {
	f := newFixture(t, 0)
	_, err := f.ratings.SubmitRating(context.Background(), f.customer.ID, f.store.ID, 5)
	require.NoError(t, err)

	out := f.run(t, "login owner@pizza.com "+testPassword+"\ndashboard\n")

	assert.Contains(t, out, "5.0/5 (1)")
	assert.Contains(t, out, "John Smith")
	assert.Contains(t, out, "john@example.com")
}

func TestConsole_RegisterAndChangePassword(t *testing.T) {
	f := newFixture(t, 0)

	out := f.run(t, strings.Join([]string{
		"passwd NewPassword456!",
		"whoami",
		"register Jane Doe | jane@example.com | 3 Main St | " + testPassword,
		"whoami",
		"register Jane Doe | jane@example.com | 3 Main St | " + testPassword,
		"whoami",
		"passwd NewPassword456!",
		"whoami",
		"register missing fields",
	}, "\n"))

	assert.Contains(t, out, "Error: invalid email or password")
	assert.Contains(t, out, "Welcome, Jane Doe.")
	assert.Contains(t, out, "Error: this email is already registered")
	assert.Contains(t, out, "Password changed.")
	assert.Contains(t, out, "Usage: register")
}

func TestConsole_RateRequiresSession(t *testing.T) {
	f := newFixture(t, 0)

	out := f.run(t, "rate 1 5\nratings 7\nbogus\n")

	assert.Contains(t, out, "Error: invalid email or password: sign in to rate stores")
	assert.Contains(t, out, `Unknown store "7"`)
	assert.Contains(t, out, `Unknown command "bogus"`)
}

func TestConsole_RateIsCustomerOnly(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{name: "store owner rating own store", email: "owner@pizza.com"},
		{name: "admin", email: "admin@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, 0)
			_, err := f.directory.CreatePrincipal(context.Background(), usecase.CreatePrincipalInput{
				Name: "Site Admin", Email: "admin@example.com", Address: "3 Main St", Password: testPassword, Role: entity.RoleAdmin,
			})
			require.NoError(t, err)

			out := f.run(t, "login "+tt.email+" "+testPassword+"\nwhoami\nrate 1 5\nquit\n")

			assert.Contains(t, out, "Error: access denied: only customers can rate stores")
			assert.NotContains(t, out, "Rated 5.")

			agg, err := f.ratings.AggregateFor(context.Background(), f.store.ID)
			require.NoError(t, err)
			assert.Equal(t, entity.Aggregate{}, agg)

			ratings, err := f.ratings.ListRatingsForStore(context.Background(), f.store.ID)
			require.NoError(t, err)
			assert.Empty(t, ratings)
		})
	}
}

func TestConsole_StopsWhenContextEnds(t *testing.T) {
	f := newFixture(t, 0)
	reader, writer := io.Pipe()
	t.Cleanup(func() { _ = writer.Close() })

	console := NewConsole(Params{
		Identity:  f.identity,
		Ratings:   f.ratings,
		Directory: f.directory,
		Logger:    f.logger,
		Input:     reader,
		Output:    io.Discard,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- console.Serve(ctx) }()

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("console did not stop")
	}
}

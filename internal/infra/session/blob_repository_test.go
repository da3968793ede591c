package session

import (
	"context"
	"testing"
	"time"

	"storerating/internal/domain/entity"
	"storerating/internal/domain/repository"
	"storerating/internal/infra/auth"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocloud.dev/blob"
	"gocloud.dev/blob/memblob"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newCustomer() *entity.Principal {
	return &entity.Principal{
		ID:      uuid.New(),
		Name:    "John Smith Customer",
		Email:   "john@example.com",
		Address: "456 Customer Lane",
		Role:    entity.RoleCustomer,
	}
}

func TestBlobSessionRepository_SaveLoadClear(t *testing.T) {
	ctx := context.Background()
	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })
	repo := NewBlobSessionRepository(bucket, NewJSONCodec(), "currentUser")

	_, err := repo.Load(ctx)
	assert.True(t, errors.Is(err, repository.ErrSessionNotFound))

	customer := newCustomer()
	require.NoError(t, repo.Save(ctx, customer))

	restored, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, restored.ID)
	assert.Equal(t, customer.Email, restored.Email)
	assert.Equal(t, customer.Role, restored.Role)
	assert.Nil(t, restored.OwnedStoreID)

	require.NoError(t, repo.Clear(ctx))
	require.NoError(t, repo.Clear(ctx))

	_, err = repo.Load(ctx)
	assert.True(t, errors.Is(err, repository.ErrSessionNotFound))
}

func TestBlobSessionRepository_CorruptSnapshot(t *testing.T) {
	ctx := context.Background()
	bucket := memblob.OpenBucket(nil)
	t.Cleanup(func() { _ = bucket.Close() })
	repo := NewBlobSessionRepository(bucket, NewJSONCodec(), "currentUser")

	for _, payload := range []string{"{not json", `{"id":"00000000-0000-0000-0000-000000000000"}`, `{"id":"` + uuid.NewString() + `","email":"x@y.z","role":"root"}`} {
		require.NoError(t, bucket.WriteAll(ctx, "currentUser", []byte(payload), nil))

		_, err := repo.Load(ctx)
		assert.True(t, errors.Is(err, repository.ErrSessionCorrupt), payload)
	}
}

func TestBlobSessionRepository_SignedSnapshotSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	bucketURL := "file://" + t.TempDir() + "/session"
	codec, err := auth.NewJWTSessionCodec("signing-key", 0, fixedClock{now: time.Now()})
	require.NoError(t, err)

	customer := newCustomer()

	first, err := OpenBucket(ctx, bucketURL)
	require.NoError(t, err)
	require.NoError(t, NewBlobSessionRepository(first, codec, "currentUser").Save(ctx, customer))
	require.NoError(t, first.Close())

	second, err := OpenBucket(ctx, bucketURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = second.Close() })

	restored, err := NewBlobSessionRepository(second, codec, "currentUser").Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, customer.ID, restored.ID)

	// A hand-edited snapshot no longer verifies.
	raw, err := second.ReadAll(ctx, "currentUser")
	require.NoError(t, err)
	require.NoError(t, second.WriteAll(ctx, "currentUser", append(raw, 'x'), &blob.WriterOptions{}))

	_, err = NewBlobSessionRepository(second, codec, "currentUser").Load(ctx)
	assert.True(t, errors.Is(err, repository.ErrSessionCorrupt))
}

func TestOpenBucket_RejectsBadURL(t *testing.T) {
	_, err := OpenBucket(context.Background(), "nosuchscheme://bucket")

	assert.Error(t, err)
}

package session

import (
	"context"
	"log/slog"
	"net/url"
	"os"

	"github.com/pkg/errors"
	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob" // file:// buckets
	_ "gocloud.dev/blob/memblob"  // mem:// buckets
	"gocloud.dev/gcerrors"

	"storerating/config"
	"storerating/internal/domain/entity"
	"storerating/internal/domain/repository"
	"storerating/internal/domain/service"
	"storerating/internal/infra/auth"
)

const snapshotContentType = "application/octet-stream"

// Params defines the dependencies of the session repository.
type Params struct {
	fx.In
	fx.Lifecycle

	Config *config.Config
	Logger *slog.Logger
	Clock  service.Clock
}

// blobSessionRepository keeps the snapshot under a single key of a gocloud.dev bucket.
type blobSessionRepository struct {
	bucket *blob.Bucket
	codec  service.SessionCodec
	key    string
}

// New opens the configured bucket and picks the snapshot codec.
func New(ctx context.Context, params Params) (repository.SessionRepository, error) {
	cfg := params.Config.Session

	codec := NewJSONCodec()
	if cfg.SigningKey != "" {
		signed, err := auth.NewJWTSessionCodec(cfg.SigningKey, cfg.TTL, params.Clock)
		if err != nil {
			return nil, err
		}
		codec = signed
	}

	bucket, err := OpenBucket(ctx, cfg.BucketURL)
	if err != nil {
		return nil, err
	}

	params.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return errors.Wrap(bucket.Close(), "failed to close session bucket")
		},
	})

	params.Logger.Debug("Session storage opened", slog.String("bucketURL", cfg.BucketURL), slog.String("key", cfg.Key))

	return NewBlobSessionRepository(bucket, codec, cfg.Key), nil
}

// OpenBucket opens a gocloud.dev bucket URL, creating the directory of file:// buckets.
func OpenBucket(ctx context.Context, bucketURL string) (*blob.Bucket, error) {
	u, err := url.Parse(bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid session bucket url %q", bucketURL)
	}
	if u.Scheme == "file" {
		if err := os.MkdirAll(u.Path, 0o700); err != nil {
			return nil, errors.Wrapf(err, "failed to create session directory %s", u.Path)
		}
	}

	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open session bucket %q", bucketURL)
	}

	return bucket, nil
}

// NewBlobSessionRepository wraps an already opened bucket.
func NewBlobSessionRepository(bucket *blob.Bucket, codec service.SessionCodec, key string) repository.SessionRepository {
	return &blobSessionRepository{bucket: bucket, codec: codec, key: key}
}

// Save overwrites the snapshot.
func (r *blobSessionRepository) Save(ctx context.Context, principal *entity.Principal) error {
	data, err := r.codec.Encode(principal)
	if err != nil {
		return err
	}

	if err := r.bucket.WriteAll(ctx, r.key, data, &blob.WriterOptions{ContentType: snapshotContentType}); err != nil {
		return errors.Wrap(err, "failed to write session snapshot")
	}

	return nil
}

// Load reads and decodes the snapshot.
func (r *blobSessionRepository) Load(ctx context.Context) (*entity.Principal, error) {
	data, err := r.bucket.ReadAll(ctx, r.key)
	if gcerrors.Code(err) == gcerrors.NotFound {
		return nil, repository.ErrSessionNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to read session snapshot")
	}

	return r.codec.Decode(data)
}

// Clear deletes the snapshot; a missing snapshot is already clear.
func (r *blobSessionRepository) Clear(ctx context.Context) error {
	err := r.bucket.Delete(ctx, r.key)
	if err == nil || gcerrors.Code(err) == gcerrors.NotFound {
		return nil
	}

	return errors.Wrap(err, "failed to delete session snapshot")
}

package repository

import (
	"context"
	"errors"

	"storerating/internal/domain/entity"
)

var (
	// ErrSessionNotFound is returned when no session snapshot is persisted.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionCorrupt is returned when the persisted snapshot cannot be decoded or verified.
	ErrSessionCorrupt = errors.New("session snapshot is corrupt")
)

// SessionRepository is the durable client-local cell holding the active principal.
// Writes are last-writer-wins.
type SessionRepository interface {
	// Save overwrites the snapshot with the given principal.
	Save(ctx context.Context, principal *entity.Principal) error

	// Load reads the snapshot back.
	Load(ctx context.Context) (*entity.Principal, error)

	// Clear removes the snapshot. Clearing an empty cell is not an error.
	Clear(ctx context.Context) error
}

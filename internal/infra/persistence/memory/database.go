// Package memory is the default persistence driver: process-local tables keyed by id.
//
// Every repository is bound to a source. Repositories built from a Database lock it
// per call; repositories handed out inside TransactionManager.Execute work on a
// private copy of the tables that replaces the live ones only when the callback
// succeeds. Inside Execute, use only the factory's repositories: the Database
// lock is held for the whole callback.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"

	"storerating/internal/domain/entity"

	"github.com/google/uuid"
)

type ratingPair struct {
	userID  uuid.UUID
	storeID uuid.UUID
}

type tables struct {
	principals     map[uuid.UUID]*entity.Principal
	principalOrder []uuid.UUID
	emails         map[string]uuid.UUID
	credentials    map[uuid.UUID]entity.Credential
	stores         map[uuid.UUID]entity.Store
	storeOrder     []uuid.UUID
	ratings        map[uuid.UUID]entity.Rating
	ratingOrder    []uuid.UUID
	pairs          map[ratingPair]uuid.UUID
}

func newTables() *tables {
	return &tables{
		principals:  make(map[uuid.UUID]*entity.Principal),
		emails:      make(map[string]uuid.UUID),
		credentials: make(map[uuid.UUID]entity.Credential),
		stores:      make(map[uuid.UUID]entity.Store),
		ratings:     make(map[uuid.UUID]entity.Rating),
		pairs:       make(map[ratingPair]uuid.UUID),
	}
}

// clone copies every table. Stored principals are never mutated in place, so the
// pointer values can be shared between generations.
func (t *tables) clone() *tables {
	return &tables{
		principals:     maps.Clone(t.principals),
		principalOrder: slices.Clone(t.principalOrder),
		emails:         maps.Clone(t.emails),
		credentials:    maps.Clone(t.credentials),
		stores:         maps.Clone(t.stores),
		storeOrder:     slices.Clone(t.storeOrder),
		ratings:        maps.Clone(t.ratings),
		ratingOrder:    slices.Clone(t.ratingOrder),
		pairs:          maps.Clone(t.pairs),
	}
}

type source interface {
	read(ctx context.Context, fn func(*tables) error) error
	write(ctx context.Context, fn func(*tables) error) error
}

// Database owns the live tables of one process. Tests construct their own.
type Database struct {
	mu    sync.RWMutex
	state *tables
}

// NewDatabase returns an empty database.
func NewDatabase() *Database {
	return &Database{state: newTables()}
}

func (db *Database) read(ctx context.Context, fn func(*tables) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	db.mu.RLock()
	defer db.mu.RUnlock()

	return fn(db.state)
}

// write stages the change on a copy so a failing fn leaves the tables untouched.
func (db *Database) write(ctx context.Context, fn func(*tables) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	staged := db.state.clone()
	if err := fn(staged); err != nil {
		return err
	}
	db.state = staged

	return nil
}

// txSource is the private table copy of one transaction. The Database lock is
// held by Execute, so no further locking happens here.
type txSource struct {
	state *tables
}

func (s *txSource) read(ctx context.Context, fn func(*tables) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return fn(s.state)
}

func (s *txSource) write(ctx context.Context, fn func(*tables) error) error {
	return s.read(ctx, fn)
}

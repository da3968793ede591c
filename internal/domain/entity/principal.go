// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// Principal is a registered identity with a role.
type Principal struct {
	ID           uuid.UUID  // Assigned at creation, immutable.
	Name         string     // Display name.
	Email        string     // Login identifier, unique across all principals (case-sensitive).
	Address      string     // Postal address, descriptive only.
	Role         Role       // Fixed at creation.
	OwnedStoreID *uuid.UUID // Set only for store owners once their store is provisioned.
	CreatedAt    time.Time
}

// OwnsStore reports whether the principal is the owner of storeID.
func (p *Principal) OwnsStore(storeID uuid.UUID) bool {
	return p.Role == RoleStoreOwner && p.OwnedStoreID != nil && *p.OwnedStoreID == storeID
}

// Clone returns a deep copy so callers can never mutate repository state through a pointer.
func (p *Principal) Clone() *Principal {
	if p == nil {
		return nil
	}

	cloned := *p
	if p.OwnedStoreID != nil {
		storeID := *p.OwnedStoreID
		cloned.OwnedStoreID = &storeID
	}

	return &cloned
}

// Credential holds the secret a principal authenticates with.
type Credential struct {
	PrincipalID  uuid.UUID
	PasswordHash string // bcrypt hash, never the plaintext.
	UpdatedAt    time.Time
}

package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"storerating/internal/domain/entity"
	"storerating/internal/domain/repository"
	"storerating/internal/domain/service"
)

const sessionIssuer = "storerating"

// SessionSnapshot is the serialized form of the active principal.
// The credential is never part of it.
type SessionSnapshot struct {
	ID           uuid.UUID   `json:"id"`
	Name         string      `json:"name"`
	Email        string      `json:"email"`
	Address      string      `json:"address"`
	Role         entity.Role `json:"role"`
	OwnedStoreID *uuid.UUID  `json:"ownedStoreId,omitempty"`
}

// NewSessionSnapshot copies the persisted fields out of a principal.
func NewSessionSnapshot(p *entity.Principal) SessionSnapshot {
	cloned := p.Clone()

	return SessionSnapshot{
		ID:           cloned.ID,
		Name:         cloned.Name,
		Email:        cloned.Email,
		Address:      cloned.Address,
		Role:         cloned.Role,
		OwnedStoreID: cloned.OwnedStoreID,
	}
}

// Principal rebuilds the principal, rejecting snapshots that could not have been written.
func (s SessionSnapshot) Principal() (*entity.Principal, error) {
	if s.ID == uuid.Nil || s.Email == "" {
		return nil, errors.Wrap(repository.ErrSessionCorrupt, "snapshot is missing identity fields")
	}
	if !s.Role.IsValid() {
		return nil, errors.Wrapf(repository.ErrSessionCorrupt, "snapshot has unknown role %q", s.Role)
	}

	return &entity.Principal{
		ID:           s.ID,
		Name:         s.Name,
		Email:        s.Email,
		Address:      s.Address,
		Role:         s.Role,
		OwnedStoreID: s.OwnedStoreID,
	}, nil
}

type sessionClaims struct {
	Principal SessionSnapshot `json:"principal"`
	jwt.RegisteredClaims
}

// jwtSessionCodec signs the snapshot with HS256 so an edited session file
// (say, a customer rewriting its role to admin) is rejected on restore.
type jwtSessionCodec struct {
	key   []byte
	ttl   time.Duration
	clock service.Clock
}

// NewJWTSessionCodec is the constructor for jwtSessionCodec. A zero ttl never expires.
func NewJWTSessionCodec(signingKey string, ttl time.Duration, clock service.Clock) (service.SessionCodec, error) {
	if signingKey == "" {
		return nil, errors.New("session signing key must be provided")
	}

	return &jwtSessionCodec{key: []byte(signingKey), ttl: ttl, clock: clock}, nil
}

// Encode signs the principal snapshot.
func (c *jwtSessionCodec) Encode(principal *entity.Principal) ([]byte, error) {
	now := c.clock.Now()
	claims := sessionClaims{
		Principal: NewSessionSnapshot(principal),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   sessionIssuer,
			Subject:  principal.ID.String(),
			IssuedAt: jwt.NewNumericDate(now),
		},
	}
	if c.ttl > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(c.ttl))
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return nil, errors.Wrap(err, "failed to sign session snapshot")
	}

	return []byte(signed), nil
}

// Decode verifies signature, issuer and expiry before rebuilding the principal.
func (c *jwtSessionCodec) Decode(data []byte) (*entity.Principal, error) {
	claims := &sessionClaims{}
	_, err := jwt.ParseWithClaims(string(data), claims, func(*jwt.Token) (any, error) {
		return c.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(sessionIssuer),
		jwt.WithTimeFunc(c.clock.Now),
	)
	if err != nil {
		return nil, errors.Wrapf(repository.ErrSessionCorrupt, "invalid session token: %v", err)
	}

	if claims.Subject != claims.Principal.ID.String() {
		return nil, errors.Wrap(repository.ErrSessionCorrupt, "session subject does not match principal")
	}

	return claims.Principal.Principal()
}

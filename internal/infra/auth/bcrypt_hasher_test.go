package auth

import (
	"strings"
	"testing"

	"storerating/config"
	domainerrors "storerating/internal/domain/errors"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestHasher() *bcryptHasher {
	return NewBcryptHasherWithCost(bcrypt.MinCost, DefaultPasswordPolicy).(*bcryptHasher)
}

func TestBcryptHasher_HashAndCheck(t *testing.T) {
	hasher := newTestHasher()
	password := "StrongPass123!"

	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	assert.NotEqual(t, password, hash)

	assert.True(t, hasher.Check(password, hash))
	assert.False(t, hasher.Check("WrongPassword123!", hash))
	assert.False(t, hasher.Check("", hash))
	assert.False(t, hasher.Check(password, "invalid_hash"))
}

func TestBcryptHasher_HashRejectsOverlongInput(t *testing.T) {
	hasher := newTestHasher()

	_, err := hasher.Hash(strings.Repeat("a", 73))

	assert.True(t, errors.Is(err, domainerrors.ErrInternalError))
}

func TestBcryptHasher_ValidatePasswordStrength(t *testing.T) {
	hasher := newTestHasher()

	for _, password := range []string{"Password123!", "MySecure@Pass1", "Valid$Phrase2024"} {
		assert.NoError(t, hasher.ValidatePasswordStrength(password), password)
	}

	testCases := []struct {
		password    string
		expectedErr string
	}{
		{"Ab1!", "must be at least 8 characters long"},
		{"PASSWORD123!", "must contain at least one lowercase letter"},
		{"password123!", "must contain at least one uppercase letter"},
		{"PasswordABC!", "must contain at least one number"},
		{"Password123", "must contain at least one special character"},
		{"Aa1!" + strings.Repeat("x", 80), "must be at most 72 characters long"},
	}

	for _, tc := range testCases {
		t.Run(tc.expectedErr, func(t *testing.T) {
			err := hasher.ValidatePasswordStrength(tc.password)
			require.Error(t, err)
			assert.True(t, errors.Is(err, domainerrors.ErrPasswordStrength))
			assert.Contains(t, err.Error(), tc.expectedErr)
		})
	}
}

func TestNewBcryptHasher_UsesConfig(t *testing.T) {
	cfg := &config.Config{
		Identity:         &config.IdentityConfig{BcryptCost: 5},
		PasswordStrength: &config.PasswordStrengthConfig{MinLength: 4},
	}
	hasher := NewBcryptHasher(cfg)

	assert.NoError(t, hasher.ValidatePasswordStrength("abcd"))

	hash, err := hasher.Hash("abcd")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, 5, cost)
}

func TestNewBcryptHasherWithCost_Clamps(t *testing.T) {
	hasher := NewBcryptHasherWithCost(1, DefaultPasswordPolicy).(*bcryptHasher)

	assert.Equal(t, bcrypt.MinCost, hasher.cost)
}

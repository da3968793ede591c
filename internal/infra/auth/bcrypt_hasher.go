// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	"storerating/config"
	domainerrors "storerating/internal/domain/errors"
	"storerating/internal/domain/service"
)

// bcryptHasher is a concrete implementation of the PasswordHasher interface using bcrypt.
type bcryptHasher struct {
	cost   int
	policy config.PasswordStrengthConfig
}

// DefaultPasswordPolicy applies when the configuration has no passwordStrength section.
var DefaultPasswordPolicy = config.PasswordStrengthConfig{
	MinLength:        8,
	MaxLength:        72, // bcrypt ignores bytes beyond 72.
	RequireUppercase: true,
	RequireLowercase: true,
	RequireNumbers:   true,
	RequireSpecial:   true,
}

// NewBcryptHasher is the constructor for bcryptHasher.
// It returns the implementation as a service.PasswordHasher interface.
func NewBcryptHasher(cfg *config.Config) service.PasswordHasher {
	cost := bcrypt.DefaultCost
	if cfg.Identity != nil && cfg.Identity.BcryptCost != 0 {
		cost = cfg.Identity.BcryptCost
	}

	policy := DefaultPasswordPolicy
	if cfg.PasswordStrength != nil {
		policy = *cfg.PasswordStrength
	}

	return NewBcryptHasherWithCost(cost, policy)
}

// NewBcryptHasherWithCost builds a hasher with an explicit cost, clamped to bcrypt's bounds.
func NewBcryptHasherWithCost(cost int, policy config.PasswordStrengthConfig) service.PasswordHasher {
	cost = max(bcrypt.MinCost, min(cost, bcrypt.MaxCost))

	return &bcryptHasher{cost: cost, policy: policy}
}

// Hash generates a salted hash from a plaintext password using bcrypt.
func (h *bcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", domainerrors.ErrInternalError.WithDetails(err.Error())
	}

	return string(bytes), nil
}

// Check compares a plaintext password with a bcrypt hash.
func (h *bcryptHasher) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePasswordStrength reports every policy rule the password breaks.
func (h *bcryptHasher) ValidatePasswordStrength(password string) error {
	var problems []string

	if h.policy.MinLength > 0 && len(password) < h.policy.MinLength {
		problems = append(problems, "must be at least "+strconv.Itoa(h.policy.MinLength)+" characters long")
	}
	if h.policy.MaxLength > 0 && len(password) > h.policy.MaxLength {
		problems = append(problems, "must be at most "+strconv.Itoa(h.policy.MaxLength)+" characters long")
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasNumber = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			hasSpecial = true
		}
	}

	if h.policy.RequireLowercase && !hasLower {
		problems = append(problems, "must contain at least one lowercase letter")
	}
	if h.policy.RequireUppercase && !hasUpper {
		problems = append(problems, "must contain at least one uppercase letter")
	}
	if h.policy.RequireNumbers && !hasNumber {
		problems = append(problems, "must contain at least one number")
	}
	if h.policy.RequireSpecial && !hasSpecial {
		problems = append(problems, "must contain at least one special character")
	}

	if len(problems) == 0 {
		return nil
	}

	return domainerrors.ErrPasswordStrength.WithDetails("password " + strings.Join(problems, ", "))
}

package errors

import (
	"testing"

	"storerating/internal/errors"

	"github.com/stretchr/testify/assert"
)

func TestBaseError_IsMatchesByCode(t *testing.T) {
	detailed := ErrNotFound.WithDetails("store 42")

	assert.True(t, errors.Is(detailed, ErrNotFound))
	assert.False(t, errors.Is(detailed, ErrConflict))
	assert.Equal(t, "resource not found: store 42", detailed.Error())
}

func TestBaseError_WrapMessageKeepsSentinel(t *testing.T) {
	err := ErrInvalidRatingValue.WrapMessage("submit rating")

	assert.True(t, errors.Is(err, ErrInvalidRatingValue))
	assert.Contains(t, err.Error(), "submit rating")

	var appErr AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, "INVALID_RATING_VALUE", appErr.ErrorCode())
}

func TestStorageError_Unwraps(t *testing.T) {
	cause := errors.New("connection reset")
	err := NewStorageError(cause, "save rating")

	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, "STORAGE_FAILED", err.ErrorCode())
	assert.Equal(t, "save rating", err.Details())
}

// Package errors defines the application errors the core reports to its callers.
package errors

import (
	"storerating/internal/errors"
)

// AppError defines the interface for application-specific errors.
type AppError interface {
	error
	ErrorCode() string // Business error code
	Message() string   // User-facing message
	Details() string   // Detailed error information (optional)
}

// BaseError is a basic error structure that implements the AppError interface.
// Two BaseErrors match under errors.Is when their codes are equal, so copies made
// by WithDetails still match the predefined sentinel.
type BaseError struct {
	errorCode string
	message   string
	details   string
}

// NewBaseError creates a new base error.
func NewBaseError(errorCode, message, details string) *BaseError {
	return &BaseError{
		errorCode: errorCode,
		message:   message,
		details:   details,
	}
}

// Error implements the error interface.
func (e *BaseError) Error() string {
	if e.details == "" {
		return e.message
	}

	return e.message + ": " + e.details
}

// Is matches any BaseError carrying the same code.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}

	return t.errorCode == e.errorCode
}

// WrapMessage wraps the error with additional context message.
func (e *BaseError) WrapMessage(message string) error {
	return errors.Wrap(e, message)
}

// ErrorCode returns the business error code.
func (e *BaseError) ErrorCode() string {
	return e.errorCode
}

// Message returns the user-facing message.
func (e *BaseError) Message() string {
	return e.message
}

// Details returns detailed error information.
func (e *BaseError) Details() string {
	return e.details
}

// WithDetails returns a copy of the error carrying details.
func (e *BaseError) WithDetails(details string) *BaseError {
	return &BaseError{
		errorCode: e.errorCode,
		message:   e.message,
		details:   details,
	}
}

// Predefined error types
var (
	// ErrAuthentication covers every failed email/credential check.
	// The message must not reveal which field was wrong.
	ErrAuthentication = NewBaseError(
		"AUTHENTICATION_FAILED",
		"invalid email or password",
		"",
	)

	ErrDuplicateIdentity = NewBaseError(
		"DUPLICATE_IDENTITY",
		"this email is already registered",
		"",
	)

	ErrInvalidRatingValue = NewBaseError(
		"INVALID_RATING_VALUE",
		"rating must be between 1 and 5",
		"",
	)

	ErrNotFound = NewBaseError(
		"NOT_FOUND",
		"resource not found",
		"",
	)

	ErrValidationFailed = NewBaseError(
		"VALIDATION_FAILED",
		"input validation failed",
		"",
	)

	ErrPasswordStrength = NewBaseError(
		"PASSWORD_STRENGTH",
		"password is too weak",
		"",
	)

	ErrForbidden = NewBaseError(
		"FORBIDDEN",
		"access denied",
		"",
	)

	ErrConflict = NewBaseError(
		"CONFLICT",
		"resource conflict",
		"",
	)

	ErrInternalError = NewBaseError(
		"INTERNAL_ERROR",
		"internal error",
		"",
	)
)

// StorageError reports an unexpected failure of the persistence layer.
type StorageError struct {
	err     error
	details string
}

// NewStorageError creates a storage-related error.
func NewStorageError(err error, details string) AppError {
	return &StorageError{
		err:     err,
		details: details,
	}
}

// Error implements the error interface.
func (e *StorageError) Error() string {
	return errors.Wrap(e.err, "storage operation failed").Error()
}

// Unwrap exposes the driver error.
func (e *StorageError) Unwrap() error {
	return e.err
}

// ErrorCode returns the business error code.
func (e *StorageError) ErrorCode() string {
	return "STORAGE_FAILED"
}

// Message returns the user-facing message.
func (e *StorageError) Message() string {
	return "storage operation failed"
}

// Details returns detailed error information.
func (e *StorageError) Details() string {
	return e.details
}

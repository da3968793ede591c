package impl

import (
	"strings"

	domainerrors "storerating/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// validateInput runs the struct tags of input and reports failing fields as ErrValidationFailed.
func validateInput(v *validator.Validate, input any) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "failed to validate input")
	}

	fields := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		fields = append(fields, strings.ToLower(fe.Field())+" ("+fe.Tag()+")")
	}

	return domainerrors.ErrValidationFailed.WithDetails(strings.Join(fields, ", "))
}

func storageError(err error, details string) error {
	return domainerrors.NewStorageError(errors.WithStack(err), details)
}

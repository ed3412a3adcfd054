package app

import (
	"errors"
	"fmt"

	"github.com/KasumiMercury/primind-chat-reminder/internal/domain"
)

var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("resource not found")
	ErrInternalError = errors.New("internal error")
	ErrUpstream      = errors.New("upstream service failed")
)

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

func IsValidationError(err error) bool {
	var validationErr *ValidationError

	return errors.As(err, &validationErr)
}

// storeError classifies a failure of the store or an external API.
func storeError(err error) error {
	if errors.Is(err, domain.ErrUpstreamFailure) || errors.Is(err, domain.ErrRevisionConflict) {
		return fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	return fmt.Errorf("%w: %v", ErrInternalError, err)
}

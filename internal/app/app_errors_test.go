package app_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KasumiMercury/primind-chat-reminder/internal/app"
)

func TestNewValidationErrorSuccess(t *testing.T) {
	tests := []struct {
		name            string
		field           string
		message         string
		expectedError   string
		expectedField   string
		expectedMessage string
	}{
		{
			name:            "id validation error",
			field:           "id",
			message:         "invalid reminder ID",
			expectedError:   "validation error: id - invalid reminder ID",
			expectedField:   "id",
			expectedMessage: "invalid reminder ID",
		},
		{
			name:            "nested schedule field",
			field:           "schedule.dayOfWeek",
			message:         "day of week must be between 0 and 6",
			expectedError:   "validation error: schedule.dayOfWeek - day of week must be between 0 and 6",
			expectedField:   "schedule.dayOfWeek",
			expectedMessage: "day of week must be between 0 and 6",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := app.NewValidationError(tt.field, tt.message)

			assert.Equal(t, tt.expectedField, err.Field)
			assert.Equal(t, tt.expectedMessage, err.Message)
			assert.Equal(t, tt.expectedError, err.Error())
			assert.ErrorIs(t, err, app.ErrValidation)
		})
	}
}

func TestIsValidationErrorSuccess(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{
			name:     "is ValidationError",
			err:      app.NewValidationError("field", "message"),
			expected: true,
		},
		{
			name:     "wrapped ValidationError",
			err:      fmt.Errorf("wrapped: %w", app.NewValidationError("field", "message")),
			expected: true,
		},
		{
			name:     "generic error",
			err:      errors.New("generic error"),
			expected: false,
		},
		{
			name:     "nil",
			err:      nil,
			expected: false,
		},
		{
			name:     "not found sentinel",
			err:      fmt.Errorf("%w: gone", app.ErrNotFound),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, app.IsValidationError(tt.err))
		})
	}
}

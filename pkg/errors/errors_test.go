package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeOf(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorType
		message  string
	}{
		{
			name:     "not found",
			err:      NewNotFoundError("test 4 not found"),
			expected: ErrorTypeNotFound,
			message:  "test 4 not found",
		},
		{
			name:     "wrapped validation",
			err:      fmt.Errorf("handler: %w", NewValidationError("invalid test id")),
			expected: ErrorTypeValidation,
			message:  "invalid test id",
		},
		{
			name:     "plain error",
			err:      fmt.Errorf("boom"),
			expected: ErrorTypeInternal,
			message:  "internal error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TypeOf(tt.err))
			assert.Equal(t, tt.message, MessageOf(tt.err))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	cause := fmt.Errorf("connection refused")

	err := NewExternalError("upload report", cause)

	assert.Equal(t, "EXTERNAL: upload report: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsNotFound(NewNotFoundError("x")))
}

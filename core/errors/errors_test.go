package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_Wrapping(t *testing.T) {
	cause := stderrors.New("connection reset")
	appErr := NewAppError(ErrPersistence, "Failed to save hangout", cause)

	wrapped := fmt.Errorf("respond: %w", appErr)

	assert.True(t, IsCode(wrapped, ErrPersistence))
	assert.ErrorIs(t, wrapped, cause)
	assert.Contains(t, appErr.Error(), "PERSISTENCE_ERROR")
	assert.Contains(t, appErr.Error(), "connection reset")
}

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"app error", NewAppError(ErrInvalidTransition, "already responded", nil), ErrInvalidTransition},
		{"plain error", stderrors.New("boom"), ErrInternalServer},
		{"nil", nil, ErrInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestIsValidation(t *testing.T) {
	assert.True(t, IsValidation(NewAppError(ErrValidation, "bad duration", nil)))
	assert.True(t, IsValidation(NewAppError(ErrCreatorBusy, "busy", nil)))
	assert.False(t, IsValidation(NewAppError(ErrInvalidTransition, "terminal", nil)))
	assert.False(t, IsValidation(nil))
}

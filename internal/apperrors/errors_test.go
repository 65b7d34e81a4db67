package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSpecificErrorsWrapTaxonomy(t *testing.T) {
	tests := []struct {
		err      error
		sentinel error
	}{
		{ErrInvalidType, ErrValidation},
		{ErrMissingReason, ErrValidation},
		{ErrInvalidAmount, ErrValidation},
		{ErrWouldGoNegative, ErrInvariantViolation},
		{ErrInsufficientCredit, ErrInvariantViolation},
		{ErrAccountNotActive, ErrInvariantViolation},
		{ErrInvalidStatusTransition, ErrInvariantViolation},
		{ErrAccountNotFound, ErrNotFound},
		{ErrClientNotFound, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			wrapped := fmt.Errorf("context: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.err)
			assert.ErrorIs(t, wrapped, tt.sentinel)
		})
	}
}

func TestAppError(t *testing.T) {
	cause := errors.New("connection reset")

	err := NewAppError(http.StatusServiceUnavailable, "failed to append entry", cause)
	assert.Equal(t, "failed to append entry: connection reset", err.Error())
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, cause)

	conflict := NewAppError(http.StatusConflict, "version moved", nil)
	assert.Equal(t, "version moved", conflict.Error())
	assert.ErrorIs(t, conflict, ErrConflict)
	assert.NotErrorIs(t, conflict, ErrStoreUnavailable)

	teapot := NewAppError(http.StatusTeapot, "odd", nil)
	assert.NotErrorIs(t, teapot, ErrValidation)

	var appErr *AppError
	assert.ErrorAs(t, fmt.Errorf("outer: %w", err), &appErr)
	assert.Equal(t, http.StatusServiceUnavailable, appErr.Code)
}

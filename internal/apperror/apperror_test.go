package apperror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{"not found", NotFound("user", 42), KindNotFound},
		{"validation", ValidationFailed("email", `"email" is required`), KindValidation},
		{"conflict", Conflict("user", "email already taken"), KindConflict},
		{"wrapped twice", fmt.Errorf("service: %w", fmt.Errorf("repo: %w", NotFound("user", 7))), KindNotFound},
		{"plain error", errors.New("disk full"), KindInternal},
		{"app error with foreign sentinel", &AppError{Err: errors.New("other"), Message: "x"}, KindInternal},
		{"nil", nil, KindInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("replacing user: %w", NotFound("user", 7))

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrValidation)
	assert.NotErrorIs(t, err, ErrConflict)
}

func TestConstructorMessages(t *testing.T) {
	assert.EqualError(t, NotFound("user", 42), "user not found with id 42")
	assert.EqualError(t, ValidationFailed("user_name", `"user_name" is required`), `"user_name" is required`)
	assert.EqualError(t, Conflict("user", "email already taken"), "user conflict: email already taken")
}

func TestMessage(t *testing.T) {
	const fallback = "An internal error occurred"

	assert.Equal(t, "user not found with id 3",
		Message(fmt.Errorf("deleting: %w", NotFound("user", 3)), fallback))
	assert.Equal(t, fallback, Message(errors.New("pq: connection reset"), fallback),
		"driver text must not leak")
}

func TestErrorsAsExposesField(t *testing.T) {
	err := fmt.Errorf("creating user: %w", ValidationFailed("email", "bad email"))

	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "email", appErr.Field)
	assert.Equal(t, ErrValidation, appErr.Unwrap())
}

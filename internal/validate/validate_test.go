package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/user-api/internal/apperror"
	"github.com/sakif/user-api/internal/model"
)

func TestStruct_CreateUserRequest(t *testing.T) {
	v := New()

	tests := []struct {
		name      string
		req       model.CreateUserRequest
		wantField string
		wantMsg   string
	}{
		{
			name: "valid",
			req:  model.CreateUserRequest{UserName: "ada", Email: "ada@example.com"},
		},
		{
			name:      "missing user_name",
			req:       model.CreateUserRequest{Email: "ada@example.com"},
			wantField: "user_name",
			wantMsg:   `"user_name" is required`,
		},
		{
			name:      "missing email",
			req:       model.CreateUserRequest{UserName: "ada"},
			wantField: "email",
			wantMsg:   `"email" is required`,
		},
		{
			name:      "bad email",
			req:       model.CreateUserRequest{UserName: "ada", Email: "not-an-email"},
			wantField: "email",
			wantMsg:   `"email" must be a valid email`,
		},
		{
			name:      "user_name too long",
			req:       model.CreateUserRequest{UserName: strings.Repeat("a", 256), Email: "ada@example.com"},
			wantField: "user_name",
			wantMsg:   `"user_name" length must be less than or equal to 255 characters long`,
		},
		{
			name:      "first violation wins",
			req:       model.CreateUserRequest{},
			wantField: "user_name",
			wantMsg:   `"user_name" is required`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.req)
			if tt.wantMsg == "" {
				assert.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.Is(err, apperror.ErrValidation))

			var appErr *apperror.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantField, appErr.Field)
			assert.Equal(t, tt.wantMsg, appErr.Message)
		})
	}
}

func TestStruct_PatchUserRequest(t *testing.T) {
	v := New()

	assert.NoError(t, v.Struct(model.PatchUserRequest{}), "empty patch is valid")
	assert.NoError(t, v.Struct(model.PatchUserRequest{UserName: "ada"}))

	err := v.Struct(model.PatchUserRequest{Email: "nope"})
	assert.True(t, errors.Is(err, apperror.ErrValidation))
}

func TestStruct_CreatePostRequest(t *testing.T) {
	v := New()

	valid := model.CreatePostRequest{PostUserID: 1, PostContent: "hello", PostDate: "2024-01-02"}
	assert.NoError(t, v.Struct(valid))

	missingUser := valid
	missingUser.PostUserID = 0
	err := v.Struct(missingUser)
	require.Error(t, err)

	var appErr *apperror.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "post_user_id", appErr.Field)
}

func TestStruct_NotAStruct(t *testing.T) {
	err := New().Struct("plain string")
	require.Error(t, err)
	assert.False(t, errors.Is(err, apperror.ErrValidation), "non-struct input is a programming error")
}

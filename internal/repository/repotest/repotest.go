// Package repotest holds a conformance suite every repository.UserRepository
// backend must pass. Backend packages call RunUserRepository from their own
// tests with a constructor that returns an empty store.
package repotest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/user-api/internal/apperror"
	"github.com/sakif/user-api/internal/model"
	"github.com/sakif/user-api/internal/repository"
)

// NewRepo returns a repository over an empty "user" table. It should register
// its own cleanup with t.Cleanup.
type NewRepo func(t *testing.T) repository.UserRepository

// RunUserRepository runs the full suite against the backend built by newRepo.
func RunUserRepository(t *testing.T, newRepo NewRepo) {
	t.Run("ListEmpty", func(t *testing.T) { testListEmpty(t, newRepo(t)) })
	t.Run("CreateAssignsFreshIDs", func(t *testing.T) { testCreateAssignsFreshIDs(t, newRepo(t)) })
	t.Run("GetByID", func(t *testing.T) { testGetByID(t, newRepo(t)) })
	t.Run("GetByIDNotFound", func(t *testing.T) { testGetByIDNotFound(t, newRepo(t)) })
	t.Run("Replace", func(t *testing.T) { testReplace(t, newRepo(t)) })
	t.Run("ReplaceUnknownCreatesNothing", func(t *testing.T) { testReplaceUnknown(t, newRepo(t)) })
	t.Run("DeleteTwice", func(t *testing.T) { testDeleteTwice(t, newRepo(t)) })
	t.Run("IDsNotReusedAfterDelete", func(t *testing.T) { testIDsNotReused(t, newRepo(t)) })
	t.Run("ListAfterCreatesAndDelete", func(t *testing.T) { testListAfterCreatesAndDelete(t, newRepo(t)) })
}

// MustCreate inserts a user and fails the test on error.
func MustCreate(t *testing.T, repo repository.UserRepository, name, email string) *model.User {
	t.Helper()
	u, err := repo.Create(context.Background(), name, email)
	require.NoError(t, err, "creating test user")
	return u
}

func testListEmpty(t *testing.T, repo repository.UserRepository) {
	users, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, users, "empty list must be a non-nil slice")
	assert.Len(t, users, 0)
}

func testCreateAssignsFreshIDs(t *testing.T, repo repository.UserRepository) {
	first := MustCreate(t, repo, "ada", "ada@example.com")
	second := MustCreate(t, repo, "grace", "grace@example.com")

	assert.Positive(t, first.ID)
	assert.Positive(t, second.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, "ada", first.Name)
	assert.Equal(t, "ada@example.com", first.Email)
}

func testGetByID(t *testing.T, repo repository.UserRepository) {
	created := MustCreate(t, repo, "ada", "ada@example.com")

	found, err := repo.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *found)
}

func testGetByIDNotFound(t *testing.T, repo repository.UserRepository) {
	_, err := repo.GetByID(context.Background(), 999999)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "error = %v, want ErrNotFound", err)
}

func testReplace(t *testing.T, repo repository.UserRepository) {
	ctx := context.Background()
	created := MustCreate(t, repo, "ada", "ada@example.com")

	updated, err := repo.Replace(ctx, model.User{ID: created.ID, Name: "lovelace", Email: "l@example.com"})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID, "user_id must not change")
	assert.Equal(t, "lovelace", updated.Name)
	assert.Equal(t, "l@example.com", updated.Email)

	found, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *updated, *found)
}

func testReplaceUnknown(t *testing.T, repo repository.UserRepository) {
	ctx := context.Background()

	_, err := repo.Replace(ctx, model.User{ID: 4242, Name: "ghost", Email: "ghost@example.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "error = %v, want ErrNotFound", err)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, users, "replace of an unknown id must not create a row")
}

func testDeleteTwice(t *testing.T, repo repository.UserRepository) {
	ctx := context.Background()
	created := MustCreate(t, repo, "ada", "ada@example.com")

	deleted, err := repo.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *deleted)

	_, err = repo.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrNotFound), "second delete: error = %v, want ErrNotFound", err)

	_, err = repo.GetByID(ctx, created.ID)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func testIDsNotReused(t *testing.T, repo repository.UserRepository) {
	ctx := context.Background()
	first := MustCreate(t, repo, "ada", "ada@example.com")

	_, err := repo.Delete(ctx, first.ID)
	require.NoError(t, err)

	second := MustCreate(t, repo, "grace", "grace@example.com")
	assert.Greater(t, second.ID, first.ID)
}

func testListAfterCreatesAndDelete(t *testing.T, repo repository.UserRepository) {
	ctx := context.Background()

	const n = 5
	created := make([]*model.User, 0, n)
	for i := 0; i < n; i++ {
		created = append(created, MustCreate(t, repo, "user", "user@example.com"))
	}

	_, err := repo.Delete(ctx, created[2].ID)
	require.NoError(t, err)

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, n-1)

	want := map[int64]bool{}
	for i, u := range created {
		if i != 2 {
			want[u.ID] = true
		}
	}
	for i, u := range users {
		assert.True(t, want[u.ID], "unexpected user_id %d in list", u.ID)
		if i > 0 {
			assert.Greater(t, u.ID, users[i-1].ID, "list must be ordered by user_id")
		}
	}
}

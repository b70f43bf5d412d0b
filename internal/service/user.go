// Package service contains the business logic layer of the application.
//
// THE THREE LAYERS:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (business layer) → validates, merges, orchestrates
//	Repository (data layer)  → runs one SQL statement per call
//
// UserService receives a repository.UserRepository (an interface) rather
// than a concrete store, so tests can hand it an in-memory fake and main can
// pick SQLite or Postgres without this package changing.
//
// Every write path runs the same schema validation before touching storage,
// and a failed validation returns immediately: no statement is executed.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/user-api/internal/apperror"
	"github.com/sakif/user-api/internal/model"
	"github.com/sakif/user-api/internal/repository"
	"github.com/sakif/user-api/internal/validate"
)

// UserService handles business logic for users.
type UserService struct {
	repo      repository.UserRepository
	validator *validate.Validator
	logger    *slog.Logger
}

// NewUserService creates a new UserService. All dependencies are injected.
func NewUserService(repo repository.UserRepository, validator *validate.Validator, logger *slog.Logger) *UserService {
	return &UserService{
		repo:      repo,
		validator: validator,
		logger:    logger,
	}
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		s.logger.Error("failed to list users", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// Create validates req and inserts a new user.
func (s *UserService) Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error) {
	req = trimCreate(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.Create(ctx, req.UserName, req.Email)
	if err != nil {
		s.logStorageError("failed to create user", 0, err)
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user created", slog.Int64("user_id", user.ID))
	return user, nil
}

// Replace overwrites both fields of an existing user.
// Returns apperror.ErrNotFound if no user has the given id.
func (s *UserService) Replace(ctx context.Context, id int64, req model.CreateUserRequest) (*model.User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	req = trimCreate(req)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	user, err := s.repo.Replace(ctx, model.User{ID: id, Name: req.UserName, Email: req.Email})
	if err != nil {
		s.logStorageError("failed to replace user", id, err)
		return nil, fmt.Errorf("replacing user: %w", err)
	}

	s.logger.Info("user updated", slog.Int64("user_id", id))
	return user, nil
}

// Patch applies a partial update.
//
// STRATEGY: fetch, merge, validate, overwrite.
//  1. Fetch the stored row. A failed fetch (including not-found) ends the
//     request; nothing is written.
//  2. Fields the caller left empty keep their stored values.
//  3. The merged user must satisfy the same schema as a full replace.
//  4. Overwrite with the same statement Replace uses.
//
// Two concurrent patches of one row can still lose an update; there is no
// row locking between steps 1 and 4.
func (s *UserService) Patch(ctx context.Context, id int64, req model.PatchUserRequest) (*model.User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	req.UserName = strings.TrimSpace(req.UserName)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logStorageError("failed to fetch user for patch", id, err)
		return nil, fmt.Errorf("patching user: %w", err)
	}

	merged := req.Merge(*current)
	if err := s.validator.Struct(model.CreateUserRequest{UserName: merged.Name, Email: merged.Email}); err != nil {
		return nil, err
	}

	user, err := s.repo.Replace(ctx, merged)
	if err != nil {
		s.logStorageError("failed to patch user", id, err)
		return nil, fmt.Errorf("patching user: %w", err)
	}

	s.logger.Info("user updated", slog.Int64("user_id", id), slog.Bool("partial", true))
	return user, nil
}

// Delete removes a user and returns the row that was removed.
func (s *UserService) Delete(ctx context.Context, id int64) (*model.User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	user, err := s.repo.Delete(ctx, id)
	if err != nil {
		s.logStorageError("failed to delete user", id, err)
		return nil, fmt.Errorf("deleting user: %w", err)
	}

	s.logger.Info("user deleted", slog.Int64("user_id", id))
	return user, nil
}

// logStorageError logs real storage failures. Not-found and conflicts are
// ordinary client outcomes and are left to the access log.
func (s *UserService) logStorageError(msg string, id int64, err error) {
	if apperror.KindOf(err) != apperror.KindInternal {
		return
	}
	s.logger.Error(msg,
		slog.Int64("user_id", id),
		slog.String("error", err.Error()),
	)
}

func validateID(id int64) error {
	if id <= 0 {
		return apperror.ValidationFailed("id", `"id" must be a positive integer`)
	}
	return nil
}

func trimCreate(req model.CreateUserRequest) model.CreateUserRequest {
	req.UserName = strings.TrimSpace(req.UserName)
	req.Email = strings.TrimSpace(req.Email)
	return req
}

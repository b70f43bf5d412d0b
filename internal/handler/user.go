package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sakif/user-api/internal/apperror"
	"github.com/sakif/user-api/internal/model"
)

// UserService is the business layer the handler depends on.
// *service.UserService satisfies it.
type UserService interface {
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, req model.CreateUserRequest) (*model.User, error)
	Replace(ctx context.Context, id int64, req model.CreateUserRequest) (*model.User, error)
	Patch(ctx context.Context, id int64, req model.PatchUserRequest) (*model.User, error)
	Delete(ctx context.Context, id int64) (*model.User, error)
}

// UserHandler serves the /user routes. Each method ends the request on its
// first error: writeError is always followed by return.
type UserHandler struct {
	users  UserService
	logger *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users UserService, logger *slog.Logger) *UserHandler {
	return &UserHandler{users: users, logger: logger}
}

// HandleList returns every user.
//
// HTTP: GET /user
func (h *UserHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

// HandleCreate validates the body and inserts a user.
//
// HTTP: POST /user
// REQUEST BODY: {"user_name": "ada", "email": "ada@example.com"}
func (h *UserHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		h.logger.Warn("invalid user JSON", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	user, err := h.users.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, user)
}

// HandleReplace overwrites both fields of a user.
//
// HTTP: PUT /user/{id}
func (h *UserHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req model.CreateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Replace(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandlePatch updates only the fields present in the body.
//
// HTTP: PATCH /user/{id}
// REQUEST BODY: {"user_name": "lovelace"}   (email keeps its stored value)
func (h *UserHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req model.PatchUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Patch(r.Context(), id, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// HandleDelete removes a user and returns the deleted row.
//
// HTTP: DELETE /user/{id}
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := userID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	user, err := h.users.Delete(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// userID parses the {id} URL parameter. Anything that is not a positive
// base-10 integer is a client error; it never reaches the database.
func userID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ValidationFailed("id", `"id" must be a positive integer`)
	}
	return id, nil
}

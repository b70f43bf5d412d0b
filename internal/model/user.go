// Package model defines the data structures used throughout the application.
package model

// User is one row of the "user" table.
//
// ID is assigned by the storage engine on insert and never changes afterwards.
// The JSON names match the column names so a row serializes exactly as stored.
type User struct {
	ID    int64  `json:"user_id"   db:"user_id"`
	Name  string `json:"user_name" db:"user_name"`
	Email string `json:"email"     db:"email"`
}

// CreateUserRequest is the body accepted by POST /user and PUT /user/{id}.
// Both fields are required; the same schema guards create and full replace.
type CreateUserRequest struct {
	UserName string `json:"user_name" validate:"required,max=255"`
	Email    string `json:"email"     validate:"required,email,max=255"`
}

// PatchUserRequest is the body accepted by PATCH /user/{id}.
//
// An empty field means "keep the stored value". Present fields are checked
// against the same rules as CreateUserRequest.
type PatchUserRequest struct {
	UserName string `json:"user_name" validate:"omitempty,max=255"`
	Email    string `json:"email"     validate:"omitempty,email,max=255"`
}

// Merge resolves a partial update against the currently stored row.
// The returned user keeps current.ID.
func (p PatchUserRequest) Merge(current User) User {
	merged := current
	if p.UserName != "" {
		merged.Name = p.UserName
	}
	if p.Email != "" {
		merged.Email = p.Email
	}
	return merged
}

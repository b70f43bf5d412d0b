package repository

import (
	"context"

	"github.com/sakif/user-api/internal/model"
)

// UserRepository is the storage gateway for the "user" table.
//
// Every method runs exactly one SQL statement. Methods addressing a single row
// return apperror.ErrNotFound (wrapped in an *apperror.AppError) when no row
// has the given id; they never return a nil user with a nil error.
type UserRepository interface {
	List(ctx context.Context) ([]model.User, error)
	Create(ctx context.Context, name, email string) (*model.User, error)
	GetByID(ctx context.Context, id int64) (*model.User, error)
	Replace(ctx context.Context, user model.User) (*model.User, error)
	Delete(ctx context.Context, id int64) (*model.User, error)
}

// Store is a UserRepository that owns a connection pool.
type Store interface {
	UserRepository
	Ping(ctx context.Context) error
	Close() error
}

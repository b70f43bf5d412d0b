package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/sakif/user-api/internal/apperror"
	"github.com/sakif/user-api/internal/model"
	"github.com/sakif/user-api/internal/repository"
)

var _ repository.UserRepository = (*DB)(nil)

const (
	userColumns = `user_id, user_name, email`

	// SQLSTATE for unique_violation.
	uniqueViolation = "23505"
)

func (db *DB) List(ctx context.Context) ([]model.User, error) {
	rows, err := db.pool.Query(ctx, `SELECT `+userColumns+` FROM "user" ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing users: %w", err)
	}

	users, err := pgx.CollectRows(rows, scanUser)
	if err != nil {
		return nil, fmt.Errorf("postgres: scanning users: %w", err)
	}
	if users == nil {
		users = []model.User{}
	}

	return users, nil
}

func (db *DB) Create(ctx context.Context, name, email string) (*model.User, error) {
	rows, err := db.pool.Query(ctx,
		`INSERT INTO "user" (user_name, email) VALUES ($1, $2) RETURNING `+userColumns,
		name, email,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating user: %w", err)
	}

	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("user", "a user with these values already exists")
		}
		return nil, fmt.Errorf("postgres: creating user: %w", err)
	}

	return &u, nil
}

func (db *DB) GetByID(ctx context.Context, id int64) (*model.User, error) {
	rows, err := db.pool.Query(ctx, `SELECT `+userColumns+` FROM "user" WHERE user_id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("postgres: getting user %d: %w", id, err)
	}

	return collectOne(rows, id, "getting")
}

// Replace overwrites both mutable columns; an unknown id yields no row and
// therefore apperror.NotFound.
func (db *DB) Replace(ctx context.Context, user model.User) (*model.User, error) {
	rows, err := db.pool.Query(ctx,
		`UPDATE "user" SET user_name = $1, email = $2 WHERE user_id = $3 RETURNING `+userColumns,
		user.Name, user.Email, user.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: replacing user %d: %w", user.ID, err)
	}

	return collectOne(rows, user.ID, "replacing")
}

func (db *DB) Delete(ctx context.Context, id int64) (*model.User, error) {
	rows, err := db.pool.Query(ctx, `DELETE FROM "user" WHERE user_id = $1 RETURNING `+userColumns, id)
	if err != nil {
		return nil, fmt.Errorf("postgres: deleting user %d: %w", id, err)
	}

	return collectOne(rows, id, "deleting")
}

func collectOne(rows pgx.Rows, id int64, action string) (*model.User, error) {
	u, err := pgx.CollectExactlyOneRow(rows, scanUser)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return nil, apperror.NotFound("user", id)
	case isUniqueViolation(err):
		return nil, apperror.Conflict("user", "a user with these values already exists")
	case err != nil:
		return nil, fmt.Errorf("postgres: %s user %d: %w", action, id, err)
	}
	return &u, nil
}

func scanUser(row pgx.CollectableRow) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Name, &u.Email)
	return u, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

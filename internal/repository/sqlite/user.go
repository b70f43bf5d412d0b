package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	msqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/sakif/user-api/internal/apperror"
	"github.com/sakif/user-api/internal/model"
	"github.com/sakif/user-api/internal/repository"
)

// compile-time check that *DB implements repository.UserRepository
var _ repository.UserRepository = (*DB)(nil)

const userColumns = `user_id, user_name, email`

// List returns every user ordered by user_id.
//
// The slice is allocated up front so an empty table encodes as [] rather
// than null.
func (db *DB) List(ctx context.Context) ([]model.User, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+userColumns+` FROM "user" ORDER BY user_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		var u model.User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("sqlite: scanning user row: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating users: %w", err)
	}

	return users, nil
}

// Create inserts a user and returns the stored row, including the user_id
// SQLite assigned. RETURNING saves a second SELECT.
func (db *DB) Create(ctx context.Context, name, email string) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx,
		`INSERT INTO "user" (user_name, email) VALUES (?, ?)
		 RETURNING `+userColumns,
		name, email,
	).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("user", "a user with these values already exists")
		}
		return nil, fmt.Errorf("sqlite: creating user: %w", err)
	}

	return &u, nil
}

// GetByID retrieves a single user. sql.ErrNoRows becomes apperror.NotFound.
func (db *DB) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM "user" WHERE user_id = ?`,
		id,
	).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: getting user %d: %w", id, err)
	}

	return &u, nil
}

// Replace overwrites user_name and email of the row with user.ID.
//
// The UPDATE ... RETURNING yields no row when the id is unknown, which is how
// not-found is detected without a separate existence check.
func (db *DB) Replace(ctx context.Context, user model.User) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx,
		`UPDATE "user" SET user_name = ?, email = ? WHERE user_id = ?
		 RETURNING `+userColumns,
		user.Name, user.Email, user.ID,
	).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", user.ID)
		}
		if isUniqueViolation(err) {
			return nil, apperror.Conflict("user", "a user with these values already exists")
		}
		return nil, fmt.Errorf("sqlite: replacing user %d: %w", user.ID, err)
	}

	return &u, nil
}

// Delete removes the row and returns what it held.
func (db *DB) Delete(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := db.conn.QueryRowContext(ctx,
		`DELETE FROM "user" WHERE user_id = ? RETURNING `+userColumns,
		id,
	).Scan(&u.ID, &u.Name, &u.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("user", id)
		}
		return nil, fmt.Errorf("sqlite: deleting user %d: %w", id, err)
	}

	return &u, nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

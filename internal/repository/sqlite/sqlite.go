// Package sqlite is the default user store.
//
// It needs no server, and ":memory:" gives every test a throwaway database.
// modernc.org/sqlite is a pure Go build of SQLite, registered with
// database/sql as "sqlite", so the binary builds without cgo.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	_ "modernc.org/sqlite"

	"github.com/sakif/user-api/internal/repository"
)

const memoryPath = ":memory:"

var _ repository.Store = (*DB)(nil)

// DB is a SQLite-backed repository.Store.
type DB struct {
	conn *sql.DB
}

// New opens (creating if needed) the database at dbPath and migrates it.
// Pass ":memory:" for a private in-memory database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening %s: %w", dbPath, err)
	}

	// Each connection to ":memory:" sees its own empty database.
	if dbPath == memoryPath {
		conn.SetMaxOpenConns(1)
	}

	db := &DB{conn: conn}
	ctx := context.Background()

	// sql.Open is lazy; connect now so a bad path fails at startup.
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: connecting to %s: %w", dbPath, err)
	}
	if err := db.migrate(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: migrating: %w", err)
	}
	return db, nil
}

// dsn applies per-connection pragmas through the driver's _pragma query
// parameters, so every pooled connection gets them, not just the first.
func dsn(dbPath string) string {
	q := url.Values{}
	q.Add("_pragma", "busy_timeout(5000)")
	if dbPath != memoryPath {
		q.Add("_pragma", "journal_mode(WAL)")
	}
	return "file:" + dbPath + "?" + q.Encode()
}

func (db *DB) Ping(ctx context.Context) error {
	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("sqlite: ping: %w", err)
	}
	return nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate is idempotent. AUTOINCREMENT keeps deleted user_ids from being
// handed out again.
func (db *DB) migrate(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS "user" (
			user_id   INTEGER PRIMARY KEY AUTOINCREMENT,
			user_name TEXT    NOT NULL,
			email     TEXT    NOT NULL
		)`
	if _, err := db.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating user table: %w", err)
	}
	return nil
}

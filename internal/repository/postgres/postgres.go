// Package postgres implements the repository interfaces on PostgreSQL using
// pgx's native connection pool.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sakif/user-api/internal/repository"
)

var _ repository.Store = (*DB)(nil)

// Config tunes the pool. Zero values keep pgx's defaults.
type Config struct {
	URL               string
	MaxConns          int32
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

// DB wraps a pgxpool.Pool and provides repository methods.
type DB struct {
	pool *pgxpool.Pool
}

// New connects to cfg.URL, verifies the connection and runs migrations.
func New(ctx context.Context, cfg Config) (*DB, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("postgres: parsing database url: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MaxConnIdleTime > 0 {
		poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.HealthCheckPeriod > 0 {
		poolCfg.HealthCheckPeriod = cfg.HealthCheckPeriod
	}
	// Every statement is parameterized and repeated; cache the prepared forms.
	poolCfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheStatement

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("postgres: creating pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: pinging database: %w", err)
	}

	db := &DB{pool: pool}
	if err := db.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres: running migrations: %w", err)
	}

	return db, nil
}

// Ping reports whether the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if err := db.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: ping: %w", err)
	}
	return nil
}

// Close releases every pooled connection. It always returns nil; the error
// return satisfies repository.Store.
func (db *DB) Close() error {
	db.pool.Close()
	return nil
}

// migrate creates the schema. BIGSERIAL is backed by a sequence, so ids are
// never reused after a delete.
func (db *DB) migrate(ctx context.Context) error {
	_, err := db.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS "user" (
			user_id   BIGSERIAL PRIMARY KEY,
			user_name TEXT NOT NULL,
			email     TEXT NOT NULL
		)
	`)
	if err != nil {
		return fmt.Errorf("creating user table: %w", err)
	}
	return nil
}

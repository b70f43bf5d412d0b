// Package main is the entry point for the user API server.
//
// main stays small: read configuration, build the logger and the storage
// backend, then hand both to internal/server. Everything else lives in
// internal packages.
//
//	user-api                  # same as "user-api serve"
//	user-api serve --port 9000 --driver postgres --database-url postgres://...
//	user-api migrate          # create the schema and exit
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sakif/user-api/internal/config"
	"github.com/sakif/user-api/internal/repository"
	"github.com/sakif/user-api/internal/repository/postgres"
	sqliteRepo "github.com/sakif/user-api/internal/repository/sqlite"
	"github.com/sakif/user-api/internal/server"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := newRootCmd(&cfg).Execute(); err != nil {
		// cobra has already printed the error.
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. Flag defaults come from cfg, which
// already holds env values, so flags win over env.
func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:          "user-api",
		Short:        "HTTP API for user records",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), *cfg)
		},
	}

	flags := root.PersistentFlags()
	flags.IntVar(&cfg.Port, "port", cfg.Port, "HTTP listen port (env PORT)")
	flags.StringVar(&cfg.Driver, "driver", cfg.Driver, "storage driver: sqlite or postgres (env DB_DRIVER)")
	flags.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "SQLite database file (env DB_PATH)")
	flags.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "Postgres connection URL (env DATABASE_URL)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error (env LOG_LEVEL)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Run the HTTP server (default)",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runServe(cmd.Context(), *cfg)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create the schema and exit",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return runMigrate(cmd.Context(), *cfg)
			},
		},
	)

	return root
}

func newLogger(cfg config.Config) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
}

func runServe(ctx context.Context, cfg config.Config) error {
	logger := newLogger(cfg)

	// SIGINT/SIGTERM cancel ctx, which starts the graceful shutdown.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		logger.Error("failed to open store", slog.String("driver", cfg.Driver), slog.String("error", err.Error()))
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Error("closing store", slog.String("error", err.Error()))
		}
	}()

	srv := server.New(cfg, logger, store)
	if err := srv.Start(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// runMigrate relies on both backends migrating when they open.
func runMigrate(ctx context.Context, cfg config.Config) error {
	logger := newLogger(cfg)

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	logger.Info("schema is up to date", slog.String("driver", cfg.Driver))
	return nil
}

// openStore builds the configured backend. For SQLite the parent directory
// of the database file is created if needed.
func openStore(ctx context.Context, cfg config.Config) (repository.Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		return postgres.New(ctx, postgres.Config{
			URL:      cfg.DatabaseURL,
			MaxConns: cfg.DBMaxConns,
		})
	default:
		if cfg.DBPath != ":memory:" {
			dir := filepath.Dir(cfg.DBPath)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
			}
		}
		return sqliteRepo.New(cfg.DBPath)
	}
}

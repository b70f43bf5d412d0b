package main

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/user-api/internal/config"
)

func TestFlagsOverrideEnv(t *testing.T) {
	cfg, err := config.FromEnv(func(k string) string {
		return map[string]string{"PORT": "7000", "LOG_LEVEL": "warn"}[k]
	})
	require.NoError(t, err)

	cmd := newRootCmd(&cfg)
	require.NoError(t, cmd.PersistentFlags().Parse([]string{"--port", "9001"}))

	assert.Equal(t, 9001, cfg.Port, "flag wins over env")
	assert.Equal(t, "warn", cfg.LogLevel, "env kept when flag is absent")
}

func TestMigrate_CreatesSQLiteFile(t *testing.T) {
	cfg := config.Defaults()
	cfg.LogLevel = "error"
	dbPath := filepath.Join(t.TempDir(), "nested", "users.db")

	cmd := newRootCmd(&cfg)
	cmd.SetArgs([]string{"migrate", "--db-path", dbPath})
	require.NoError(t, cmd.ExecuteContext(context.Background()))

	assert.FileExists(t, dbPath)
}

func TestInvalidConfigRejected(t *testing.T) {
	cfg := config.Defaults()

	cmd := newRootCmd(&cfg)
	cmd.SetArgs([]string{"migrate", "--driver", "mysql"})
	cmd.SilenceErrors = true

	err := cmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}

func TestOpenStore_SQLiteMemory(t *testing.T) {
	cfg := config.Defaults()
	cfg.DBPath = ":memory:"

	store, err := openStore(context.Background(), cfg)
	require.NoError(t, err)
	defer store.Close()

	assert.NoError(t, store.Ping(context.Background()))
}

package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envMap(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv(envMap(nil))
	require.NoError(t, err)

	assert.Equal(t, Defaults(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg, err := FromEnv(envMap(map[string]string{
		"PORT":              "9090",
		"DB_DRIVER":         "postgres",
		"DATABASE_URL":      "postgres://localhost/users",
		"DB_MAX_CONNS":      "12",
		"LOG_LEVEL":         "debug",
		"HTTP_READ_TIMEOUT": "3s",
		"SHUTDOWN_TIMEOUT":  "1m",
	}))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.Driver)
	assert.Equal(t, "postgres://localhost/users", cfg.DatabaseURL)
	assert.Equal(t, int32(12), cfg.DBMaxConns)
	assert.Equal(t, 3*time.Second, cfg.ReadTimeout)
	assert.Equal(t, time.Minute, cfg.ShutdownTimeout)
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
	assert.NoError(t, cfg.Validate())
}

func TestFromEnv_BadValues(t *testing.T) {
	_, err := FromEnv(envMap(map[string]string{
		"PORT":              "eighty",
		"HTTP_IDLE_TIMEOUT": "forever",
	}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PORT")
	assert.Contains(t, err.Error(), "HTTP_IDLE_TIMEOUT")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"port too high", func(c *Config) { c.Port = 70000 }, "port"},
		{"unknown driver", func(c *Config) { c.Driver = "mysql" }, "unknown driver"},
		{"postgres without url", func(c *Config) { c.Driver = DriverPostgres }, "DATABASE_URL"},
		{"sqlite without path", func(c *Config) { c.DBPath = "" }, "database path"},
		{"bad log level", func(c *Config) { c.LogLevel = "chatty" }, "log level"},
		{"zero timeout", func(c *Config) { c.WriteTimeout = 0 }, "write timeout"},
		{"negative pool", func(c *Config) { c.DBMaxConns = -1 }, "max connections"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("HTTP_IDLE_TIMEOUT=90s\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("HTTP_IDLE_TIMEOUT") })

	cfg, err := Load(envFile)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.IdleTimeout)
}

func TestLoad_MissingFileIsFine(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.env"))
	assert.NoError(t, err)
}

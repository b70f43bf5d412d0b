// Package config loads server settings from the environment.
//
// Precedence, lowest to highest:
//  1. Defaults()
//  2. .env files (godotenv never overrides variables already set)
//  3. process environment
//  4. command-line flags (bound in cmd/server)
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config holds server configuration.
type Config struct {
	Port   int
	Driver string

	DBPath       string // sqlite
	DatabaseURL  string // postgres
	DBMaxConns   int32  // postgres; 0 keeps the pgx default
	LogLevel     string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	ShutdownTimeout time.Duration
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Port:            8080,
		Driver:          DriverSQLite,
		DBPath:          "data/users.db",
		LogLevel:        "info",
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    15 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 30 * time.Second,
	}
}

// Load reads the given .env files (".env" when none are named; missing files
// are skipped) and then builds a Config from the environment.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config: loading %s: %w", f, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv, starting from Defaults.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Defaults()

	var errs []error
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	integer := func(key string, dst *int) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid integer %q", key, v))
				return
			}
			*dst = n
		}
	}
	duration := func(key string, dst *time.Duration) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s: invalid duration %q", key, v))
				return
			}
			*dst = d
		}
	}

	integer("PORT", &cfg.Port)
	str("DB_DRIVER", &cfg.Driver)
	str("DB_PATH", &cfg.DBPath)
	str("DATABASE_URL", &cfg.DatabaseURL)
	str("LOG_LEVEL", &cfg.LogLevel)
	duration("HTTP_READ_TIMEOUT", &cfg.ReadTimeout)
	duration("HTTP_WRITE_TIMEOUT", &cfg.WriteTimeout)
	duration("HTTP_IDLE_TIMEOUT", &cfg.IdleTimeout)
	duration("SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)

	var maxConns int
	integer("DB_MAX_CONNS", &maxConns)
	cfg.DBMaxConns = int32(maxConns)

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.Port < 1 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port %d out of range 1-65535", c.Port))
	}
	switch c.Driver {
	case DriverSQLite:
		if c.DBPath == "" {
			errs = append(errs, errors.New("sqlite driver requires a database path"))
		}
	case DriverPostgres:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("postgres driver requires DATABASE_URL"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown driver %q (want %s or %s)", c.Driver, DriverSQLite, DriverPostgres))
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.DBMaxConns < 0 {
		errs = append(errs, fmt.Errorf("max connections %d must not be negative", c.DBMaxConns))
	}
	for name, d := range map[string]time.Duration{
		"read timeout":     c.ReadTimeout,
		"write timeout":    c.WriteTimeout,
		"idle timeout":     c.IdleTimeout,
		"shutdown timeout": c.ShutdownTimeout,
	} {
		if d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, d))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// SlogLevel converts LogLevel for slog.HandlerOptions. Call Validate first;
// an unknown level falls back to info.
func (c Config) SlogLevel() slog.Level {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
	return lvl, nil
}

package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/sakif/user-api/internal/apperror"
	"github.com/sakif/user-api/internal/model"
	"github.com/sakif/user-api/internal/repository"
	"github.com/sakif/user-api/internal/repository/repotest"
)

// newTestDB returns a fresh in-memory database. t.Helper makes failures point
// at the caller; t.Cleanup closes the pool when the (sub)test ends.
func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestUserRepository(t *testing.T) {
	repotest.RunUserRepository(t, func(t *testing.T) repository.UserRepository {
		return newTestDB(t)
	})
}

func TestNew_MigrationIsIdempotent(t *testing.T) {
	db := newTestDB(t)

	if err := db.migrate(context.Background()); err != nil {
		t.Fatalf("second migrate() error = %v", err)
	}
}

func TestPing(t *testing.T) {
	db := newTestDB(t)

	if err := db.Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error = %v", err)
	}
}

func TestPing_AfterClose(t *testing.T) {
	db, err := New(":memory:")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	db.Close()

	if err := db.Ping(context.Background()); err == nil {
		t.Fatal("Ping() on a closed database should fail")
	}
}

// TestCreate_UniqueViolationIsConflict adds a unique index the default schema
// does not have and checks the driver error is translated.
func TestCreate_UniqueViolationIsConflict(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	if _, err := db.conn.ExecContext(ctx, `CREATE UNIQUE INDEX idx_user_email ON "user"(email)`); err != nil {
		t.Fatalf("creating unique index: %v", err)
	}

	repotest.MustCreate(t, db, "ada", "ada@example.com")

	_, err := db.Create(ctx, "imposter", "ada@example.com")
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Create() duplicate email: error = %v, want ErrConflict", err)
	}

	other := repotest.MustCreate(t, db, "grace", "grace@example.com")
	_, err = db.Replace(ctx, model.User{ID: other.ID, Name: "grace", Email: "ada@example.com"})
	if !errors.Is(err, apperror.ErrConflict) {
		t.Errorf("Replace() duplicate email: error = %v, want ErrConflict", err)
	}
}

func TestCanceledContext(t *testing.T) {
	db := newTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := db.List(ctx); err == nil {
		t.Error("List() with a canceled context should fail")
	}
}

func TestNew_FileDatabasePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.db")

	db, err := New(path)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	created := repotest.MustCreate(t, db, "ada", "ada@example.com")
	db.Close()

	reopened, err := New(path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	t.Cleanup(func() { reopened.Close() })

	got, err := reopened.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("GetByID() after reopen error = %v", err)
	}
	if *got != *created {
		t.Errorf("GetByID() = %+v, want %+v", *got, *created)
	}
}

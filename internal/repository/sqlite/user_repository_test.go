package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"todo-tracker/internal/domain"
	"todo-tracker/internal/repository"
)

// openTestDB opens a shared in-memory database unique to the test.
func openTestDB(t *testing.T, name string) *sql.DB {
	t.Helper()
	db, err := Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestUserRepository_CreateAndGet(t *testing.T) {
	db := openTestDB(t, "userrepo")
	repo := NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	user := &domain.User{Username: "alice", PasswordHash: "hash"}
	id, err := repo.Create(ctx, user)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if id == 0 || user.ID != id {
		t.Fatalf("unexpected id: %d (user.ID=%d)", id, user.ID)
	}

	got, err := repo.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("get by username: %v", err)
	}
	if got.ID != id || got.PasswordHash != "hash" {
		t.Fatalf("unexpected user: %+v", got)
	}

	got, err = repo.GetByID(ctx, id)
	if err != nil || got.Username != "alice" {
		t.Fatalf("get by id: %v %+v", err, got)
	}
}

func TestUserRepository_DuplicateUsername(t *testing.T) {
	db := openTestDB(t, "userrepo-dup")
	repo := NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	if _, err := repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h1"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := repo.Create(ctx, &domain.User{Username: "alice", PasswordHash: "h2"})
	if !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	// the first record is untouched
	got, err := repo.GetByUsername(ctx, "alice")
	if err != nil || got.PasswordHash != "h1" {
		t.Fatalf("surviving record: %v %+v", err, got)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM users WHERE username = 'alice'`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one user row, got %d", count)
	}
}

func TestUserRepository_NotFound(t *testing.T) {
	db := openTestDB(t, "userrepo-missing")
	repo := NewUserRepository(db)
	ctx := context.Background()

	if err := repo.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}

	if _, err := repo.GetByUsername(ctx, "ghost"); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := repo.GetByID(ctx, 42); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

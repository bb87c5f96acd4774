package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"todo-tracker/internal/domain"
	"todo-tracker/internal/repository"
	"todo-tracker/internal/repository/sqlite"
)

func newTodoService(t *testing.T, name string) (*todoService, repository.UserRepository) {
	t.Helper()
	db, err := sqlite.Open("file:" + name + "?mode=memory&cache=shared")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	users := sqlite.NewUserRepository(db)
	if err := users.Init(ctx); err != nil {
		t.Fatalf("init users: %v", err)
	}
	todos := sqlite.NewTodoRepository(db)
	if err := todos.Init(ctx); err != nil {
		t.Fatalf("init todos: %v", err)
	}
	return &todoService{todos: todos, now: time.Now}, users
}

func newOwner(t *testing.T, users repository.UserRepository, username string) int64 {
	t.Helper()
	id, err := users.Create(context.Background(), &domain.User{Username: username, PasswordHash: "x"})
	if err != nil {
		t.Fatalf("create owner: %v", err)
	}
	return id
}

func TestTodoService_CreateValidation(t *testing.T) {
	svc, users := newTodoService(t, "todosvc-validate")
	ctx := context.Background()
	alice := newOwner(t, users, "alice")

	if _, err := svc.Create(ctx, alice, "", "memo"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("empty title: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(ctx, alice, "   ", "memo"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("blank title: expected ErrInvalidInput, got %v", err)
	}
	if _, err := svc.Create(ctx, alice, strings.Repeat("x", 101), ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("oversized title: expected ErrInvalidInput, got %v", err)
	}

	todo, err := svc.Create(ctx, alice, "  Buy milk  ", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if todo.Title != "Buy milk" {
		t.Fatalf("title not trimmed: %q", todo.Title)
	}
	if todo.CompletedAt != nil {
		t.Fatal("new todo must start incomplete")
	}
}

func TestTodoService_CompleteIsMonotonic(t *testing.T) {
	svc, users := newTodoService(t, "todosvc-complete")
	ctx := context.Background()
	alice := newOwner(t, users, "alice")

	todo, err := svc.Create(ctx, alice, "Buy milk", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	first := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return first }
	if err := svc.Complete(ctx, alice, todo.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	current, err := svc.ListCurrent(ctx, alice)
	if err != nil || len(current) != 0 {
		t.Fatalf("current after complete: %v len=%d", err, len(current))
	}
	completed, err := svc.ListCompleted(ctx, alice)
	if err != nil || len(completed) != 1 {
		t.Fatalf("completed after complete: %v len=%d", err, len(completed))
	}
	if !completed[0].CompletedAt.Equal(first) {
		t.Fatalf("completedAt = %v, want %v", completed[0].CompletedAt, first)
	}

	// re-completion overwrites the timestamp, the todo never returns
	// to the current list
	second := first.Add(time.Hour)
	svc.now = func() time.Time { return second }
	if err := svc.Complete(ctx, alice, todo.ID); err != nil {
		t.Fatalf("re-complete: %v", err)
	}
	completed, _ = svc.ListCompleted(ctx, alice)
	if len(completed) != 1 || !completed[0].CompletedAt.Equal(second) {
		t.Fatalf("re-completion: %+v", completed)
	}
	current, _ = svc.ListCurrent(ctx, alice)
	if len(current) != 0 {
		t.Fatal("completed todo reappeared in current list")
	}
}

func TestTodoService_ListCompletedOrdering(t *testing.T) {
	svc, users := newTodoService(t, "todosvc-order")
	ctx := context.Background()
	alice := newOwner(t, users, "alice")

	base := time.Date(2026, 8, 1, 9, 0, 0, 0, time.UTC)
	titles := []string{"t1", "t2", "t3"}
	for i, title := range titles {
		todo, err := svc.Create(ctx, alice, title, "")
		if err != nil {
			t.Fatalf("create %s: %v", title, err)
		}
		stamp := base.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return stamp }
		if err := svc.Complete(ctx, alice, todo.ID); err != nil {
			t.Fatalf("complete %s: %v", title, err)
		}
	}

	completed, err := svc.ListCompleted(ctx, alice)
	if err != nil {
		t.Fatalf("list completed: %v", err)
	}
	for i, want := range []string{"t3", "t2", "t1"} {
		if completed[i].Title != want {
			t.Fatalf("completed[%d] = %q, want %q", i, completed[i].Title, want)
		}
	}
}

func TestTodoService_OwnerScoping(t *testing.T) {
	svc, users := newTodoService(t, "todosvc-owner")
	ctx := context.Background()
	alice := newOwner(t, users, "alice")
	bob := newOwner(t, users, "bob")

	todo, err := svc.Create(ctx, alice, "private", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Get(ctx, bob, todo.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("get as bob: expected ErrTodoNotFound, got %v", err)
	}
	if _, err := svc.Update(ctx, bob, todo.ID, "hijacked", ""); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("update as bob: expected ErrTodoNotFound, got %v", err)
	}
	if err := svc.Complete(ctx, bob, todo.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("complete as bob: expected ErrTodoNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, bob, todo.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("delete as bob: expected ErrTodoNotFound, got %v", err)
	}

	got, err := svc.Get(ctx, alice, todo.ID)
	if err != nil || got.Title != "private" || got.CompletedAt != nil {
		t.Fatalf("todo mutated by cross-user attempts: %v %+v", err, got)
	}
}

func TestTodoService_UpdateInvalidKeepsStoredValues(t *testing.T) {
	svc, users := newTodoService(t, "todosvc-update")
	ctx := context.Background()
	alice := newOwner(t, users, "alice")

	todo, err := svc.Create(ctx, alice, "original", "memo")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := svc.Update(ctx, alice, todo.ID, "", "new memo"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	got, err := svc.Get(ctx, alice, todo.ID)
	if err != nil || got.Title != "original" || got.Memo != "memo" {
		t.Fatalf("stored values changed: %v %+v", err, got)
	}

	updated, err := svc.Update(ctx, alice, todo.ID, "renamed", "new memo")
	if err != nil || updated.Title != "renamed" || updated.Memo != "new memo" {
		t.Fatalf("valid update: %v %+v", err, updated)
	}
}

func TestTodoService_DeleteRemovesEverywhere(t *testing.T) {
	svc, users := newTodoService(t, "todosvc-delete")
	ctx := context.Background()
	alice := newOwner(t, users, "alice")

	todo, err := svc.Create(ctx, alice, "short lived", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, alice, todo.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.Get(ctx, alice, todo.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("get after delete: expected ErrTodoNotFound, got %v", err)
	}
	if err := svc.Delete(ctx, alice, todo.ID); !errors.Is(err, ErrTodoNotFound) {
		t.Fatalf("second delete: expected ErrTodoNotFound, got %v", err)
	}
}

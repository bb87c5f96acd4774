package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"todo-tracker/internal/domain"
	"todo-tracker/internal/repository"
)

const createTodosTable = `
CREATE TABLE IF NOT EXISTS todos (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	owner_id INTEGER NOT NULL REFERENCES users(id),
	title TEXT NOT NULL,
	memo TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	completed_at DATETIME NULL
);
CREATE INDEX IF NOT EXISTS idx_todos_owner ON todos(owner_id);
`

type TodoRepository struct {
	db *sql.DB
}

func NewTodoRepository(db *sql.DB) repository.TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createTodosTable); err != nil {
		return fmt.Errorf("create todos table: %w", err)
	}
	return nil
}

func (r *TodoRepository) Create(ctx context.Context, todo *domain.Todo) (int64, error) {
	todo.CreatedAt = time.Now().UTC()

	res, err := r.db.ExecContext(ctx, `
INSERT INTO todos (owner_id, title, memo, created_at, completed_at)
VALUES (?, ?, ?, ?, ?)`,
		todo.OwnerID,
		todo.Title,
		todo.Memo,
		todo.CreatedAt,
		nullTime(todo.CompletedAt),
	)
	if err != nil {
		return 0, fmt.Errorf("insert todo: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("todo last insert id: %w", err)
	}
	todo.ID = id
	return id, nil
}

func (r *TodoRepository) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*domain.Todo, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, owner_id, title, memo, created_at, completed_at
FROM todos
WHERE id = ? AND owner_id = ?`,
		id,
		ownerID,
	)
	return scanTodo(row)
}

func (r *TodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE todos
SET title = ?, memo = ?
WHERE id = ? AND owner_id = ?`,
		todo.Title,
		todo.Memo,
		todo.ID,
		todo.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("update todo: %w", err)
	}
	return requireAffected(res)
}

func (r *TodoRepository) MarkCompleted(ctx context.Context, id, ownerID int64, completedAt time.Time) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE todos
SET completed_at = ?
WHERE id = ? AND owner_id = ?`,
		completedAt.UTC(),
		id,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("mark todo completed: %w", err)
	}
	return requireAffected(res)
}

func (r *TodoRepository) Delete(ctx context.Context, id, ownerID int64) error {
	res, err := r.db.ExecContext(ctx, `
DELETE FROM todos
WHERE id = ? AND owner_id = ?`,
		id,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	return requireAffected(res)
}

func (r *TodoRepository) ListCurrent(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	return r.list(ctx, `
SELECT id, owner_id, title, memo, created_at, completed_at
FROM todos
WHERE owner_id = ? AND completed_at IS NULL
ORDER BY created_at ASC, id ASC`,
		ownerID,
	)
}

func (r *TodoRepository) ListCompleted(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	return r.list(ctx, `
SELECT id, owner_id, title, memo, created_at, completed_at
FROM todos
WHERE owner_id = ? AND completed_at IS NOT NULL
ORDER BY completed_at DESC, id DESC`,
		ownerID,
	)
}

func (r *TodoRepository) list(ctx context.Context, query string, args ...any) ([]domain.Todo, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query todos: %w", err)
	}
	defer rows.Close()

	var todos []domain.Todo
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, err
		}
		todos = append(todos, *todo)
	}

	return todos, rows.Err()
}

func scanTodo(scanner interface {
	Scan(dest ...any) error
}) (*domain.Todo, error) {
	var (
		todo        domain.Todo
		completedAt sql.NullTime
	)

	if err := scanner.Scan(
		&todo.ID,
		&todo.OwnerID,
		&todo.Title,
		&todo.Memo,
		&todo.CreatedAt,
		&completedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan todo: %w", err)
	}

	if completedAt.Valid {
		t := completedAt.Time
		todo.CompletedAt = &t
	}

	return &todo, nil
}

func requireAffected(res sql.Result) error {
	aff, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if aff == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}

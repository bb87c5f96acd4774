package repository

import (
	"context"
	"time"

	"todo-tracker/internal/domain"
)

// TodoRepository exposes persistence operations for Todo records.
// Every single-record operation filters on both primary key and owner
// in one query; a miss for either reason is ErrNotFound.
type TodoRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, todo *domain.Todo) (int64, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) error
	MarkCompleted(ctx context.Context, id, ownerID int64, completedAt time.Time) error
	Delete(ctx context.Context, id, ownerID int64) error
	ListCurrent(ctx context.Context, ownerID int64) ([]domain.Todo, error)
	ListCompleted(ctx context.Context, ownerID int64) ([]domain.Todo, error)
}

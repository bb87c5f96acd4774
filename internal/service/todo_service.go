package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"todo-tracker/internal/domain"
	"todo-tracker/internal/repository"
)

// ErrTodoNotFound covers both a missing record and one owned by a
// different user. The two cases are indistinguishable to the caller.
var ErrTodoNotFound = errors.New("todo not found")

const maxTitleLength = 100

// TodoService coordinates todo operations scoped to the owning user.
type TodoService interface {
	Create(ctx context.Context, ownerID int64, title, memo string) (*domain.Todo, error)
	Get(ctx context.Context, ownerID, id int64) (*domain.Todo, error)
	Update(ctx context.Context, ownerID, id int64, title, memo string) (*domain.Todo, error)
	Complete(ctx context.Context, ownerID, id int64) error
	Delete(ctx context.Context, ownerID, id int64) error
	ListCurrent(ctx context.Context, ownerID int64) ([]domain.Todo, error)
	ListCompleted(ctx context.Context, ownerID int64) ([]domain.Todo, error)
}

type todoService struct {
	todos repository.TodoRepository
	now   func() time.Time
}

func NewTodoService(todos repository.TodoRepository) TodoService {
	return &todoService{
		todos: todos,
		now:   time.Now,
	}
}

func (s *todoService) Create(ctx context.Context, ownerID int64, title, memo string) (*domain.Todo, error) {
	title = strings.TrimSpace(title)
	if err := validateTodo(title); err != nil {
		return nil, err
	}

	todo := &domain.Todo{
		OwnerID: ownerID,
		Title:   title,
		Memo:    memo,
	}

	if _, err := s.todos.Create(ctx, todo); err != nil {
		return nil, err
	}
	return todo, nil
}

func (s *todoService) Get(ctx context.Context, ownerID, id int64) (*domain.Todo, error) {
	todo, err := s.todos.GetByIDAndOwner(ctx, id, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

func (s *todoService) Update(ctx context.Context, ownerID, id int64, title, memo string) (*domain.Todo, error) {
	todo, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	title = strings.TrimSpace(title)
	if err := validateTodo(title); err != nil {
		return nil, err
	}

	todo.Title = title
	todo.Memo = memo
	if err := s.todos.Update(ctx, todo); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, err
	}
	return todo, nil
}

// Complete stamps the current server time. Re-completing an already
// completed todo overwrites the timestamp.
func (s *todoService) Complete(ctx context.Context, ownerID, id int64) error {
	if err := s.todos.MarkCompleted(ctx, id, ownerID, s.now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTodoNotFound
		}
		return err
	}
	return nil
}

func (s *todoService) Delete(ctx context.Context, ownerID, id int64) error {
	if err := s.todos.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTodoNotFound
		}
		return err
	}
	return nil
}

func (s *todoService) ListCurrent(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	return s.todos.ListCurrent(ctx, ownerID)
}

func (s *todoService) ListCompleted(ctx context.Context, ownerID int64) ([]domain.Todo, error) {
	return s.todos.ListCompleted(ctx, ownerID)
}

func validateTodo(title string) error {
	if title == "" || utf8.RuneCountInString(title) > maxTitleLength {
		return ErrInvalidInput
	}
	return nil
}

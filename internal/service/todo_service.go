package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
	"github.com/Tomlord1122/todo-tracker/internal/form"
	"github.com/Tomlord1122/todo-tracker/internal/repository"
)

// TodoService defines the todo operations available to an authenticated
// owner. Todos of other owners are reported as domain.ErrNotFound.
type TodoService interface {
	CreateTodo(ctx context.Context, owner Identity, p form.TodoPayload) (*domain.Todo, error)
	ListActive(ctx context.Context, owner Identity) ([]domain.Todo, error)
	ListCompleted(ctx context.Context, owner Identity) ([]domain.Todo, error)
	GetTodo(ctx context.Context, owner Identity, id uint) (*domain.Todo, error)
	UpdateTodo(ctx context.Context, owner Identity, id uint, p form.TodoPayload) (*domain.Todo, error)
	CompleteTodo(ctx context.Context, owner Identity, id uint) (*domain.Todo, error)
	DeleteTodo(ctx context.Context, owner Identity, id uint) error
}

type todoService struct {
	repo   repository.TodoRepository
	now    func() time.Time
	logger *slog.Logger
}

// NewTodoService creates a TodoService over repo. now stamps completions;
// nil means time.Now.
func NewTodoService(repo repository.TodoRepository, now func() time.Time, logger *slog.Logger) TodoService {
	if now == nil {
		now = time.Now
	}
	return &todoService{repo: repo, now: now, logger: logger.With("component", "todos")}
}

func (s *todoService) CreateTodo(ctx context.Context, owner Identity, p form.TodoPayload) (*domain.Todo, error) {
	todo, err := p.NewTodo(owner.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	s.logger.Debug("todo created", "todo_id", todo.ID, "user_id", owner.UserID)
	return todo, nil
}

func (s *todoService) ListActive(ctx context.Context, owner Identity) ([]domain.Todo, error) {
	todos, err := s.repo.FindActive(ctx, owner.UserID)
	if err != nil {
		return nil, fmt.Errorf("list active todos: %w", err)
	}
	return todos, nil
}

func (s *todoService) ListCompleted(ctx context.Context, owner Identity) ([]domain.Todo, error) {
	todos, err := s.repo.FindCompleted(ctx, owner.UserID)
	if err != nil {
		return nil, fmt.Errorf("list completed todos: %w", err)
	}
	return todos, nil
}

func (s *todoService) GetTodo(ctx context.Context, owner Identity, id uint) (*domain.Todo, error) {
	todo, err := s.repo.FindByIDAndOwner(ctx, id, owner.UserID)
	if err != nil {
		return nil, wrapLookup(err, id)
	}
	return todo, nil
}

// UpdateTodo applies an edit in place. A rejected edit leaves the stored
// todo untouched.
func (s *todoService) UpdateTodo(ctx context.Context, owner Identity, id uint, p form.TodoPayload) (*domain.Todo, error) {
	todo, err := s.GetTodo(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if err := p.ApplyTo(todo); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, wrapLookup(err, id)
	}
	return todo, nil
}

// CompleteTodo stamps the todo completed now. Completed todos stay as they
// are.
func (s *todoService) CompleteTodo(ctx context.Context, owner Identity, id uint) (*domain.Todo, error) {
	todo, err := s.GetTodo(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	if todo.Completed {
		return todo, nil
	}
	todo.Complete(s.now())
	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, wrapLookup(err, id)
	}
	s.logger.Debug("todo completed", "todo_id", id, "user_id", owner.UserID)
	return todo, nil
}

func (s *todoService) DeleteTodo(ctx context.Context, owner Identity, id uint) error {
	if err := s.repo.Delete(ctx, id, owner.UserID); err != nil {
		return wrapLookup(err, id)
	}
	s.logger.Debug("todo deleted", "todo_id", id, "user_id", owner.UserID)
	return nil
}

func wrapLookup(err error, id uint) error {
	if errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("todo %d: %w", id, domain.ErrNotFound)
	}
	return fmt.Errorf("todo %d: %w", id, err)
}

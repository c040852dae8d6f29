package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Tomlord1122/todo-tracker/internal/domain"
)

// TodoRepository defines the todo data operations. Every lookup and
// mutation is scoped to the owning user.
type TodoRepository interface {
	Create(ctx context.Context, todo *domain.Todo) error
	FindActive(ctx context.Context, ownerID uint) ([]domain.Todo, error)
	FindCompleted(ctx context.Context, ownerID uint) ([]domain.Todo, error)
	FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*domain.Todo, error)
	Update(ctx context.Context, todo *domain.Todo) error
	Delete(ctx context.Context, id, ownerID uint) error
}

// updatableColumns are written by Update. id, owner_id and created_at are
// never rewritten after insert.
var updatableColumns = []string{"title", "memo", "due_date", "completed_at", "important", "completed"}

type gormTodoRepository struct {
	db *gorm.DB
}

// NewGormTodoRepository creates a GORM-backed todo repository.
func NewGormTodoRepository(db *gorm.DB) TodoRepository {
	return &gormTodoRepository{db: db}
}

func (r *gormTodoRepository) Create(ctx context.Context, todo *domain.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

// FindActive returns the owner's open todos in creation order.
func (r *gormTodoRepository) FindActive(ctx context.Context, ownerID uint) ([]domain.Todo, error) {
	var todos []domain.Todo
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND completed = ?", ownerID, false).
		Order("id").
		Find(&todos).Error
	if err != nil {
		return nil, err
	}
	return todos, nil
}

// FindCompleted returns the owner's completed todos, most recently
// completed first.
func (r *gormTodoRepository) FindCompleted(ctx context.Context, ownerID uint) ([]domain.Todo, error) {
	var todos []domain.Todo
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND completed = ?", ownerID, true).
		Order("completed_at DESC").
		Order("id DESC").
		Find(&todos).Error
	if err != nil {
		return nil, err
	}
	return todos, nil
}

func (r *gormTodoRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uint) (*domain.Todo, error) {
	var todo domain.Todo
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&todo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &todo, nil
}

// Update writes the mutable columns of todo. It matches on both id and
// owner, so a todo can never be rewritten through another account.
func (r *gormTodoRepository) Update(ctx context.Context, todo *domain.Todo) error {
	result := r.db.WithContext(ctx).
		Model(todo).
		Where("owner_id = ?", todo.OwnerID).
		Select(updatableColumns).
		Updates(todo)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete removes the todo permanently.
func (r *gormTodoRepository) Delete(ctx context.Context, id, ownerID uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&domain.Todo{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

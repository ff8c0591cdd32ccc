package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	apperrors "apiservices/internal/errors"
	"apiservices/internal/model"
)

// TodoRepository defines TODO persistence operations.
type TodoRepository interface {
	Create(ctx context.Context, todo *model.Todo) error
	Update(ctx context.Context, todo *model.Todo) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Todo, error)
	// List returns items newest first, optionally restricted to one status.
	List(ctx context.Context, status *model.TodoStatus) ([]model.Todo, error)
}

type todoRepository struct {
	db *gorm.DB
}

// NewTodoRepository creates a new TODO repository.
func NewTodoRepository(db *gorm.DB) TodoRepository {
	return &todoRepository{db: db}
}

// Create creates a new TODO item.
func (r *todoRepository) Create(ctx context.Context, todo *model.Todo) error {
	return r.db.WithContext(ctx).Create(todo).Error
}

// Update saves every column of an existing item. UpdatedAt is refreshed by GORM.
func (r *todoRepository) Update(ctx context.Context, todo *model.Todo) error {
	return r.db.WithContext(ctx).Save(todo).Error
}

// Delete removes an item.
func (r *todoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Todo{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrTodoNotFound
	}
	return nil
}

// FindByID finds an item by ID.
func (r *todoRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Todo, error) {
	var todo model.Todo
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&todo).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTodoNotFound
		}
		return nil, err
	}
	return &todo, nil
}

func (r *todoRepository) List(ctx context.Context, status *model.TodoStatus) ([]model.Todo, error) {
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != nil {
		q = q.Where("status = ?", *status)
	}
	todos := []model.Todo{}
	if err := q.Find(&todos).Error; err != nil {
		return nil, err
	}
	return todos, nil
}

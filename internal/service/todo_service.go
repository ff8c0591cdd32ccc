package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	apperrors "apiservices/internal/errors"
	"apiservices/internal/metrics"
	"apiservices/internal/model"
	"apiservices/internal/repository"
)

const maxTodoTitleLength = 200

// TodoFields carries the editable fields of a TODO item. An empty Status
// leaves the current status unchanged.
type TodoFields struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Status      model.TodoStatus
}

// TodoPatch carries a partial update. Nil Title and Status are left
// untouched; Description and DueDate are applied when Set, so a present null
// clears them.
type TodoPatch struct {
	Title       *string
	Description model.Nullable[string]
	DueDate     model.Nullable[time.Time]
	Status      *model.TodoStatus
}

// TodoService handles TODO operations.
type TodoService interface {
	List(ctx context.Context) ([]model.Todo, error)
	ListByStatus(ctx context.Context, status model.TodoStatus) ([]model.Todo, error)
	ListOverdue(ctx context.Context) ([]model.Todo, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Todo, error)
	Create(ctx context.Context, fields TodoFields) (*model.Todo, error)
	Update(ctx context.Context, id uuid.UUID, fields TodoFields) (*model.Todo, error)
	Patch(ctx context.Context, id uuid.UUID, patch TodoPatch) (*model.Todo, error)
	Delete(ctx context.Context, id uuid.UUID) error
	MarkResolved(ctx context.Context, id uuid.UUID) (*model.Todo, error)
	MarkPending(ctx context.Context, id uuid.UUID) (*model.Todo, error)
}

type todoService struct {
	repo    repository.TodoRepository
	metrics metrics.Recorder
	now     func() time.Time
}

// NewTodoService creates a new TODO service.
func NewTodoService(repo repository.TodoRepository, recorder metrics.Recorder) TodoService {
	if recorder == nil {
		recorder = metrics.Nop{}
	}
	return &todoService{
		repo:    repo,
		metrics: recorder,
		now:     time.Now,
	}
}

func (s *todoService) List(ctx context.Context) ([]model.Todo, error) {
	return s.repo.List(ctx, nil)
}

func (s *todoService) ListByStatus(ctx context.Context, status model.TodoStatus) ([]model.Todo, error) {
	return s.repo.List(ctx, &status)
}

// ListOverdue returns pending items whose due date has passed.
func (s *todoService) ListOverdue(ctx context.Context) ([]model.Todo, error) {
	pending := model.TodoStatusPending
	todos, err := s.repo.List(ctx, &pending)
	if err != nil {
		return nil, err
	}
	now := s.now()
	overdue := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if t.IsOverdue(now) {
			overdue = append(overdue, t)
		}
	}
	return overdue, nil
}

func (s *todoService) Get(ctx context.Context, id uuid.UUID) (*model.Todo, error) {
	return s.repo.FindByID(ctx, id)
}

// Create stores a new pending item, resolving it straight away when the
// caller asked for a resolved status.
func (s *todoService) Create(ctx context.Context, fields TodoFields) (*model.Todo, error) {
	title, err := normalizeTitle(fields.Title)
	if err != nil {
		return nil, err
	}
	todo := &model.Todo{
		Title:       title,
		Description: fields.Description,
		DueDate:     fields.DueDate,
		Status:      model.TodoStatusPending,
	}
	if err := s.applyStatus(todo, fields.Status); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}
	return todo, nil
}

// Update replaces every editable field.
func (s *todoService) Update(ctx context.Context, id uuid.UUID, fields TodoFields) (*model.Todo, error) {
	title, err := normalizeTitle(fields.Title)
	if err != nil {
		return nil, err
	}
	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	todo.Title = title
	todo.Description = fields.Description
	todo.DueDate = fields.DueDate
	if err := s.applyStatus(todo, fields.Status); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("update todo: %w", err)
	}
	return todo, nil
}

func (s *todoService) Patch(ctx context.Context, id uuid.UUID, patch TodoPatch) (*model.Todo, error) {
	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		title, err := normalizeTitle(*patch.Title)
		if err != nil {
			return nil, err
		}
		todo.Title = title
	}
	if patch.Description.Set {
		todo.Description = patch.Description.Value
	}
	if patch.DueDate.Set {
		todo.DueDate = patch.DueDate.Value
	}
	if patch.Status != nil {
		if err := s.applyStatus(todo, *patch.Status); err != nil {
			return nil, err
		}
	}
	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("patch todo: %w", err)
	}
	return todo, nil
}

func (s *todoService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// MarkResolved resolves a pending item and persists it immediately.
func (s *todoService) MarkResolved(ctx context.Context, id uuid.UUID) (*model.Todo, error) {
	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok := todo.MarkResolved(s.now())
	s.metrics.RecordTodoTransition("resolve", ok)
	if !ok {
		return nil, apperrors.ErrTodoAlreadyResolved
	}
	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("resolve todo: %w", err)
	}
	return todo, nil
}

// MarkPending reopens a resolved item and persists it immediately.
func (s *todoService) MarkPending(ctx context.Context, id uuid.UUID) (*model.Todo, error) {
	todo, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok := todo.MarkPending()
	s.metrics.RecordTodoTransition("reopen", ok)
	if !ok {
		return nil, apperrors.ErrTodoAlreadyPending
	}
	if err := s.repo.Update(ctx, todo); err != nil {
		return nil, fmt.Errorf("reopen todo: %w", err)
	}
	return todo, nil
}

// applyStatus routes status edits through the transitions so ResolvedAt
// always tracks Status. Requesting the current status is a no-op.
func (s *todoService) applyStatus(todo *model.Todo, status model.TodoStatus) error {
	if status == "" || status == todo.Status {
		return nil
	}
	switch status {
	case model.TodoStatusResolved:
		todo.MarkResolved(s.now())
	case model.TodoStatusPending:
		todo.MarkPending()
	default:
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrInvalidTodo, status)
	}
	return nil
}

func normalizeTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", fmt.Errorf("%w: title must not be empty", apperrors.ErrInvalidTodo)
	}
	if utf8.RuneCountInString(title) > maxTodoTitleLength {
		return "", fmt.Errorf("%w: title must be at most %d characters", apperrors.ErrInvalidTodo, maxTodoTitleLength)
	}
	return title, nil
}

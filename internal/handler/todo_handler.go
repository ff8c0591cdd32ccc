package handler

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"apiservices/internal/errors"
	"apiservices/internal/model"
	"apiservices/internal/service"
)

// TodoHandler handles TODO endpoints.
type TodoHandler struct {
	todoService service.TodoService
	now         func() time.Time
}

// NewTodoHandler creates a new TODO handler.
func NewTodoHandler(todoService service.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService, now: time.Now}
}

// TodoRequest represents a TODO create or full update.
type TodoRequest struct {
	Title       string           `json:"title" validate:"required,max=200"`
	Description *string          `json:"description"`
	DueDate     *time.Time       `json:"due_date"`
	Status      model.TodoStatus `json:"status" validate:"omitempty,oneof=pending resolved"`
}

// TodoPatchRequest represents a partial TODO update. An explicit null
// description or due_date clears the field.
type TodoPatchRequest struct {
	Title       *string                   `json:"title" validate:"omitempty,max=200"`
	Description model.Nullable[string]    `json:"description" swaggertype:"string"`
	DueDate     model.Nullable[time.Time] `json:"due_date" swaggertype:"string" format:"date-time"`
	Status      *model.TodoStatus         `json:"status" validate:"omitempty,oneof=pending resolved"`
}

// TodoResponse is a TODO item with its derived overdue flag.
type TodoResponse struct {
	model.Todo
	IsOverdue bool `json:"is_overdue"`
}

// TransitionResponse is returned by the mark_resolved and mark_pending actions.
type TransitionResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Todo    *TodoResponse `json:"todo,omitempty"`
}

func (h *TodoHandler) toResponse(todo *model.Todo) *TodoResponse {
	return &TodoResponse{Todo: *todo, IsOverdue: todo.IsOverdue(h.now())}
}

func (h *TodoHandler) toResponses(todos []model.Todo) []TodoResponse {
	now := h.now()
	out := make([]TodoResponse, 0, len(todos))
	for i := range todos {
		out = append(out, TodoResponse{Todo: todos[i], IsOverdue: todos[i].IsOverdue(now)})
	}
	return out
}

func (h *TodoHandler) list(c echo.Context, todos []model.Todo, err error) error {
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, h.toResponses(todos))
}

// List godoc
// @Summary List TODO items, newest first
// @Tags todos
// @Produce json
// @Success 200 {array} TodoResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /todos [get]
func (h *TodoHandler) List(c echo.Context) error {
	todos, err := h.todoService.List(c.Request().Context())
	return h.list(c, todos, err)
}

// ListOverdue godoc
// @Summary List pending TODO items past their due date
// @Tags todos
// @Produce json
// @Success 200 {array} TodoResponse
// @Router /todos/overdue [get]
func (h *TodoHandler) ListOverdue(c echo.Context) error {
	todos, err := h.todoService.ListOverdue(c.Request().Context())
	return h.list(c, todos, err)
}

// ListResolved godoc
// @Summary List resolved TODO items
// @Tags todos
// @Produce json
// @Success 200 {array} TodoResponse
// @Router /todos/resolved [get]
func (h *TodoHandler) ListResolved(c echo.Context) error {
	todos, err := h.todoService.ListByStatus(c.Request().Context(), model.TodoStatusResolved)
	return h.list(c, todos, err)
}

// ListPending godoc
// @Summary List pending TODO items
// @Tags todos
// @Produce json
// @Success 200 {array} TodoResponse
// @Router /todos/pending [get]
func (h *TodoHandler) ListPending(c echo.Context) error {
	todos, err := h.todoService.ListByStatus(c.Request().Context(), model.TodoStatusPending)
	return h.list(c, todos, err)
}

// Create godoc
// @Summary Create a TODO item
// @Tags todos
// @Accept json
// @Produce json
// @Param request body TodoRequest true "TODO data"
// @Success 201 {object} TodoResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /todos [post]
func (h *TodoHandler) Create(c echo.Context) error {
	var req TodoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	todo, err := h.todoService.Create(c.Request().Context(), service.TodoFields{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, h.toResponse(todo))
}

// Get godoc
// @Summary Get a TODO item
// @Tags todos
// @Produce json
// @Param id path string true "TODO ID"
// @Success 200 {object} TodoResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos/{id} [get]
func (h *TodoHandler) Get(c echo.Context) error {
	id, err := parseIDParam(c, errors.ErrTodoNotFound)
	if err != nil {
		return err
	}
	todo, err := h.todoService.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, h.toResponse(todo))
}

// Update godoc
// @Summary Replace a TODO item's editable fields
// @Tags todos
// @Accept json
// @Produce json
// @Param id path string true "TODO ID"
// @Param request body TodoRequest true "TODO data"
// @Success 200 {object} TodoResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos/{id} [put]
func (h *TodoHandler) Update(c echo.Context) error {
	id, err := parseIDParam(c, errors.ErrTodoNotFound)
	if err != nil {
		return err
	}
	var req TodoRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	todo, err := h.todoService.Update(c.Request().Context(), id, service.TodoFields{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, h.toResponse(todo))
}

// Patch godoc
// @Summary Partially update a TODO item
// @Tags todos
// @Accept json
// @Produce json
// @Param id path string true "TODO ID"
// @Param request body TodoPatchRequest true "Fields to change"
// @Success 200 {object} TodoResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos/{id} [patch]
func (h *TodoHandler) Patch(c echo.Context) error {
	id, err := parseIDParam(c, errors.ErrTodoNotFound)
	if err != nil {
		return err
	}
	var req TodoPatchRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	todo, err := h.todoService.Patch(c.Request().Context(), id, service.TodoPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Status:      req.Status,
	})
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, h.toResponse(todo))
}

// Delete godoc
// @Summary Delete a TODO item
// @Tags todos
// @Param id path string true "TODO ID"
// @Success 204
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos/{id} [delete]
func (h *TodoHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, errors.ErrTodoNotFound)
	if err != nil {
		return err
	}
	if err := h.todoService.Delete(c.Request().Context(), id); err != nil {
		return domainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

// MarkResolved godoc
// @Summary Mark a TODO item as resolved
// @Tags todos
// @Produce json
// @Param id path string true "TODO ID"
// @Success 200 {object} TransitionResponse
// @Failure 400 {object} TransitionResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos/{id}/mark_resolved [post]
func (h *TodoHandler) MarkResolved(c echo.Context) error {
	return h.transition(c, h.todoService.MarkResolved, "resolved")
}

// MarkPending godoc
// @Summary Mark a TODO item as pending
// @Tags todos
// @Produce json
// @Param id path string true "TODO ID"
// @Success 200 {object} TransitionResponse
// @Failure 400 {object} TransitionResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /todos/{id}/mark_pending [post]
func (h *TodoHandler) MarkPending(c echo.Context) error {
	return h.transition(c, h.todoService.MarkPending, "pending")
}

type transitionFunc func(ctx context.Context, id uuid.UUID) (*model.Todo, error)

func (h *TodoHandler) transition(c echo.Context, apply transitionFunc, target string) error {
	id, err := parseIDParam(c, errors.ErrTodoNotFound)
	if err != nil {
		return err
	}
	todo, err := apply(c.Request().Context(), id)
	if stderrors.Is(err, errors.ErrTodoAlreadyResolved) || stderrors.Is(err, errors.ErrTodoAlreadyPending) {
		return c.JSON(http.StatusBadRequest, TransitionResponse{
			Status:  "error",
			Message: err.Error(),
		})
	}
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, TransitionResponse{
		Status:  "success",
		Message: `TODO "` + todo.Title + `" marked as ` + target,
		Todo:    h.toResponse(todo),
	})
}

package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"apiservices/internal/errors"
	"apiservices/internal/model"
	"apiservices/internal/service"
)

// SessionHandler handles game session endpoints.
type SessionHandler struct {
	sessionService service.SessionService
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessionService service.SessionService) *SessionHandler {
	return &SessionHandler{sessionService: sessionService}
}

// CreateSessionRequest represents a new game session.
type CreateSessionRequest struct {
	Username string         `json:"username" validate:"max=100"`
	Score    int            `json:"score"`
	Mode     model.GameMode `json:"mode" validate:"required,oneof=walls pass-through"`
	IsLive   bool           `json:"isLive"`
}

// UpdateSessionRequest overwrites a session's score and liveness.
type UpdateSessionRequest struct {
	Score  *int  `json:"score" validate:"required"`
	IsLive *bool `json:"isLive" validate:"required"`
}

// ListLive godoc
// @Summary List live game sessions
// @Tags sessions
// @Produce json
// @Success 200 {array} model.GameSession
// @Router /sessions [get]
func (h *SessionHandler) ListLive(c echo.Context) error {
	sessions, err := h.sessionService.ListLive(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, sessions)
}

// Get godoc
// @Summary Get a game session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} model.GameSession
// @Failure 404 {object} errors.ErrorResponse
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c echo.Context) error {
	id, err := parseIDParam(c, errors.ErrSessionNotFound)
	if err != nil {
		return err
	}
	session, err := h.sessionService.Get(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, session)
}

// Create godoc
// @Summary Start a game session
// @Tags sessions
// @Accept json
// @Produce json
// @Param request body CreateSessionRequest true "Session"
// @Success 201 {object} model.GameSession
// @Failure 400 {object} errors.ErrorResponse
// @Router /sessions [post]
func (h *SessionHandler) Create(c echo.Context) error {
	var req CreateSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	session, err := h.sessionService.Create(c.Request().Context(), req.Username, req.Score, req.Mode, req.IsLive)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusCreated, session)
}

// Update godoc
// @Summary Update a game session's score and liveness
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param request body UpdateSessionRequest true "Session state"
// @Success 200 {object} model.GameSession
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /sessions/{id} [put]
func (h *SessionHandler) Update(c echo.Context) error {
	id, err := parseIDParam(c, errors.ErrSessionNotFound)
	if err != nil {
		return err
	}
	var req UpdateSessionRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	session, err := h.sessionService.Update(c.Request().Context(), id, *req.Score, *req.IsLive)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, session)
}

// Close godoc
// @Summary End a game session
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} model.GameSession
// @Failure 404 {object} errors.ErrorResponse
// @Router /sessions/{id}/close [post]
func (h *SessionHandler) Close(c echo.Context) error {
	id, err := parseIDParam(c, errors.ErrSessionNotFound)
	if err != nil {
		return err
	}
	session, err := h.sessionService.Close(c.Request().Context(), id)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, session)
}

// ListByUsername godoc
// @Summary List a player's game sessions
// @Tags sessions
// @Produce json
// @Param username path string true "Username"
// @Success 200 {array} model.GameSession
// @Router /sessions/users/{username} [get]
func (h *SessionHandler) ListByUsername(c echo.Context) error {
	sessions, err := h.sessionService.ListByUsername(c.Request().Context(), c.Param("username"))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, sessions)
}

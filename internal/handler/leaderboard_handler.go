package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"apiservices/internal/errors"
	"apiservices/internal/model"
	"apiservices/internal/service"
)

// LeaderboardHandler handles leaderboard endpoints.
type LeaderboardHandler struct {
	leaderboardService service.LeaderboardService
}

// NewLeaderboardHandler creates a new leaderboard handler.
func NewLeaderboardHandler(leaderboardService service.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{leaderboardService: leaderboardService}
}

// SubmitScoreRequest represents a score submission.
type SubmitScoreRequest struct {
	Score    *int           `json:"score" validate:"required"`
	Mode     model.GameMode `json:"mode" validate:"required,oneof=walls pass-through"`
	Username string         `json:"username" validate:"max=100"`
}

// SubmitScoreResponse represents the rank of a submitted score.
type SubmitScoreResponse struct {
	Success bool `json:"success"`
	Rank    int  `json:"rank"`
}

// PositionResponse represents a player's best entry and overall rank.
type PositionResponse struct {
	Username string         `json:"username"`
	Score    int            `json:"score"`
	Mode     model.GameMode `json:"mode"`
	Rank     int            `json:"rank"`
}

// GetLeaderboard godoc
// @Summary List leaderboard entries by score
// @Tags leaderboard
// @Produce json
// @Param mode query string false "Game mode" Enums(walls, pass-through)
// @Param limit query int false "Maximum entries (default 100, max 1000)"
// @Success 200 {array} model.LeaderboardEntry
// @Failure 400 {object} errors.ErrorResponse
// @Router /leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c echo.Context) error {
	mode, err := modeQuery(c)
	if err != nil {
		return err
	}

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "limit must be a non-negative integer",
				Code:  "VALIDATION_ERROR",
			})
		}
	}

	entries, err := h.leaderboardService.GetLeaderboard(c.Request().Context(), mode, limit)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, entries)
}

// SubmitScore godoc
// @Summary Submit a score
// @Tags leaderboard
// @Accept json
// @Produce json
// @Param request body SubmitScoreRequest true "Score"
// @Success 200 {object} SubmitScoreResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /leaderboard [post]
func (h *LeaderboardHandler) SubmitScore(c echo.Context) error {
	var req SubmitScoreRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	result, err := h.leaderboardService.AddScore(c.Request().Context(), req.Username, *req.Score, req.Mode)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, SubmitScoreResponse{Success: true, Rank: result.Rank})
}

// GetUserPosition godoc
// @Summary Get a player's best entry and rank
// @Description The rank counts higher scores across all modes.
// @Tags leaderboard
// @Produce json
// @Param username path string true "Username"
// @Param mode query string false "Game mode" Enums(walls, pass-through)
// @Success 200 {object} PositionResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /leaderboard/users/{username}/position [get]
func (h *LeaderboardHandler) GetUserPosition(c echo.Context) error {
	mode, err := modeQuery(c)
	if err != nil {
		return err
	}

	username := c.Param("username")
	pos, err := h.leaderboardService.GetUserPosition(c.Request().Context(), username, mode)
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, PositionResponse{
		Username: pos.Entry.Username,
		Score:    pos.Entry.Score,
		Mode:     pos.Entry.Mode,
		Rank:     pos.Rank,
	})
}

func modeQuery(c echo.Context) (*model.GameMode, error) {
	mode, ok := model.ParseGameMode(c.QueryParam("mode"))
	if !ok {
		return nil, domainError(errors.ErrInvalidMode)
	}
	return mode, nil
}

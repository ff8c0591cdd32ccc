package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"apiservices/internal/service"
)

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	seeder service.Seeder
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(seeder service.Seeder) *SeedHandler {
	return &SeedHandler{seeder: seeder}
}

// SeedSample godoc
// @Summary Seed sample players, scores and live sessions
// @Description Does nothing when any user already exists.
// @Tags seed
// @Produce json
// @Success 200 {object} service.SeedResult
// @Failure 500 {object} errors.ErrorResponse
// @Router /seed/sample [post]
func (h *SeedHandler) SeedSample(c echo.Context) error {
	result, err := h.seeder.SeedSample(c.Request().Context())
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, result)
}

package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"apiservices/internal/auth"
	"apiservices/internal/errors"
	"apiservices/internal/model"
	"apiservices/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignupRequest represents a user registration request.
type SignupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,max=100"`
	Password string `json:"password" validate:"required"`
}

// LoginRequest represents a user login request.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents the outcome of signup or login. Expected failures
// such as a taken email are reported with Success=false, not an HTTP error.
type AuthResponse struct {
	Success     bool        `json:"success"`
	User        *model.User `json:"user,omitempty"`
	Error       string      `json:"error,omitempty"`
	AccessToken string      `json:"access_token,omitempty"`
}

// Signup godoc
// @Summary Register a new player
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignupRequest true "Signup data"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req SignupRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Signup(c.Request().Context(), req.Email, req.Username, req.Password)
	if err != nil {
		if stderrors.Is(err, errors.ErrEmailExists) || stderrors.Is(err, errors.ErrUsernameTaken) {
			return c.JSON(http.StatusOK, AuthResponse{Success: false, Error: err.Error()})
		}
		return domainError(err)
	}

	return c.JSON(http.StatusOK, AuthResponse{Success: true, User: user})
}

// Login godoc
// @Summary Login player
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, token, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if stderrors.Is(err, errors.ErrInvalidCredentials) {
			return c.JSON(http.StatusOK, AuthResponse{Success: false, Error: err.Error()})
		}
		return domainError(err)
	}

	return c.JSON(http.StatusOK, AuthResponse{Success: true, User: user, AccessToken: token})
}

// Logout godoc
// @Summary Logout player
// @Description Acknowledgement only; access tokens expire on their own.
// @Tags auth
// @Produce json
// @Success 200 {object} MessageResponse
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	return c.JSON(http.StatusOK, MessageResponse{Message: "Logout successful"})
}

// Me godoc
// @Summary Get the current player
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	user, err := h.authService.CurrentUser(c.Request().Context(), tokenSubject(c))
	if err != nil {
		return domainError(err)
	}
	return c.JSON(http.StatusOK, user)
}

// tokenSubject returns the user ID of a token verified by the JWT
// middleware, or nil when the route is not guarded.
func tokenSubject(c echo.Context) *uuid.UUID {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return nil
	}
	id, err := claims.UserID()
	if err != nil {
		return nil
	}
	return &id
}

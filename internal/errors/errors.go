package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrTodoNotFound is returned when a TODO item is not found.
	ErrTodoNotFound = errors.New("todo not found")
	// ErrTodoAlreadyResolved is returned when resolving a resolved item.
	ErrTodoAlreadyResolved = errors.New("TODO is already resolved")
	// ErrTodoAlreadyPending is returned when reopening a pending item.
	ErrTodoAlreadyPending = errors.New("TODO is already pending")
	// ErrInvalidTodo is returned when a TODO payload fails domain validation.
	ErrInvalidTodo = errors.New("invalid todo")

	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailExists is returned on signup with a registered email.
	ErrEmailExists = errors.New("Email already exists")
	// ErrUsernameTaken is returned on signup with a registered username.
	ErrUsernameTaken = errors.New("Username already taken")
	// ErrInvalidCredentials is returned when email or password is incorrect.
	ErrInvalidCredentials = errors.New("Invalid email or password")
	// ErrNotAuthenticated is returned when no verified identity is present.
	ErrNotAuthenticated = errors.New("Not authenticated")

	// ErrEntryNotFound is returned when a user has no leaderboard entry.
	ErrEntryNotFound = errors.New("leaderboard entry not found")
	// ErrInvalidMode is returned for an unknown game mode.
	ErrInvalidMode = errors.New("invalid game mode")

	// ErrSessionNotFound is returned when a game session is not found.
	ErrSessionNotFound = errors.New("Session not found")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrTodoNotFound):
		return NewHTTPError(http.StatusNotFound, ErrTodoNotFound.Error(), "TODO_NOT_FOUND")
	case errors.Is(err, ErrTodoAlreadyResolved):
		return NewHTTPError(http.StatusBadRequest, ErrTodoAlreadyResolved.Error(), "ALREADY_RESOLVED")
	case errors.Is(err, ErrTodoAlreadyPending):
		return NewHTTPError(http.StatusBadRequest, ErrTodoAlreadyPending.Error(), "ALREADY_PENDING")
	case errors.Is(err, ErrInvalidTodo):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "VALIDATION_ERROR")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, ErrUserNotFound.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrEmailExists):
		return NewHTTPError(http.StatusConflict, ErrEmailExists.Error(), "EMAIL_EXISTS")
	case errors.Is(err, ErrUsernameTaken):
		return NewHTTPError(http.StatusConflict, ErrUsernameTaken.Error(), "USERNAME_TAKEN")
	case errors.Is(err, ErrInvalidCredentials):
		return NewHTTPError(http.StatusUnauthorized, ErrInvalidCredentials.Error(), "INVALID_CREDENTIALS")
	case errors.Is(err, ErrNotAuthenticated):
		return NewHTTPError(http.StatusUnauthorized, ErrNotAuthenticated.Error(), "NOT_AUTHENTICATED")
	case errors.Is(err, ErrEntryNotFound):
		return NewHTTPError(http.StatusNotFound, ErrEntryNotFound.Error(), "ENTRY_NOT_FOUND")
	case errors.Is(err, ErrInvalidMode):
		return NewHTTPError(http.StatusBadRequest, ErrInvalidMode.Error(), "INVALID_MODE")
	case errors.Is(err, ErrSessionNotFound):
		return NewHTTPError(http.StatusNotFound, ErrSessionNotFound.Error(), "SESSION_NOT_FOUND")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}

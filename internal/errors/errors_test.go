package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{name: "todo not found", err: ErrTodoNotFound, status: http.StatusNotFound, code: "TODO_NOT_FOUND"},
		{name: "wrapped session not found", err: fmt.Errorf("get session: %w", ErrSessionNotFound), status: http.StatusNotFound, code: "SESSION_NOT_FOUND"},
		{name: "already resolved", err: ErrTodoAlreadyResolved, status: http.StatusBadRequest, code: "ALREADY_RESOLVED"},
		{name: "not authenticated", err: ErrNotAuthenticated, status: http.StatusUnauthorized, code: "NOT_AUTHENTICATED"},
		{name: "invalid mode", err: ErrInvalidMode, status: http.StatusBadRequest, code: "INVALID_MODE"},
		{name: "unknown", err: errors.New("disk on fire"), status: http.StatusInternalServerError, code: "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.status, httpErr.StatusCode)
			assert.Equal(t, tt.code, httpErr.ToErrorResponse().Code)
		})
	}
}

func TestMapErrorToHTTP_HidesInternalDetail(t *testing.T) {
	httpErr := MapErrorToHTTP(errors.New("dial tcp 10.0.0.3:3306: connection refused"))
	assert.Equal(t, "internal server error", httpErr.Error())
}

func TestMapErrorToHTTP_InvalidTodoKeepsReason(t *testing.T) {
	httpErr := MapErrorToHTTP(fmt.Errorf("%w: title must not be empty", ErrInvalidTodo))
	assert.Equal(t, http.StatusBadRequest, httpErr.StatusCode)
	assert.Contains(t, httpErr.Message, "title must not be empty")
}

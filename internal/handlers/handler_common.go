package handlers

import (
	"errors"
	"net/http"

	"github.com/prestaflow/lending_backend/internal/apperrors"
)

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// statusForError maps a service error to an HTTP status through the
// sentinel kinds the services wrap.
func statusForError(err error) int {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict), errors.Is(err, apperrors.ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrConfiguration):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// errorBody hides internal detail on 5xx responses.
func errorBody(status int, err error) ErrorResponse {
	if status >= http.StatusInternalServerError {
		return ErrorResponse{Error: "Internal server error"}
	}
	return ErrorResponse{Error: err.Error()}
}

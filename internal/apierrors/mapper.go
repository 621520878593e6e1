package apierrors

import (
	"errors"
	"net/http"

	"ganadero-server/internal/store"

	"github.com/gin-gonic/gin"
)

// Error codes returned to clients
const (
	CodeInvalidInput = "INVALID_INPUT"
	CodeNotFound     = "NOT_FOUND"
	CodeConflict     = "CONFLICT"
	CodeUnauthorized = "UNAUTHORIZED"
)

// RespondWithError maps a domain error to a sanitized JSON response.
// Processors have already logged the detailed error; this logs only
// correlation info.
func RespondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		respond(c, http.StatusNotFound, CodeNotFound, "Registro no encontrado")
	case errors.Is(err, store.ErrDuplicate):
		respond(c, http.StatusConflict, CodeConflict, err.Error())
	default:
		var validationErr *ValidationError
		if errors.As(err, &validationErr) {
			respond(c, http.StatusBadRequest, CodeInvalidInput, validationErr.Message)
			return
		}
		InternalError(c, err)
	}
}

// ValidationError is a domain validation failure safe to surface to clients.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// NewValidationError creates a client-safe validation error.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

package dto

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/TheFriendRequest/Event-Service/internal/domain"
)

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error code and message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewErrorResponse creates a new error response.
func NewErrorResponse(code, message string) ErrorResponse {
	return ErrorResponse{
		Error: ErrorDetail{
			Code:    code,
			Message: message,
		},
	}
}

// MapDomainError maps domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code string, message string) {
	message = err.Error()

	switch {
	// Not found
	case errors.Is(err, domain.ErrEventNotFound):
		return http.StatusNotFound, "EVENT_NOT_FOUND", message
	case errors.Is(err, domain.ErrTaskNotFound):
		return http.StatusNotFound, "TASK_NOT_FOUND", message

	// Permission errors
	case errors.Is(err, domain.ErrNotCreator):
		return http.StatusForbidden, "INSUFFICIENT_ACCESS", message
	case errors.Is(err, domain.ErrMissingIdentity):
		return http.StatusUnauthorized, "MISSING_IDENTITY", message

	// Concurrency protocol
	case errors.Is(err, domain.ErrPreconditionFailed):
		return http.StatusPreconditionFailed, "PRECONDITION_FAILED", message
	case errors.Is(err, domain.ErrMissingValidator):
		return http.StatusPreconditionRequired, "PRECONDITION_REQUIRED", message

	// Validation errors
	case errors.Is(err, domain.ErrInvalidTimeRange):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrNoFieldsToUpdate):
		return http.StatusUnprocessableEntity, "VALIDATION_ERROR", message
	case errors.Is(err, domain.ErrInvalidFilter):
		return http.StatusBadRequest, "INVALID_REQUEST", message

	// Capacity
	case errors.Is(err, domain.ErrQueueFull):
		return http.StatusServiceUnavailable, "QUEUE_FULL", message

	// Default: internal server error
	default:
		// CRITICAL: Log unmapped error for debugging
		slog.Error("unmapped domain error returned to client",
			"error", err,
			"error_type", fmt.Sprintf("%T", err),
		)
		return http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error"
	}
}

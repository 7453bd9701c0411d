package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ticketing/internal/repository"
	"ticketing/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidUserID),
		errors.Is(err, service.ErrUnknownStation),
		errors.Is(err, service.ErrFareUnavailable),
		errors.Is(err, service.ErrInvalidJourneyDate),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidFineAmount),
		errors.Is(err, service.ErrInvalidReason),
		errors.Is(err, service.ErrInvalidOrderID),
		errors.Is(err, service.ErrVerificationFailed):
		return http.StatusBadRequest

	// Conflict errors
	case errors.Is(err, service.ErrOrderAlreadyFailed),
		errors.Is(err, service.ErrOrderNotSettleable):
		return http.StatusConflict

	// Upstream gateway errors
	case errors.Is(err, service.ErrGatewayUnavailable),
		errors.Is(err, service.ErrGatewayRejected):
		return http.StatusBadGateway

	// Retryable settlement failure: the webhook sender will redeliver.
	case errors.Is(err, service.ErrPersistenceFailure):
		return http.StatusInternalServerError

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

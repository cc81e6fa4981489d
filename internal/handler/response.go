package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/auth"
	"ridehail/internal/middleware"
	"ridehail/internal/repository"
	"ridehail/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse acknowledges an operation with no other payload.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// respondError sends an error response with the appropriate HTTP status code.
// Unexpected errors are attached to the context for logging and APM and
// hidden from the caller.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(code, ErrorResponse{Error: "internal server error"})
		return
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondBindError reports a request body that failed validation.
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body: " + err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// currentUserID returns the authenticated caller. Routes are mounted behind
// the session middleware, so a missing user is an unauthenticated request.
func currentUserID(c *gin.Context) (string, bool) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
		return "", false
	}
	return user.ID, true
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrProfileNotFound),
		errors.Is(err, service.ErrRideNotFound),
		errors.Is(err, service.ErrRideNotCompleted),
		errors.Is(err, service.ErrFavoriteNotFound),
		errors.Is(err, service.ErrNoDriverAssigned),
		errors.Is(err, service.ErrDriverLocationUnknown):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidRole),
		errors.Is(err, service.ErrInvalidLocation),
		errors.Is(err, service.ErrInvalidPrice),
		errors.Is(err, service.ErrInvalidRating),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidProvider),
		errors.Is(err, service.ErrPhoneRequired),
		errors.Is(err, service.ErrInvalidMessage),
		errors.Is(err, service.ErrEmptyName),
		errors.Is(err, service.ErrNoFinalPrice),
		errors.Is(err, service.ErrInsufficientFunds):
		return http.StatusBadRequest

	// Conflict errors, reported as Bad Request
	case errors.Is(err, service.ErrProfileExists),
		errors.Is(err, service.ErrRideTerminal),
		errors.Is(err, service.ErrAlreadyPaid),
		errors.Is(err, service.ErrPaymentInProgress),
		errors.Is(err, repository.ErrDuplicate):
		return http.StatusBadRequest

	// Forbidden errors
	case errors.Is(err, service.ErrNotRider),
		errors.Is(err, service.ErrNotDriver),
		errors.Is(err, service.ErrNotRideParty),
		errors.Is(err, service.ErrNotRideRider):
		return http.StatusForbidden

	case errors.Is(err, auth.ErrUnauthenticated):
		return http.StatusUnauthorized

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}

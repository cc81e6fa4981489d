package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"ridehail/internal/auth"
	"ridehail/internal/repository"
	"ridehail/internal/service"
)

func TestMapErrorToHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrRideNotFound, http.StatusNotFound},
		{service.ErrRideNotCompleted, http.StatusNotFound},
		{service.ErrProfileNotFound, http.StatusNotFound},
		{repository.ErrNotFound, http.StatusNotFound},
		{service.ErrInvalidRating, http.StatusBadRequest},
		{service.ErrInsufficientFunds, http.StatusBadRequest},
		{service.ErrRideTerminal, http.StatusBadRequest},
		{service.ErrAlreadyPaid, http.StatusBadRequest},
		{service.ErrProfileExists, http.StatusBadRequest},
		{service.ErrNotRider, http.StatusForbidden},
		{service.ErrNotRideParty, http.StatusForbidden},
		{service.ErrNotRideRider, http.StatusForbidden},
		{auth.ErrUnauthenticated, http.StatusUnauthorized},
		{fmt.Errorf("failed to complete ride: %w", service.ErrRideNotFound), http.StatusNotFound},
		{service.ErrPaymentFailed, http.StatusInternalServerError},
		{errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := mapErrorToHTTPStatus(tt.err); got != tt.want {
			t.Errorf("mapErrorToHTTPStatus(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestRespondError_HidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	respondError(c, errors.New("pq: password authentication failed"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "internal server error" {
		t.Errorf("internal detail leaked: %q", body.Error)
	}
	if len(c.Errors) != 1 {
		t.Errorf("expected the error attached to the context, got %d", len(c.Errors))
	}
}

func TestRespondError_ClientErrorsAreVerbatim(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	respondError(c, service.ErrInsufficientFunds)

	var body ErrorResponse
	json.Unmarshal(rec.Body.Bytes(), &body)
	if rec.Code != http.StatusBadRequest || body.Error != service.ErrInsufficientFunds.Error() {
		t.Errorf("unexpected response %d %q", rec.Code, body.Error)
	}
}

func TestCurrentUserID_Unauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	if _, ok := currentUserID(c); ok {
		t.Fatal("expected no user")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

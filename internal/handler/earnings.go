package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ridehail/internal/service"
)

// EarningsHandler serves the driver earnings dashboard.
type EarningsHandler struct {
	earningsService *service.EarningsService
}

func NewEarningsHandler(earningsService *service.EarningsService) *EarningsHandler {
	return &EarningsHandler{earningsService: earningsService}
}

// Summary handles GET /api/earnings
func (h *EarningsHandler) Summary(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	summary, err := h.earningsService.Summary(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, EarningsResponse{
		Today:      summary.Today,
		Week:       summary.Week,
		Month:      summary.Month,
		TotalRides: summary.TotalRides,
	})
}

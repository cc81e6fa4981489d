package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"ridehail/internal/domain"
	"ridehail/internal/service"
)

const (
	walletPaymentMessage      = "Payment completed successfully via digital wallet"
	mobileMoneyPaymentMessage = "Payment processed successfully. In production, this would integrate with the actual payment provider API."
)

// PaymentHandler handles HTTP requests for ride payments.
type PaymentHandler struct {
	settlementService *service.SettlementService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(settlementService *service.SettlementService) *PaymentHandler {
	return &PaymentHandler{settlementService: settlementService}
}

// ProcessPaymentRequest is the HTTP request body for paying a ride.
type ProcessPaymentRequest struct {
	Provider    string  `json:"provider" binding:"required,oneof=airtel mtn zamtel wallet"`
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	PhoneNumber string  `json:"phone_number,omitempty" binding:"max=32"`
}

// ProcessPayment handles POST /api/rides/:id/payment
func (h *PaymentHandler) ProcessPayment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req ProcessPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	provider := domain.PaymentProvider(req.Provider)
	payment, err := h.settlementService.PayRide(c.Request.Context(), service.PayRideRequest{
		RideID:      c.Param("id"),
		UserID:      userID,
		Provider:    provider,
		Amount:      decimal.NewFromFloat(req.Amount),
		PhoneNumber: req.PhoneNumber,
	})
	if err != nil {
		if errors.Is(err, service.ErrPaymentFailed) && payment != nil {
			_ = c.Error(err)
			respondJSON(c, http.StatusInternalServerError, PaymentResponse{
				Success:     false,
				Transaction: toPaymentTransactionResponse(payment),
				Message:     "Payment failed",
			})
			return
		}
		respondError(c, err)
		return
	}

	message := mobileMoneyPaymentMessage
	if provider == domain.ProviderWallet {
		message = walletPaymentMessage
	}
	respondJSON(c, http.StatusOK, PaymentResponse{
		Success:     true,
		Transaction: toPaymentTransactionResponse(payment),
		Message:     message,
	})
}

package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"ridehail/internal/service"
)

// WalletHandler handles HTTP requests for wallets.
type WalletHandler struct {
	walletService *service.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(walletService *service.WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

// AddFundsRequest is the HTTP request body for topping up a wallet.
type AddFundsRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// GetWallet handles GET /api/wallet
func (h *WalletHandler) GetWallet(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	wallet, err := h.walletService.GetWallet(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toWalletResponse(wallet))
}

// Transactions handles GET /api/wallet/transactions
func (h *WalletHandler) Transactions(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	txns, err := h.walletService.ListTransactions(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]WalletTransactionResponse, 0, len(txns))
	for _, t := range txns {
		out = append(out, toWalletTransactionResponse(t))
	}
	respondJSON(c, http.StatusOK, out)
}

// AddFunds handles POST /api/wallet/add-funds
func (h *WalletHandler) AddFunds(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		return
	}

	var req AddFundsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	wallet, err := h.walletService.AddFunds(c.Request.Context(), userID, decimal.NewFromFloat(req.Amount))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toWalletResponse(wallet))
}

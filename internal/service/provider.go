package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"ridehail/internal/domain"
)

// ChargeRequest is a mobile-money collection request.
type ChargeRequest struct {
	Provider    domain.PaymentProvider
	PaymentID   string
	RideID      string
	PhoneNumber string
	Amount      decimal.Decimal
}

// ChargeResult is the provider's answer to a collection request.
type ChargeResult struct {
	TransactionID string
	Succeeded     bool
	ResponseData  string // raw provider payload, stored verbatim
}

// MobileMoneyProvider collects payments over a mobile-money rail.
type MobileMoneyProvider interface {
	Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error)
}

// SimulatedProvider stands in for the Airtel, MTN and Zamtel APIs.
// Every charge succeeds with a SIM- reference.
type SimulatedProvider struct{}

// NewSimulatedProvider creates a new SimulatedProvider.
func NewSimulatedProvider() *SimulatedProvider {
	return &SimulatedProvider{}
}

// Charge simulates a payment charge. Always succeeds.
func (p *SimulatedProvider) Charge(ctx context.Context, req ChargeRequest) (*ChargeResult, error) {
	txnID := "SIM-" + uuid.New().String()

	payload, err := json.Marshal(map[string]any{
		"provider":       req.Provider,
		"transaction_id": txnID,
		"reference":      "RIDE-" + req.RideID + "-" + req.PaymentID,
		"amount":         req.Amount,
		"status":         "SUCCESS",
		"simulated":      true,
	})
	if err != nil {
		return nil, err
	}

	return &ChargeResult{
		TransactionID: txnID,
		Succeeded:     true,
		ResponseData:  string(payload),
	}, nil
}

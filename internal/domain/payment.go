package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentStatus represents the current status of a payment attempt.
type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

// PaymentProvider is the rail a ride is settled on.
type PaymentProvider string

const (
	ProviderAirtel PaymentProvider = "airtel"
	ProviderMTN    PaymentProvider = "mtn"
	ProviderZamtel PaymentProvider = "zamtel"
	ProviderWallet PaymentProvider = "wallet"
)

// IsMobileMoney reports whether the provider is an external mobile-money rail.
func (p PaymentProvider) IsMobileMoney() bool {
	return p == ProviderAirtel || p == ProviderMTN || p == ProviderZamtel
}

// Valid reports whether p is a known provider.
func (p PaymentProvider) Valid() bool {
	return p == ProviderWallet || p.IsMobileMoney()
}

// PaymentTransaction is one payment attempt against a completed ride.
type PaymentTransaction struct {
	ID            string
	RideID        string
	UserID        string
	Provider      PaymentProvider
	Amount        decimal.Decimal
	PhoneNumber   string
	TransactionID string // synthetic or provider reference; empty while pending
	Status        PaymentStatus
	ResponseData  string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

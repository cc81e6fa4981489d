package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money travels as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionType classifies a wallet ledger row.
type TransactionType string

const (
	TransactionCredit      TransactionType = "credit"
	TransactionDebit       TransactionType = "debit"
	TransactionRidePayment TransactionType = "ride_payment"
	TransactionRideEarning TransactionType = "ride_earning"
	TransactionRefund      TransactionType = "refund"
)

// maxAmount is the first value a NUMERIC(12,2) column cannot hold.
var maxAmount = decimal.New(1, 10)

// ValidAmount reports whether d is a positive amount in whole cents that
// fits the ledger columns.
func ValidAmount(d decimal.Decimal) bool {
	return d.IsPositive() && d.Equal(d.Truncate(2)) && d.LessThan(maxAmount)
}

// Wallet holds the balance of one identity.
type Wallet struct {
	ID        string
	UserID    string
	Balance   decimal.Decimal
	CreatedAt time.Time
	UpdatedAt time.Time
}

// WalletTransaction is an append-only ledger row.
type WalletTransaction struct {
	ID          string
	WalletID    string
	Amount      decimal.Decimal
	Type        TransactionType
	Description string
	RideID      string // optional
	CreatedAt   time.Time
}

// DriverEarning is recorded once per completed ride.
type DriverEarning struct {
	ID        string
	DriverID  string
	RideID    string
	Amount    decimal.Decimal
	Date      time.Time // calendar day, UTC midnight
	CreatedAt time.Time
}

// EarningsSummary aggregates a driver's earnings.
type EarningsSummary struct {
	Today      decimal.Decimal
	Week       decimal.Decimal
	Month      decimal.Decimal
	TotalRides int
}

package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"ridehail/internal/domain"
)

// WalletRepository defines the persistence operations for wallets.
type WalletRepository interface {
	// Create persists a new wallet. Returns ErrDuplicate if one exists.
	Create(ctx context.Context, wallet *domain.Wallet) error

	// GetByUserID retrieves the wallet of an identity.
	GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error)

	// GetByUserIDForUpdate retrieves the wallet and locks its row until the
	// surrounding transaction ends.
	GetByUserIDForUpdate(ctx context.Context, userID string) (*domain.Wallet, error)

	// AdjustBalance adds delta (which may be negative) to the wallet balance.
	AdjustBalance(ctx context.Context, walletID string, delta decimal.Decimal, at time.Time) error
}

// WalletTransactionRepository is the append-only wallet ledger.
type WalletTransactionRepository interface {
	// Append inserts a ledger row.
	Append(ctx context.Context, txn *domain.WalletTransaction) error

	// ListByWallet returns up to limit rows, newest first.
	ListByWallet(ctx context.Context, walletID string, limit int) ([]*domain.WalletTransaction, error)
}

// EarningsRepository defines the persistence operations for driver earnings.
type EarningsRepository interface {
	// Create records the earning of one completed ride.
	Create(ctx context.Context, earning *domain.DriverEarning) error

	// SumSince totals the driver's earnings dated on or after since.
	SumSince(ctx context.Context, driverID string, since time.Time) (decimal.Decimal, error)

	// SumOn totals the driver's earnings dated exactly day.
	SumOn(ctx context.Context, driverID string, day time.Time) (decimal.Decimal, error)
}

// PaymentRepository defines the persistence operations for payment attempts.
type PaymentRepository interface {
	// Create persists a new payment attempt.
	Create(ctx context.Context, payment *domain.PaymentTransaction) error

	// GetByID retrieves a payment attempt by ID.
	GetByID(ctx context.Context, id string) (*domain.PaymentTransaction, error)

	// HasCompletedForRide reports whether the ride was already settled.
	HasCompletedForRide(ctx context.Context, rideID string) (bool, error)

	// Settle moves a pending payment to completed or failed.
	Settle(ctx context.Context, id string, status domain.PaymentStatus, transactionID, responseData string, at time.Time) error
}

package repository

import "context"

// Repositories groups every repository bound to one unit of work.
type Repositories struct {
	Profiles           ProfileRepository
	Rides              RideRepository
	Messages           MessageRepository
	FavoriteLocations  FavoriteLocationRepository
	Wallets            WalletRepository
	WalletTransactions WalletTransactionRepository
	Earnings           EarningsRepository
	Payments           PaymentRepository
}

// TxManager runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back otherwise; fn's error is returned unchanged.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(repos Repositories) error) error
}

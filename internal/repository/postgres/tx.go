package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"ridehail/internal/repository"
)

// TxManager runs units of work in a database transaction.
type TxManager struct {
	db *sql.DB
}

// NewTxManager creates a TxManager over db.
func NewTxManager(db *sql.DB) *TxManager {
	return &TxManager{db: db}
}

// Repositories returns the non-transactional repository set.
func Repositories(db *sql.DB) repository.Repositories {
	return repository.Repositories{
		Profiles:           NewProfileRepository(db),
		Rides:              NewRideRepository(db),
		Messages:           NewMessageRepository(db),
		FavoriteLocations:  NewFavoriteLocationRepository(db),
		Wallets:            NewWalletRepository(db),
		WalletTransactions: NewWalletTransactionRepository(db),
		Earnings:           NewEarningsRepository(db),
		Payments:           NewPaymentRepository(db),
	}
}

func repositoriesWithTx(tx *sql.Tx) repository.Repositories {
	return repository.Repositories{
		Profiles:           NewProfileRepositoryWithTx(tx),
		Rides:              NewRideRepositoryWithTx(tx),
		Messages:           NewMessageRepositoryWithTx(tx),
		FavoriteLocations:  NewFavoriteLocationRepositoryWithTx(tx),
		Wallets:            NewWalletRepositoryWithTx(tx),
		WalletTransactions: NewWalletTransactionRepositoryWithTx(tx),
		Earnings:           NewEarningsRepositoryWithTx(tx),
		Payments:           NewPaymentRepositoryWithTx(tx),
	}
}

// WithinTx commits when fn returns nil and rolls back otherwise.
func (m *TxManager) WithinTx(ctx context.Context, fn func(repos repository.Repositories) error) error {
	tx, err := m.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(repositoriesWithTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

var _ repository.TxManager = (*TxManager)(nil)

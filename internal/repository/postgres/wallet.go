package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// WalletRepository is a PostgreSQL implementation of repository.WalletRepository.
type WalletRepository struct {
	q Querier
}

// NewWalletRepository creates a new PostgreSQL wallet repository.
func NewWalletRepository(db *sql.DB) *WalletRepository {
	return &WalletRepository{q: db}
}

// NewWalletRepositoryWithTx creates a wallet repository using a transaction.
func NewWalletRepositoryWithTx(tx *sql.Tx) *WalletRepository {
	return &WalletRepository{q: tx}
}

// Create persists a new wallet.
func (r *WalletRepository) Create(ctx context.Context, w *domain.Wallet) error {
	query := `
		INSERT INTO wallets (id, user_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.q.ExecContext(ctx, query, w.ID, w.UserID, w.Balance, w.CreatedAt, w.UpdatedAt)
	return translateInsertErr(err)
}

// GetByUserID retrieves the wallet of an identity.
func (r *WalletRepository) GetByUserID(ctx context.Context, userID string) (*domain.Wallet, error) {
	return r.get(ctx, `SELECT id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id = $1`, userID)
}

// GetByUserIDForUpdate retrieves the wallet with a row lock held until the
// transaction ends. Outside a transaction it behaves like GetByUserID.
func (r *WalletRepository) GetByUserIDForUpdate(ctx context.Context, userID string) (*domain.Wallet, error) {
	return r.get(ctx, `SELECT id, user_id, balance, created_at, updated_at FROM wallets WHERE user_id = $1 FOR UPDATE`, userID)
}

func (r *WalletRepository) get(ctx context.Context, query, userID string) (*domain.Wallet, error) {
	var w domain.Wallet
	err := r.q.QueryRowContext(ctx, query, userID).Scan(&w.ID, &w.UserID, &w.Balance, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// AdjustBalance adds delta to the wallet balance.
func (r *WalletRepository) AdjustBalance(ctx context.Context, walletID string, delta decimal.Decimal, at time.Time) error {
	query := `UPDATE wallets SET balance = balance + $1, updated_at = $2 WHERE id = $3`
	return expectOneRow(r.q.ExecContext(ctx, query, delta, at, walletID))
}

// WalletTransactionRepository is the PostgreSQL wallet ledger.
type WalletTransactionRepository struct {
	q Querier
}

func NewWalletTransactionRepository(db *sql.DB) *WalletTransactionRepository {
	return &WalletTransactionRepository{q: db}
}

func NewWalletTransactionRepositoryWithTx(tx *sql.Tx) *WalletTransactionRepository {
	return &WalletTransactionRepository{q: tx}
}

// Append inserts a ledger row.
func (r *WalletTransactionRepository) Append(ctx context.Context, t *domain.WalletTransaction) error {
	query := `
		INSERT INTO wallet_transactions (id, wallet_id, amount, type, description, ride_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.q.ExecContext(ctx, query,
		t.ID, t.WalletID, t.Amount, t.Type, nullString(t.Description), nullString(t.RideID), t.CreatedAt)
	return err
}

// ListByWallet returns up to limit rows, newest first.
func (r *WalletTransactionRepository) ListByWallet(ctx context.Context, walletID string, limit int) ([]*domain.WalletTransaction, error) {
	query := `
		SELECT id, wallet_id, amount, type, description, ride_id, created_at
		FROM wallet_transactions WHERE wallet_id = $1
		ORDER BY created_at DESC LIMIT $2
	`
	rows, err := r.q.QueryContext(ctx, query, walletID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txns := []*domain.WalletTransaction{}
	for rows.Next() {
		var t domain.WalletTransaction
		var description, rideID sql.NullString
		if err := rows.Scan(&t.ID, &t.WalletID, &t.Amount, &t.Type, &description, &rideID, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Description = description.String
		t.RideID = rideID.String
		txns = append(txns, &t)
	}
	return txns, rows.Err()
}

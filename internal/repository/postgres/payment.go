package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// PaymentRepository is a PostgreSQL implementation of repository.PaymentRepository.
type PaymentRepository struct {
	q Querier
}

// NewPaymentRepository creates a new PostgreSQL payment repository.
func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{q: db}
}

// NewPaymentRepositoryWithTx creates a payment repository using a transaction.
func NewPaymentRepositoryWithTx(tx *sql.Tx) *PaymentRepository {
	return &PaymentRepository{q: tx}
}

// Create persists a new payment attempt.
func (r *PaymentRepository) Create(ctx context.Context, p *domain.PaymentTransaction) error {
	query := `
		INSERT INTO payment_transactions (id, ride_id, user_id, provider, amount, phone_number,
			transaction_id, status, response_data, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := r.q.ExecContext(ctx, query,
		p.ID,
		p.RideID,
		p.UserID,
		p.Provider,
		p.Amount,
		nullString(p.PhoneNumber),
		nullString(p.TransactionID),
		p.Status,
		nullString(p.ResponseData),
		p.CreatedAt,
		p.UpdatedAt,
	)
	return err
}

// GetByID retrieves a payment attempt by ID.
func (r *PaymentRepository) GetByID(ctx context.Context, id string) (*domain.PaymentTransaction, error) {
	query := `
		SELECT id, ride_id, user_id, provider, amount, phone_number, transaction_id,
			status, response_data, created_at, updated_at
		FROM payment_transactions WHERE id = $1
	`

	var p domain.PaymentTransaction
	var phone, txnID, response sql.NullString
	err := r.q.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.RideID, &p.UserID, &p.Provider, &p.Amount, &phone, &txnID,
		&p.Status, &response, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}

	p.PhoneNumber = phone.String
	p.TransactionID = txnID.String
	p.ResponseData = response.String
	return &p, nil
}

// HasCompletedForRide reports whether the ride already has a completed payment.
func (r *PaymentRepository) HasCompletedForRide(ctx context.Context, rideID string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM payment_transactions WHERE ride_id = $1 AND status = $2)`
	var exists bool
	err := r.q.QueryRowContext(ctx, query, rideID, domain.PaymentStatusCompleted).Scan(&exists)
	return exists, err
}

// Settle moves a pending payment to completed or failed.
func (r *PaymentRepository) Settle(ctx context.Context, id string, status domain.PaymentStatus, transactionID, responseData string, at time.Time) error {
	query := `
		UPDATE payment_transactions
		SET status = $1, transaction_id = $2, response_data = $3, updated_at = $4
		WHERE id = $5 AND status = $6
	`
	return expectOneRow(r.q.ExecContext(ctx, query,
		status, nullString(transactionID), nullString(responseData), at, id, domain.PaymentStatusPending))
}

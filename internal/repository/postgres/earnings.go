package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"

	"ridehail/internal/domain"
)

// EarningsRepository is a PostgreSQL implementation of repository.EarningsRepository.
type EarningsRepository struct {
	q Querier
}

func NewEarningsRepository(db *sql.DB) *EarningsRepository {
	return &EarningsRepository{q: db}
}

func NewEarningsRepositoryWithTx(tx *sql.Tx) *EarningsRepository {
	return &EarningsRepository{q: tx}
}

// Create records the earning of one completed ride.
func (r *EarningsRepository) Create(ctx context.Context, e *domain.DriverEarning) error {
	query := `
		INSERT INTO driver_earnings (id, driver_id, ride_id, amount, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.q.ExecContext(ctx, query, e.ID, e.DriverID, e.RideID, e.Amount, e.Date, e.CreatedAt)
	return translateInsertErr(err)
}

// SumSince totals the driver's earnings dated on or after since.
func (r *EarningsRepository) SumSince(ctx context.Context, driverID string, since time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM driver_earnings WHERE driver_id = $1 AND date >= $2::date`
	return r.sum(ctx, query, driverID, since)
}

// SumOn totals the driver's earnings dated exactly day.
func (r *EarningsRepository) SumOn(ctx context.Context, driverID string, day time.Time) (decimal.Decimal, error) {
	query := `SELECT COALESCE(SUM(amount), 0) FROM driver_earnings WHERE driver_id = $1 AND date = $2::date`
	return r.sum(ctx, query, driverID, day)
}

func (r *EarningsRepository) sum(ctx context.Context, query, driverID string, day time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := r.q.QueryRowContext(ctx, query, driverID, day.Format("2006-01-02")).Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

const rideColumns = `id, rider_id, driver_id, status,
	pickup_lat, pickup_lng, pickup_address, dropoff_lat, dropoff_lng, dropoff_address,
	rider_price, driver_price, final_price, distance_km, estimated_duration_minutes,
	vehicle_type, scheduled_time, payment_method,
	rider_rating, driver_rating, rider_feedback, driver_feedback,
	accepted_at, started_at, completed_at, cancelled_at, created_at, updated_at`

// RideRepository is a PostgreSQL implementation of repository.RideRepository.
type RideRepository struct {
	q Querier
}

// NewRideRepository creates a new PostgreSQL ride repository.
func NewRideRepository(db *sql.DB) *RideRepository {
	return &RideRepository{q: db}
}

// NewRideRepositoryWithTx creates a ride repository using a transaction.
func NewRideRepositoryWithTx(tx *sql.Tx) *RideRepository {
	return &RideRepository{q: tx}
}

// Create persists a new ride.
func (r *RideRepository) Create(ctx context.Context, ride *domain.Ride) error {
	query := `
		INSERT INTO rides (id, rider_id, driver_id, status,
			pickup_lat, pickup_lng, pickup_address, dropoff_lat, dropoff_lng, dropoff_address,
			rider_price, driver_price, final_price, distance_km, estimated_duration_minutes,
			vehicle_type, scheduled_time, payment_method, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
	`

	vehicleType := ride.VehicleType
	if vehicleType == "" {
		vehicleType = domain.DefaultVehicleType
	}
	paymentMethod := ride.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = domain.DefaultPaymentMethod
	}

	var scheduled sql.NullTime
	if ride.ScheduledTime != nil {
		scheduled = sql.NullTime{Time: *ride.ScheduledTime, Valid: true}
	}

	_, err := r.q.ExecContext(ctx, query,
		ride.ID,
		ride.RiderID,
		nullString(ride.DriverID),
		ride.Status,
		ride.PickupLat,
		ride.PickupLng,
		nullString(ride.PickupAddress),
		ride.DropoffLat,
		ride.DropoffLng,
		nullString(ride.DropoffAddress),
		ride.RiderPrice,
		ride.DriverPrice,
		ride.FinalPrice,
		ride.DistanceKm,
		ride.EstimatedDurationMinutes,
		vehicleType,
		scheduled,
		paymentMethod,
		ride.CreatedAt,
		ride.UpdatedAt,
	)
	return err
}

// GetByID retrieves a ride by ID.
func (r *RideRepository) GetByID(ctx context.Context, id string) (*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE id = $1`

	ride, err := scanRide(r.q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return ride, nil
}

// ListByRider returns the rider's rides, newest first.
func (r *RideRepository) ListByRider(ctx context.Context, riderID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE rider_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, riderID)
}

// ListByDriver returns the driver's rides, newest first.
func (r *RideRepository) ListByDriver(ctx context.Context, driverID string) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE driver_id = $1 ORDER BY created_at DESC`
	return r.list(ctx, query, driverID)
}

// ListRequested returns up to limit unclaimed rides, oldest first.
func (r *RideRepository) ListRequested(ctx context.Context, limit int) ([]*domain.Ride, error) {
	query := `SELECT ` + rideColumns + ` FROM rides WHERE status = $1 ORDER BY created_at ASC LIMIT $2`
	return r.list(ctx, query, domain.RideStatusRequested, limit)
}

func (r *RideRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Ride, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rides := []*domain.Ride{}
	for rows.Next() {
		ride, err := scanRide(rows)
		if err != nil {
			return nil, err
		}
		rides = append(rides, ride)
	}
	return rides, rows.Err()
}

// Accept assigns driverID with its counter price to a requested ride.
func (r *RideRepository) Accept(ctx context.Context, id, driverID string, driverPrice decimal.Decimal, at time.Time) error {
	query := `
		UPDATE rides
		SET driver_id = $1, driver_price = $2, status = $3, accepted_at = $4, updated_at = $4
		WHERE id = $5 AND status = $6
	`
	return expectOneRow(r.q.ExecContext(ctx, query,
		driverID, driverPrice, domain.RideStatusAccepted, at, id, domain.RideStatusRequested))
}

// MarkPickedUp moves an accepted ride owned by driverID to picked_up.
func (r *RideRepository) MarkPickedUp(ctx context.Context, id, driverID string, at time.Time) error {
	query := `
		UPDATE rides
		SET status = $1, started_at = $2, updated_at = $2
		WHERE id = $3 AND driver_id = $4 AND status = $5
	`
	return expectOneRow(r.q.ExecContext(ctx, query,
		domain.RideStatusPickedUp, at, id, driverID, domain.RideStatusAccepted))
}

// MarkCompleted moves a picked_up ride owned by driverID to completed.
func (r *RideRepository) MarkCompleted(ctx context.Context, id, driverID string, finalPrice decimal.Decimal, at time.Time) error {
	query := `
		UPDATE rides
		SET status = $1, final_price = $2, completed_at = $3, updated_at = $3
		WHERE id = $4 AND driver_id = $5 AND status = $6
	`
	return expectOneRow(r.q.ExecContext(ctx, query,
		domain.RideStatusCompleted, finalPrice, at, id, driverID, domain.RideStatusPickedUp))
}

// Cancel moves a ride in one of the from states to cancelled.
func (r *RideRepository) Cancel(ctx context.Context, id string, from []domain.RideStatus, at time.Time) error {
	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}
	query := `
		UPDATE rides
		SET status = $1, cancelled_at = $2, updated_at = $2
		WHERE id = $3 AND status = ANY($4)
	`
	return expectOneRow(r.q.ExecContext(ctx, query,
		domain.RideStatusCancelled, at, id, pq.Array(states)))
}

// SetRating fills one rating slot and the author's feedback on a completed ride.
func (r *RideRepository) SetRating(ctx context.Context, id string, slot repository.RatingSlot, rating int, feedback string, at time.Time) error {
	var query string
	switch slot {
	case repository.SlotDriver:
		query = `UPDATE rides SET driver_rating = $1, rider_feedback = $2, updated_at = $3 WHERE id = $4 AND status = $5`
	case repository.SlotRider:
		query = `UPDATE rides SET rider_rating = $1, driver_feedback = $2, updated_at = $3 WHERE id = $4 AND status = $5`
	default:
		return fmt.Errorf("unknown rating slot %q", slot)
	}
	return expectOneRow(r.q.ExecContext(ctx, query,
		rating, nullString(feedback), at, id, domain.RideStatusCompleted))
}

// AverageRating returns the mean score held by userID in slot.
func (r *RideRepository) AverageRating(ctx context.Context, userID string, slot repository.RatingSlot) (*float64, error) {
	var query string
	switch slot {
	case repository.SlotDriver:
		query = `SELECT AVG(driver_rating) FROM rides WHERE driver_id = $1 AND status = $2 AND driver_rating IS NOT NULL`
	case repository.SlotRider:
		query = `SELECT AVG(rider_rating) FROM rides WHERE rider_id = $1 AND status = $2 AND rider_rating IS NOT NULL`
	default:
		return nil, fmt.Errorf("unknown rating slot %q", slot)
	}

	var avg sql.NullFloat64
	if err := r.q.QueryRowContext(ctx, query, userID, domain.RideStatusCompleted).Scan(&avg); err != nil {
		return nil, err
	}
	return floatPtr(avg), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (*domain.Ride, error) {
	var ride domain.Ride
	var driverID, pickupAddr, dropoffAddr sql.NullString
	var riderFeedback, driverFeedback sql.NullString
	var distance sql.NullFloat64
	var duration, riderRating, driverRating sql.NullInt64
	var scheduled, acceptedAt, startedAt, completedAt, cancelledAt sql.NullTime

	err := row.Scan(
		&ride.ID,
		&ride.RiderID,
		&driverID,
		&ride.Status,
		&ride.PickupLat,
		&ride.PickupLng,
		&pickupAddr,
		&ride.DropoffLat,
		&ride.DropoffLng,
		&dropoffAddr,
		&ride.RiderPrice,
		&ride.DriverPrice,
		&ride.FinalPrice,
		&distance,
		&duration,
		&ride.VehicleType,
		&scheduled,
		&ride.PaymentMethod,
		&riderRating,
		&driverRating,
		&riderFeedback,
		&driverFeedback,
		&acceptedAt,
		&startedAt,
		&completedAt,
		&cancelledAt,
		&ride.CreatedAt,
		&ride.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	ride.DriverID = driverID.String
	ride.PickupAddress = pickupAddr.String
	ride.DropoffAddress = dropoffAddr.String
	ride.RiderFeedback = riderFeedback.String
	ride.DriverFeedback = driverFeedback.String
	ride.DistanceKm = floatPtr(distance)
	ride.EstimatedDurationMinutes = intPtr(duration)
	ride.RiderRating = intPtr(riderRating)
	ride.DriverRating = intPtr(driverRating)
	if scheduled.Valid {
		t := scheduled.Time
		ride.ScheduledTime = &t
	}
	ride.AcceptedAt = timeOrZero(acceptedAt)
	ride.StartedAt = timeOrZero(startedAt)
	ride.CompletedAt = timeOrZero(completedAt)
	ride.CancelledAt = timeOrZero(cancelledAt)

	return &ride, nil
}

package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"ridehail/internal/domain"
)

// RatingSlot selects which rating column of a ride is addressed.
type RatingSlot string

const (
	// SlotDriver is the score riders give drivers.
	SlotDriver RatingSlot = "driver"
	// SlotRider is the score drivers give riders.
	SlotRider RatingSlot = "rider"
)

// RideRepository defines the persistence operations for rides. Every
// transition is a guarded single-row update that returns ErrNotFound when
// the guard does not hold.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// ListByRider returns the rider's rides, newest first.
	ListByRider(ctx context.Context, riderID string) ([]*domain.Ride, error)

	// ListByDriver returns the driver's rides, newest first.
	ListByDriver(ctx context.Context, driverID string) ([]*domain.Ride, error)

	// ListRequested returns up to limit unclaimed rides, oldest first.
	ListRequested(ctx context.Context, limit int) ([]*domain.Ride, error)

	// Accept assigns driverID with its counter price to a requested ride.
	Accept(ctx context.Context, id, driverID string, driverPrice decimal.Decimal, at time.Time) error

	// MarkPickedUp moves an accepted ride owned by driverID to picked_up.
	MarkPickedUp(ctx context.Context, id, driverID string, at time.Time) error

	// MarkCompleted moves a picked_up ride owned by driverID to completed.
	MarkCompleted(ctx context.Context, id, driverID string, finalPrice decimal.Decimal, at time.Time) error

	// Cancel moves a ride in one of the from states to cancelled.
	Cancel(ctx context.Context, id string, from []domain.RideStatus, at time.Time) error

	// SetRating fills one rating slot and the author's feedback on a completed ride.
	SetRating(ctx context.Context, id string, slot RatingSlot, rating int, feedback string, at time.Time) error

	// AverageRating returns the mean of the non-null ratings in slot across
	// the completed rides where userID holds that slot's role. Nil when
	// there are none.
	AverageRating(ctx context.Context, userID string, slot RatingSlot) (*float64, error)
}

// MessageRepository defines the persistence operations for ride chat.
type MessageRepository interface {
	// Create appends a message.
	Create(ctx context.Context, msg *domain.RideMessage) error

	// ListByRide returns the ride's messages, oldest first.
	ListByRide(ctx context.Context, rideID string) ([]*domain.RideMessage, error)
}

// FavoriteLocationRepository defines the persistence operations for saved places.
type FavoriteLocationRepository interface {
	Create(ctx context.Context, loc *domain.FavoriteLocation) error

	// ListByUser returns the user's places, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.FavoriteLocation, error)

	// Delete removes a place owned by userID.
	Delete(ctx context.Context, id, userID string) error
}

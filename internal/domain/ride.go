package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// RideStatus represents the current status of a ride.
type RideStatus string

const (
	RideStatusRequested RideStatus = "requested"
	RideStatusAccepted  RideStatus = "accepted"
	RideStatusPickedUp  RideStatus = "picked_up"
	RideStatusCompleted RideStatus = "completed"
	RideStatusCancelled RideStatus = "cancelled"
)

// IsTerminal reports whether no further transitions are permitted.
func (s RideStatus) IsTerminal() bool {
	return s == RideStatusCompleted || s == RideStatusCancelled
}

// Valid reports whether s is a known status.
func (s RideStatus) Valid() bool {
	switch s {
	case RideStatusRequested, RideStatusAccepted, RideStatusPickedUp,
		RideStatusCompleted, RideStatusCancelled:
		return true
	}
	return false
}

// AllowedTransitions is the ride state machine as a table.
var AllowedTransitions = map[RideStatus][]RideStatus{
	RideStatusRequested: {RideStatusAccepted, RideStatusCancelled},
	RideStatusAccepted:  {RideStatusPickedUp, RideStatusCancelled},
	RideStatusPickedUp:  {RideStatusCompleted, RideStatusCancelled},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to RideStatus) bool {
	for _, next := range AllowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

const (
	DefaultVehicleType   = "motorcycle"
	DefaultPaymentMethod = "cash"
)

// Ride is the central aggregate of the marketplace.
type Ride struct {
	ID       string
	RiderID  string
	DriverID string // empty until accepted
	Status   RideStatus

	PickupLat      float64
	PickupLng      float64
	PickupAddress  string
	DropoffLat     float64
	DropoffLng     float64
	DropoffAddress string

	RiderPrice  decimal.NullDecimal
	DriverPrice decimal.NullDecimal
	FinalPrice  decimal.NullDecimal

	DistanceKm               *float64
	EstimatedDurationMinutes *int
	VehicleType              string
	ScheduledTime            *time.Time
	PaymentMethod            string

	// RiderRating is the score the driver gave the rider; DriverRating the
	// score the rider gave the driver. Feedback fields hold the author's text.
	RiderRating    *int
	DriverRating   *int
	RiderFeedback  string
	DriverFeedback string

	AcceptedAt  time.Time
	StartedAt   time.Time
	CompletedAt time.Time
	CancelledAt time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SettlementPrice is the price the ride completes at: the driver's
// counter-offer when present, else the rider's proposal, else zero.
func (r *Ride) SettlementPrice() decimal.Decimal {
	if r.DriverPrice.Valid {
		return r.DriverPrice.Decimal
	}
	if r.RiderPrice.Valid {
		return r.RiderPrice.Decimal
	}
	return decimal.Zero
}

// HasDriver reports whether a driver has been assigned.
func (r *Ride) HasDriver() bool {
	return r.DriverID != ""
}

// RideMessage is a chat line on a ride.
type RideMessage struct {
	ID        string
	RideID    string
	SenderID  string
	Message   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

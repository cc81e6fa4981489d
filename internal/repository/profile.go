package repository

import (
	"context"

	"ridehail/internal/domain"
)

// ProfileUpdate carries the optional fields of a self-service profile edit.
// Nil fields are left untouched.
type ProfileUpdate struct {
	FullName     *string
	PhoneNumber  *string
	VehicleType  *string
	VehiclePlate *string
	VehicleColor *string
	IsAvailable  *bool
	CurrentLat   *float64
	CurrentLng   *float64
}

// ProfileRepository defines the persistence operations for profiles.
type ProfileRepository interface {
	// Create persists a new profile. Returns ErrDuplicate if the identity
	// already has one.
	Create(ctx context.Context, profile *domain.Profile) error

	// GetByUserID retrieves the profile of an identity.
	GetByUserID(ctx context.Context, userID string) (*domain.Profile, error)

	// Update applies a partial update to the identity's profile.
	Update(ctx context.Context, userID string, update ProfileUpdate) error

	// IncrementTotalRides adds one completed ride to each given identity.
	IncrementTotalRides(ctx context.Context, userIDs ...string) error

	// SetRating stores the identity's average rating; nil clears it.
	SetRating(ctx context.Context, userID string, rating *float64) error
}

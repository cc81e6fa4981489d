package service

import "errors"

// Not found.
var (
	// ErrProfileNotFound is returned when the caller has no profile yet.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrRideNotFound is returned when a ride is missing, not visible to the
	// caller, or not in the state the operation requires.
	ErrRideNotFound = errors.New("ride not found")

	// ErrRideNotCompleted is returned when a post-completion operation
	// targets a ride that is missing or not completed.
	ErrRideNotCompleted = errors.New("ride not found or not completed")

	// ErrFavoriteNotFound is returned when a saved place is missing or owned by someone else.
	ErrFavoriteNotFound = errors.New("favorite location not found")

	// ErrNoDriverAssigned is returned when a ride has no driver yet.
	ErrNoDriverAssigned = errors.New("no driver assigned yet")

	// ErrDriverLocationUnknown is returned when the driver never reported a position.
	ErrDriverLocationUnknown = errors.New("driver location not available")
)

// Forbidden.
var (
	// ErrNotRider is returned when a rider-only operation is called by someone else.
	ErrNotRider = errors.New("only riders can perform this action")

	// ErrNotDriver is returned when a driver-only operation is called by someone else.
	ErrNotDriver = errors.New("only drivers can perform this action")

	// ErrNotRideParty is returned when the caller is neither the rider nor the driver of a ride.
	ErrNotRideParty = errors.New("not authorized for this ride")

	// ErrNotRideRider is returned when someone other than the rider tries to pay.
	ErrNotRideRider = errors.New("only the rider can pay for this ride")
)

// Conflict.
var (
	// ErrProfileExists is returned when an identity creates a second profile.
	ErrProfileExists = errors.New("profile already exists")

	// ErrRideTerminal is returned when cancelling a completed or cancelled ride.
	ErrRideTerminal = errors.New("ride is already completed or cancelled")

	// ErrAlreadyPaid is returned when a ride already has a completed payment.
	ErrAlreadyPaid = errors.New("ride has already been paid")

	// ErrPaymentInProgress is returned when another payment for the ride holds the lock.
	ErrPaymentInProgress = errors.New("a payment for this ride is already in progress")
)

// Validation.
var (
	ErrInvalidRole     = errors.New("role must be rider or driver")
	ErrInvalidLocation = errors.New("invalid coordinates")
	ErrInvalidPrice    = errors.New("price must be greater than zero")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrInvalidAmount   = errors.New("amount must be greater than zero with at most two decimal places")
	ErrInvalidProvider = errors.New("invalid payment provider")
	ErrPhoneRequired   = errors.New("phone number is required for mobile money")
	ErrInvalidMessage  = errors.New("message must be between 1 and 1000 characters")
	ErrEmptyName       = errors.New("name must not be empty")
	ErrNoFinalPrice    = errors.New("ride has no final price")
)

// ErrInsufficientFunds is returned when a wallet cannot cover a payment.
var ErrInsufficientFunds = errors.New("insufficient wallet balance")

// ErrPaymentFailed is returned when the mobile-money provider rejects a charge.
var ErrPaymentFailed = errors.New("payment failed")

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"ridehail/internal/domain"
	redisstore "ridehail/internal/redis"
	"ridehail/internal/repository"
)

// AvailableRidesLimit caps the unclaimed-ride feed shown to drivers.
const AvailableRidesLimit = 20

// RideService runs the ride lifecycle: request, accept, pickup, complete,
// cancel, plus the read paths scoped to the ride's parties.
type RideService struct {
	repos     repository.Repositories
	tx        repository.TxManager
	locations redisstore.LocationStoreInterface
	cache     redisstore.CacheStoreInterface
	clock     Clock
	log       logrus.FieldLogger
}

// NewRideService creates a new RideService. locations and cache may be nil.
func NewRideService(
	repos repository.Repositories,
	tx repository.TxManager,
	locations redisstore.LocationStoreInterface,
	cache redisstore.CacheStoreInterface,
	clock Clock,
	log logrus.FieldLogger,
) *RideService {
	return &RideService{
		repos:     repos,
		tx:        tx,
		locations: locations,
		cache:     cache,
		clock:     clock,
		log:       log,
	}
}

// CreateRideRequest contains the parameters for requesting a ride.
type CreateRideRequest struct {
	RiderID        string
	PickupLat      float64
	PickupLng      float64
	PickupAddress  string
	DropoffLat     float64
	DropoffLng     float64
	DropoffAddress string
	RiderPrice     decimal.Decimal
	VehicleType    string     // optional, defaults to motorcycle
	ScheduledTime  *time.Time // optional
	PaymentMethod  string     // optional, defaults to cash
}

// partyOf resolves the caller's profile into a Party.
func (s *RideService) partyOf(ctx context.Context, userID string) (domain.Party, error) {
	profile, err := s.repos.Profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.Party{}, ErrProfileNotFound
		}
		return domain.Party{}, fmt.Errorf("failed to load profile: %w", err)
	}
	return domain.PartyFor(profile), nil
}

// CreateRide inserts a requested ride for a rider.
func (s *RideService) CreateRide(ctx context.Context, req CreateRideRequest) (*domain.Ride, error) {
	if err := validateCreateRide(req); err != nil {
		return nil, err
	}

	party, err := s.partyOf(ctx, req.RiderID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrNotRider
		}
		return nil, err
	}
	if !domain.CanCreate(party) {
		return nil, ErrNotRider
	}

	vehicleType := req.VehicleType
	if vehicleType == "" {
		vehicleType = domain.DefaultVehicleType
	}
	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = domain.DefaultPaymentMethod
	}

	now := s.clock.Now()
	ride := &domain.Ride{
		ID:             uuid.New().String(),
		RiderID:        req.RiderID,
		Status:         domain.RideStatusRequested,
		PickupLat:      req.PickupLat,
		PickupLng:      req.PickupLng,
		PickupAddress:  req.PickupAddress,
		DropoffLat:     req.DropoffLat,
		DropoffLng:     req.DropoffLng,
		DropoffAddress: req.DropoffAddress,
		RiderPrice:     decimal.NewNullDecimal(req.RiderPrice),
		VehicleType:    vehicleType,
		ScheduledTime:  req.ScheduledTime,
		PaymentMethod:  paymentMethod,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.repos.Rides.Create(ctx, ride); err != nil {
		return nil, fmt.Errorf("failed to create ride: %w", err)
	}

	s.log.WithFields(logrus.Fields{
		"ride_id":     ride.ID,
		"rider_id":    ride.RiderID,
		"rider_price": ride.RiderPrice.Decimal.String(),
	}).Info("ride requested")

	return ride, nil
}

func validateCreateRide(req CreateRideRequest) error {
	if !validCoordinates(req.PickupLat, req.PickupLng) || !validCoordinates(req.DropoffLat, req.DropoffLng) {
		return ErrInvalidLocation
	}
	if !req.RiderPrice.IsPositive() {
		return ErrInvalidPrice
	}
	return nil
}

func validCoordinates(lat, lng float64) bool {
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}

// AcceptRide claims a requested ride for a driver at the driver's price.
// Losing an accept race surfaces as ErrRideNotFound.
func (s *RideService) AcceptRide(ctx context.Context, rideID, driverID string, driverPrice decimal.Decimal) (*domain.Ride, error) {
	if !driverPrice.IsPositive() {
		return nil, ErrInvalidPrice
	}

	party, err := s.partyOf(ctx, driverID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrNotDriver
		}
		return nil, err
	}
	if !party.IsDriver() {
		return nil, ErrNotDriver
	}

	ride, err := s.getRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !domain.CanAccept(ride, party) {
		return nil, ErrRideNotFound
	}

	if err := s.repos.Rides.Accept(ctx, rideID, driverID, driverPrice, s.clock.Now()); err != nil {
		return nil, rideErr(err)
	}

	s.log.WithFields(logrus.Fields{
		"ride_id":      rideID,
		"driver_id":    driverID,
		"driver_price": driverPrice.String(),
	}).Info("ride accepted")

	return s.getRide(ctx, rideID)
}

// PickupRide marks the rider as picked up by the assigned driver.
func (s *RideService) PickupRide(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	ride, err := s.getRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !domain.CanPickup(ride, driverID) {
		return nil, ErrRideNotFound
	}

	if err := s.repos.Rides.MarkPickedUp(ctx, rideID, driverID, s.clock.Now()); err != nil {
		return nil, rideErr(err)
	}

	s.log.WithFields(logrus.Fields{"ride_id": rideID, "driver_id": driverID}).Info("ride picked up")

	return s.getRide(ctx, rideID)
}

// CompleteRide finishes a picked-up ride. The status change, both parties'
// ride counters and the driver's earning row commit together.
func (s *RideService) CompleteRide(ctx context.Context, rideID, driverID string) (*domain.Ride, error) {
	now := s.clock.Now()
	var finalPrice decimal.Decimal

	err := s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		ride, err := repos.Rides.GetByID(ctx, rideID)
		if err != nil {
			return rideErr(err)
		}
		if !domain.CanComplete(ride, driverID) {
			return ErrRideNotFound
		}

		finalPrice = ride.SettlementPrice()
		if err := repos.Rides.MarkCompleted(ctx, rideID, driverID, finalPrice, now); err != nil {
			return rideErr(err)
		}

		if err := repos.Profiles.IncrementTotalRides(ctx, ride.RiderID, driverID); err != nil {
			return fmt.Errorf("failed to update ride counters: %w", err)
		}

		earning := &domain.DriverEarning{
			ID:        uuid.New().String(),
			DriverID:  driverID,
			RideID:    rideID,
			Amount:    finalPrice,
			Date:      today(now),
			CreatedAt: now,
		}
		if err := repos.Earnings.Create(ctx, earning); err != nil {
			return fmt.Errorf("failed to record earning: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.InvalidateEarnings(ctx, driverID); err != nil {
			s.log.WithError(err).WithField("driver_id", driverID).Warn("failed to invalidate earnings cache")
		}
	}

	s.log.WithFields(logrus.Fields{
		"ride_id":     rideID,
		"driver_id":   driverID,
		"final_price": finalPrice.String(),
	}).Info("ride completed")

	return s.getRide(ctx, rideID)
}

// CancelRide cancels a non-terminal ride on behalf of either party.
func (s *RideService) CancelRide(ctx context.Context, rideID, userID string) (*domain.Ride, error) {
	ride, err := s.getRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !domain.IsPartyTo(ride, userID) {
		return nil, ErrRideNotFound
	}
	if !domain.CanCancel(ride, userID) {
		return nil, ErrRideTerminal
	}

	from := []domain.RideStatus{domain.RideStatusRequested, domain.RideStatusAccepted, domain.RideStatusPickedUp}
	if err := s.repos.Rides.Cancel(ctx, rideID, from, s.clock.Now()); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRideTerminal
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"ride_id":      rideID,
		"cancelled_by": userID,
		"from_status":  ride.Status,
	}).Info("ride cancelled")

	return s.getRide(ctx, rideID)
}

// GetRide returns a ride visible to one of its parties.
func (s *RideService) GetRide(ctx context.Context, rideID, userID string) (*domain.Ride, error) {
	ride, err := s.getRide(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if !domain.CanView(ride, userID) {
		return nil, ErrNotRideParty
	}
	return ride, nil
}

// ListRides returns the caller's rides, newest first, scoped by role.
func (s *RideService) ListRides(ctx context.Context, userID string) ([]*domain.Ride, error) {
	party, err := s.partyOf(ctx, userID)
	if err != nil {
		return nil, err
	}
	if party.IsDriver() {
		return s.repos.Rides.ListByDriver(ctx, userID)
	}
	return s.repos.Rides.ListByRider(ctx, userID)
}

// ListAvailableRides returns unclaimed requests, oldest first.
func (s *RideService) ListAvailableRides(ctx context.Context, userID string) ([]*domain.Ride, error) {
	party, err := s.partyOf(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrNotDriver
		}
		return nil, err
	}
	if !domain.CanListAvailable(party) {
		return nil, ErrNotDriver
	}
	return s.repos.Rides.ListRequested(ctx, AvailableRidesLimit)
}

// DriverLocation returns the last known position of the ride's driver,
// preferring the live location index over the profile row.
func (s *RideService) DriverLocation(ctx context.Context, rideID, userID string) (*domain.Location, error) {
	ride, err := s.GetRide(ctx, rideID, userID)
	if err != nil {
		return nil, err
	}
	if !ride.HasDriver() {
		return nil, ErrNoDriverAssigned
	}

	if s.locations != nil {
		loc, err := s.locations.GetLocation(ctx, ride.DriverID)
		if err == nil {
			return loc, nil
		}
		if !errors.Is(err, redisstore.ErrLocationUnknown) {
			s.log.WithError(err).WithField("driver_id", ride.DriverID).Warn("location index unavailable, falling back to profile")
		}
	}

	profile, err := s.repos.Profiles.GetByUserID(ctx, ride.DriverID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrDriverLocationUnknown
		}
		return nil, err
	}
	if profile.CurrentLat == nil || profile.CurrentLng == nil {
		return nil, ErrDriverLocationUnknown
	}
	return &domain.Location{Lat: *profile.CurrentLat, Lng: *profile.CurrentLng}, nil
}

func (s *RideService) getRide(ctx context.Context, rideID string) (*domain.Ride, error) {
	ride, err := s.repos.Rides.GetByID(ctx, rideID)
	if err != nil {
		return nil, rideErr(err)
	}
	return ride, nil
}

// rideErr maps a repository miss to ErrRideNotFound.
func rideErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrRideNotFound
	}
	return err
}

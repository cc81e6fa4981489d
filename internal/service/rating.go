package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// RateRideRequest contains the parameters for rating the other party.
type RateRideRequest struct {
	RideID   string
	UserID   string
	Rating   int
	Feedback string
}

// RateRide stores the caller's score for the other party of a completed ride
// and refreshes that party's average. A rider rates the driver and a driver
// rates the rider; rating again overwrites the previous score.
func (s *RideService) RateRide(ctx context.Context, req RateRideRequest) (*domain.Ride, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, ErrInvalidRating
	}

	ride, err := s.repos.Rides.GetByID(ctx, req.RideID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrRideNotCompleted
		}
		return nil, err
	}
	if ride.Status != domain.RideStatusCompleted {
		return nil, ErrRideNotCompleted
	}
	if !domain.CanRate(ride, req.UserID) {
		return nil, ErrNotRideParty
	}

	slot, rated := repository.SlotDriver, ride.DriverID
	if domain.IsDriverOf(ride, req.UserID) {
		slot, rated = repository.SlotRider, ride.RiderID
	}

	feedback := strings.TrimSpace(req.Feedback)
	var average *float64

	err = s.tx.WithinTx(ctx, func(repos repository.Repositories) error {
		if err := repos.Rides.SetRating(ctx, req.RideID, slot, req.Rating, feedback, s.clock.Now()); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrRideNotCompleted
			}
			return err
		}

		avg, err := repos.Rides.AverageRating(ctx, rated, slot)
		if err != nil {
			return fmt.Errorf("failed to compute rating: %w", err)
		}
		average = avg
		return repos.Profiles.SetRating(ctx, rated, avg)
	})
	if err != nil {
		return nil, err
	}

	entry := s.log.WithFields(logrus.Fields{
		"ride_id": req.RideID,
		"rated":   rated,
		"slot":    slot,
		"rating":  req.Rating,
	})
	if average != nil {
		entry = entry.WithField("average", *average)
	}
	entry.Info("ride rated")

	return s.getRide(ctx, req.RideID)
}

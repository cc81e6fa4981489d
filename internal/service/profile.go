package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"ridehail/internal/domain"
	redisstore "ridehail/internal/redis"
	"ridehail/internal/repository"
)

// ProfileService manages marketplace profiles.
type ProfileService struct {
	profiles  repository.ProfileRepository
	locations redisstore.LocationStoreInterface
	clock     Clock
	log       logrus.FieldLogger
}

// NewProfileService creates a new ProfileService. locations may be nil.
func NewProfileService(
	profiles repository.ProfileRepository,
	locations redisstore.LocationStoreInterface,
	clock Clock,
	log logrus.FieldLogger,
) *ProfileService {
	return &ProfileService{
		profiles:  profiles,
		locations: locations,
		clock:     clock,
		log:       log,
	}
}

// CreateProfileRequest contains the parameters for creating a profile.
type CreateProfileRequest struct {
	UserID          string
	Role            domain.Role
	FullName        string
	PhoneNumber     string
	ProfileImageURL string
	Vehicle         domain.Vehicle // drivers only
}

// CreateProfile creates the caller's profile. The role cannot change later.
func (s *ProfileService) CreateProfile(ctx context.Context, req CreateProfileRequest) (*domain.Profile, error) {
	if !req.Role.Valid() {
		return nil, ErrInvalidRole
	}
	if strings.TrimSpace(req.FullName) == "" {
		return nil, ErrEmptyName
	}

	now := s.clock.Now()
	profile := &domain.Profile{
		ID:              uuid.New().String(),
		UserID:          req.UserID,
		Role:            req.Role,
		FullName:        strings.TrimSpace(req.FullName),
		PhoneNumber:     strings.TrimSpace(req.PhoneNumber),
		ProfileImageURL: req.ProfileImageURL,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if req.Role == domain.RoleDriver {
		profile.Vehicle = req.Vehicle
	}

	if err := s.profiles.Create(ctx, profile); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrProfileExists
		}
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.log.WithFields(logrus.Fields{"user_id": req.UserID, "role": req.Role}).Info("profile created")
	return profile, nil
}

// GetProfile returns the caller's profile.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	profile, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// UpdateProfile applies a partial update. Vehicle fields are ignored for
// riders; a driver's coordinates are mirrored into the location index and
// dropped from it when the driver goes offline.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, update repository.ProfileUpdate) (*domain.Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if (update.CurrentLat == nil) != (update.CurrentLng == nil) {
		return nil, ErrInvalidLocation
	}
	if update.CurrentLat != nil && !validCoordinates(*update.CurrentLat, *update.CurrentLng) {
		return nil, ErrInvalidLocation
	}
	if !profile.IsDriver() {
		update.VehicleType, update.VehiclePlate, update.VehicleColor = nil, nil, nil
	}

	if err := s.profiles.Update(ctx, userID, update); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	if profile.IsDriver() && s.locations != nil {
		s.syncLocationIndex(ctx, userID, update)
	}

	return s.GetProfile(ctx, userID)
}

func (s *ProfileService) syncLocationIndex(ctx context.Context, driverID string, update repository.ProfileUpdate) {
	var err error
	switch {
	case update.IsAvailable != nil && !*update.IsAvailable:
		err = s.locations.RemoveLocation(ctx, driverID)
	case update.CurrentLat != nil:
		err = s.locations.UpdateLocation(ctx, driverID, *update.CurrentLat, *update.CurrentLng)
	default:
		return
	}
	if err != nil {
		s.log.WithError(err).WithField("driver_id", driverID).Warn("failed to sync driver location index")
	}
}

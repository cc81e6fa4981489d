package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ridehail/internal/domain"
	"ridehail/internal/repository"
)

// FavoriteService manages saved places.
type FavoriteService struct {
	favorites repository.FavoriteLocationRepository
	clock     Clock
}

func NewFavoriteService(favorites repository.FavoriteLocationRepository, clock Clock) *FavoriteService {
	return &FavoriteService{favorites: favorites, clock: clock}
}

func (s *FavoriteService) List(ctx context.Context, userID string) ([]*domain.FavoriteLocation, error) {
	return s.favorites.ListByUser(ctx, userID)
}

func (s *FavoriteService) Create(ctx context.Context, userID, name, address string, lat, lng float64) (*domain.FavoriteLocation, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if !validCoordinates(lat, lng) {
		return nil, ErrInvalidLocation
	}

	now := s.clock.Now()
	loc := &domain.FavoriteLocation{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      name,
		Address:   strings.TrimSpace(address),
		Lat:       lat,
		Lng:       lng,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.favorites.Create(ctx, loc); err != nil {
		return nil, fmt.Errorf("failed to save location: %w", err)
	}
	return loc, nil
}

// Delete removes one of the caller's places.
func (s *FavoriteService) Delete(ctx context.Context, userID, id string) error {
	if err := s.favorites.Delete(ctx, id, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFavoriteNotFound
		}
		return err
	}
	return nil
}

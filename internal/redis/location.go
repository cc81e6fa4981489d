package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	"ridehail/internal/domain"
)

const driverLocationKey = "drivers:locations"

// ErrLocationUnknown is returned when a driver has no indexed position.
var ErrLocationUnknown = errors.New("driver location unknown")

// LocationStore handles driver location operations in Redis.
type LocationStore struct {
	client *redis.Client
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(client *redis.Client) *LocationStore {
	return &LocationStore{client: client}
}

// UpdateLocation stores a driver's location using GEOADD.
func (s *LocationStore) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, driverLocationKey, &redis.GeoLocation{
		Name:      driverID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// GetLocation reads a driver's last position using GEOPOS.
func (s *LocationStore) GetLocation(ctx context.Context, driverID string) (*domain.Location, error) {
	positions, err := s.client.GeoPos(ctx, driverLocationKey, driverID).Result()
	if err != nil {
		return nil, err
	}
	if len(positions) == 0 || positions[0] == nil {
		return nil, ErrLocationUnknown
	}

	return &domain.Location{
		Lat: positions[0].Latitude,
		Lng: positions[0].Longitude,
	}, nil
}

// RemoveLocation removes a driver's location from the geo index.
func (s *LocationStore) RemoveLocation(ctx context.Context, driverID string) error {
	return s.client.ZRem(ctx, driverLocationKey, driverID).Err()
}

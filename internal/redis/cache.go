package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"ridehail/internal/domain"
)

// ErrCacheMiss is returned when a key is not cached.
var ErrCacheMiss = errors.New("cache miss")

// EarningsCacheTTL bounds how stale a summary can get if an invalidation is lost.
const EarningsCacheTTL = 60 * time.Second

const earningsCachePrefix = "cache:earnings:"

// CacheStore handles read-model caching in Redis.
type CacheStore struct {
	client *redis.Client
}

// NewCacheStore creates a new CacheStore.
func NewCacheStore(client *redis.Client) *CacheStore {
	return &CacheStore{client: client}
}

// CachedEarnings is the cached form of an earnings summary.
type CachedEarnings struct {
	Today      decimal.Decimal `json:"today"`
	Week       decimal.Decimal `json:"week"`
	Month      decimal.Decimal `json:"month"`
	TotalRides int             `json:"total_rides"`
}

// GetEarnings retrieves a driver's earnings summary from cache.
func (s *CacheStore) GetEarnings(ctx context.Context, driverID string) (*domain.EarningsSummary, error) {
	data, err := s.client.Get(ctx, earningsCachePrefix+driverID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}

	var cached CachedEarnings
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, err
	}
	return &domain.EarningsSummary{
		Today:      cached.Today,
		Week:       cached.Week,
		Month:      cached.Month,
		TotalRides: cached.TotalRides,
	}, nil
}

// SetEarnings stores a driver's earnings summary in cache.
func (s *CacheStore) SetEarnings(ctx context.Context, driverID string, summary *domain.EarningsSummary) error {
	data, err := json.Marshal(CachedEarnings{
		Today:      summary.Today,
		Week:       summary.Week,
		Month:      summary.Month,
		TotalRides: summary.TotalRides,
	})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, earningsCachePrefix+driverID, data, EarningsCacheTTL).Err()
}

// InvalidateEarnings removes a driver's earnings summary from cache.
func (s *CacheStore) InvalidateEarnings(ctx context.Context, driverID string) error {
	return s.client.Del(ctx, earningsCachePrefix+driverID).Err()
}

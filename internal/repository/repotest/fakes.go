package repotest

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ridehail/internal/domain"
	redisstore "ridehail/internal/redis"
)

// LocationStore is an in-memory redis.LocationStoreInterface.
type LocationStore struct {
	mu        sync.Mutex
	locations map[string]domain.Location
	Err       error
}

func NewLocationStore() *LocationStore {
	return &LocationStore{locations: make(map[string]domain.Location)}
}

func (s *LocationStore) UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return s.Err
	}
	s.locations[driverID] = domain.Location{Lat: lat, Lng: lng}
	return nil
}

func (s *LocationStore) GetLocation(ctx context.Context, driverID string) (*domain.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Err != nil {
		return nil, s.Err
	}
	loc, ok := s.locations[driverID]
	if !ok {
		return nil, redisstore.ErrLocationUnknown
	}
	return &loc, nil
}

func (s *LocationStore) RemoveLocation(ctx context.Context, driverID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.locations, driverID)
	return nil
}

// LockStore is an in-memory redis.LockStoreInterface. Locks never expire on
// their own; Expire drops one as if its TTL ran out.
type LockStore struct {
	mu       sync.Mutex
	held     map[string]string
	seq      int
	Acquired int
	Released int
}

func NewLockStore() *LockStore {
	return &LockStore{held: make(map[string]string)}
}

// Hold marks the ride lock as taken by someone else.
func (s *LockStore) Hold(rideID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.held[rideID] = "other"
}

// Expire drops the ride lock regardless of its holder.
func (s *LockStore) Expire(rideID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.held, rideID)
}

// Held reports whether the ride lock is taken.
func (s *LockStore) Held(rideID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.held[rideID]
	return ok
}

func (s *LockStore) AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.held[rideID]; ok {
		return "", false, nil
	}
	s.seq++
	token := fmt.Sprintf("token-%d", s.seq)
	s.held[rideID] = token
	s.Acquired++
	return token, true, nil
}

func (s *LockStore) ReleaseRideLock(ctx context.Context, rideID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.held[rideID] == token {
		delete(s.held, rideID)
	}
	s.Released++
	return nil
}

// CacheStore is an in-memory redis.CacheStoreInterface.
type CacheStore struct {
	mu       sync.Mutex
	earnings map[string]domain.EarningsSummary
	Hits     int
}

func NewCacheStore() *CacheStore {
	return &CacheStore{earnings: make(map[string]domain.EarningsSummary)}
}

func (s *CacheStore) GetEarnings(ctx context.Context, driverID string) (*domain.EarningsSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	summary, ok := s.earnings[driverID]
	if !ok {
		return nil, redisstore.ErrCacheMiss
	}
	s.Hits++
	return &summary, nil
}

func (s *CacheStore) SetEarnings(ctx context.Context, driverID string, summary *domain.EarningsSummary) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.earnings[driverID] = *summary
	return nil
}

func (s *CacheStore) InvalidateEarnings(ctx context.Context, driverID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.earnings, driverID)
	return nil
}

var (
	_ redisstore.LocationStoreInterface = (*LocationStore)(nil)
	_ redisstore.LockStoreInterface     = (*LockStore)(nil)
	_ redisstore.CacheStoreInterface    = (*CacheStore)(nil)
)

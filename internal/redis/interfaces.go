package redis

import (
	"context"
	"time"

	"ridehail/internal/domain"
)

// LocationStoreInterface defines the interface for driver location operations.
type LocationStoreInterface interface {
	UpdateLocation(ctx context.Context, driverID string, lat, lng float64) error
	// GetLocation returns ErrLocationUnknown when the driver has no position.
	GetLocation(ctx context.Context, driverID string) (*domain.Location, error)
	RemoveLocation(ctx context.Context, driverID string) error
}

// LockStoreInterface defines the interface for distributed locking.
type LockStoreInterface interface {
	// AcquireRideLock returns the holder token when the lock was taken.
	AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (string, bool, error)
	// ReleaseRideLock is a no-op unless the lock is still held with token.
	ReleaseRideLock(ctx context.Context, rideID, token string) error
}

// CacheStoreInterface defines the interface for read-model caching.
type CacheStoreInterface interface {
	// GetEarnings returns ErrCacheMiss when nothing is cached.
	GetEarnings(ctx context.Context, driverID string) (*domain.EarningsSummary, error)
	SetEarnings(ctx context.Context, driverID string, summary *domain.EarningsSummary) error
	InvalidateEarnings(ctx context.Context, driverID string) error
}

// IdempotencyStoreInterface records responses of mutating requests by key.
type IdempotencyStoreInterface interface {
	// Reserve claims key for an in-flight request. It reports false when the
	// key is already claimed or completed.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)
	// Get returns ErrReplayPending while the first request is still running.
	Get(ctx context.Context, key string) (*StoredResponse, error)
	Complete(ctx context.Context, key string, resp *StoredResponse, ttl time.Duration) error
	Release(ctx context.Context, key string) error
}

// Ensure concrete types implement interfaces.
var (
	_ LocationStoreInterface = (*LocationStore)(nil)
	_ LockStoreInterface     = (*LockStore)(nil)
	_ CacheStoreInterface    = (*CacheStore)(nil)

	_ IdempotencyStoreInterface = (*IdempotencyStore)(nil)
)

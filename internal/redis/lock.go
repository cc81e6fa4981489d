package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the lock only while it still carries the caller's
// token, so a holder whose TTL ran out cannot free someone else's lock.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

func rideLockKey(rideID string) string {
	return fmt.Sprintf("lock:ride:payment:%s", rideID)
}

// AcquireRideLock attempts to acquire the payment lock for the given ride.
// On success it returns the token that must be passed to ReleaseRideLock.
func (s *LockStore) AcquireRideLock(ctx context.Context, rideID string, ttl time.Duration) (string, bool, error) {
	token := uuid.New().String()
	ok, err := s.client.SetNX(ctx, rideLockKey(rideID), token, ttl).Result()
	if err != nil || !ok {
		return "", false, err
	}
	return token, true, nil
}

// ReleaseRideLock releases the payment lock if it is still held with token.
func (s *LockStore) ReleaseRideLock(ctx context.Context, rideID, token string) error {
	return releaseScript.Run(ctx, s.client, []string{rideLockKey(rideID)}, token).Err()
}

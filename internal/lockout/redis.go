package lockout

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const defaultKeyPrefix = "agl:"

// RedisTracker is a Tracker backed by a Redis counter per identity. The
// failure window is a rolling TTL refreshed on every failure, so records
// expire server-side and Sweep has nothing to do.
type RedisTracker struct {
	redis  redis.UniversalClient
	config Config
	prefix string
}

// NewRedisTracker returns a RedisTracker enforcing cfg. An empty prefix
// defaults to "agl:".
func NewRedisTracker(client redis.UniversalClient, cfg Config, prefix string) *RedisTracker {
	if prefix == "" {
		prefix = defaultKeyPrefix
	}
	return &RedisTracker{redis: client, config: cfg, prefix: prefix}
}

func (t *RedisTracker) key(identity string) string {
	return t.prefix + identity
}

// IsLockedOut implements Tracker.
func (t *RedisTracker) IsLockedOut(ctx context.Context, identity string) (bool, error) {
	count, err := t.redis.Get(ctx, t.key(identity)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return count >= int64(t.config.MaxAttempts), nil
}

// RecordFailure implements Tracker. The TTL is refreshed on every failure so
// the window is measured from the most recent failure, matching the memory
// backend.
func (t *RedisTracker) RecordFailure(ctx context.Context, identity string) error {
	key := t.key(identity)

	if _, err := t.redis.Incr(ctx, key).Result(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if err := t.redis.Expire(ctx, key, t.config.Window).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Clear implements Tracker.
func (t *RedisTracker) Clear(ctx context.Context, identity string) error {
	if err := t.redis.Del(ctx, t.key(identity)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// FailureCount implements Tracker.
func (t *RedisTracker) FailureCount(ctx context.Context, identity string) (int, error) {
	count, err := t.redis.Get(ctx, t.key(identity)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return int(count), nil
}

// Sweep implements Tracker. Expiry is handled by Redis TTLs.
func (t *RedisTracker) Sweep(context.Context) (int, error) {
	return 0, nil
}

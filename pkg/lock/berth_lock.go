// Package lock serializes check-then-write sequences on a single berth
// across service instances.
package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired means another request currently holds the berth.
var ErrNotAcquired = errors.New("berth lock held by another request")

// Locker guards a berth for the duration of release().
type Locker interface {
	Acquire(ctx context.Context, berthID uuid.UUID) (release func(context.Context) error, err error)
}

// releaseScript deletes the key only if it still carries our token, so an
// expired holder never frees a lock taken over by somebody else.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisLocker(client *redis.Client, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: client, ttl: ttl}
}

func key(berthID uuid.UUID) string {
	return "lock:berth:" + berthID.String()
}

func (l *RedisLocker) Acquire(ctx context.Context, berthID uuid.UUID) (func(context.Context) error, error) {
	token := uuid.NewString()
	k := key(berthID)

	ok, err := l.client.SetNX(ctx, k, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", k, err)
	}
	if !ok {
		return nil, ErrNotAcquired
	}

	return func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{k}, token).Err(); err != nil {
			return fmt.Errorf("release lock %s: %w", k, err)
		}
		return nil
	}, nil
}

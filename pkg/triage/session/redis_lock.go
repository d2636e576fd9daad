package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"ai-triage-be/pkg/triage"
)

// RedisLocker serializes sessions across instances with a SET NX lease.
// The TTL covers the slowest classification path so a crashed holder cannot
// wedge a contact forever.
type RedisLocker struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration) *RedisLocker {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &RedisLocker{rdb: rdb, ttl: ttl}
}

func (l *RedisLocker) TryLock(ctx context.Context, contact string) (func(), error) {
	key := "triage:session-lock:" + contact

	ok, err := l.rdb.SetNX(ctx, key, "1", l.ttl).Result()
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, triage.ErrSessionConflict
	}

	return func() {
		// Best effort; the TTL reclaims the lease if this fails.
		l.rdb.Del(context.Background(), key)
	}, nil
}

package lock

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"event-booking/internal/status"
)

// releaseScript deletes the key only while it still carries our token, so a
// lease that expired and was re-granted to another holder is never removed.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
    return redis.call("DEL", KEYS[1])
else
    return 0
end
`)

// RedisLocker implements Locker on a shared Redis instance using SET NX with
// a TTL as the lease.
type RedisLocker struct {
	client *redis.Client
	retry  time.Duration
	wait   time.Duration
}

type RedisOption func(*RedisLocker)

// WithRetryInterval sets the fixed backoff between acquisition attempts.
func WithRetryInterval(d time.Duration) RedisOption {
	return func(l *RedisLocker) {
		if d > 0 {
			l.retry = d
		}
	}
}

// WithWaitBudget sets the overall time Acquire keeps retrying before giving
// up with status.ErrLockUnavailable.
func WithWaitBudget(d time.Duration) RedisOption {
	return func(l *RedisLocker) {
		if d > 0 {
			l.wait = d
		}
	}
}

func NewRedisLocker(client *redis.Client, opts ...RedisOption) *RedisLocker {
	l := &RedisLocker{
		client: client,
		retry:  DefaultRetryInterval,
		wait:   DefaultWaitBudget,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *RedisLocker) Acquire(ctx context.Context, key string, lease time.Duration) (*Handle, error) {
	if lease <= 0 {
		lease = DefaultLease
	}
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, lease).Result()
		if err != nil {
			return nil, fmt.Errorf("lock acquire %q: %w", key, err)
		}
		if ok {
			return &Handle{Key: key, Token: token, ExpiresAt: time.Now().Add(lease)}, nil
		}

		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", status.ErrLockUnavailable, key)
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %v", status.ErrLockUnavailable, key, ctx.Err())
		case <-time.After(l.retry):
		}
	}
}

func (l *RedisLocker) Release(ctx context.Context, h *Handle) error {
	if h == nil {
		return nil
	}
	_, err := releaseScript.Run(ctx, l.client, []string{h.Key}, h.Token).Result()
	if err == redis.Nil {
		return nil
	}
	if err != nil {
		return fmt.Errorf("lock release %q: %w", h.Key, err)
	}
	return nil
}

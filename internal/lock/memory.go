package lock

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"event-booking/internal/status"
)

type memoryLease struct {
	token     string
	expiresAt time.Time
}

// MemoryLocker implements Locker with per-key in-process leases. It is the
// degraded fallback used when the Redis backend is unreachable at startup:
// reservations stay serialized within this process, but nothing excludes a
// second engine instance. Deployments must not run multiple instances in
// this mode.
type MemoryLocker struct {
	mu     sync.Mutex
	leases map[string]memoryLease
	retry  time.Duration
	wait   time.Duration
}

func NewMemoryLocker(retry, wait time.Duration) *MemoryLocker {
	if retry <= 0 {
		retry = DefaultRetryInterval
	}
	if wait <= 0 {
		wait = DefaultWaitBudget
	}
	return &MemoryLocker{
		leases: make(map[string]memoryLease),
		retry:  retry,
		wait:   wait,
	}
}

func (l *MemoryLocker) tryLock(key, token string, lease time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if cur, ok := l.leases[key]; ok && time.Now().Before(cur.expiresAt) {
		return false
	}
	l.leases[key] = memoryLease{token: token, expiresAt: time.Now().Add(lease)}
	return true
}

func (l *MemoryLocker) Acquire(ctx context.Context, key string, lease time.Duration) (*Handle, error) {
	if lease <= 0 {
		lease = DefaultLease
	}
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		if l.tryLock(key, token, lease) {
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

func (l *MemoryLocker) Release(_ context.Context, h *Handle) error {
	if h == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	if cur, ok := l.leases[h.Key]; ok && cur.token == h.Token {
		delete(l.leases, h.Key)
	}
	return nil
}

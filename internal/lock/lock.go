// Package lock provides a named, lease-bounded mutual exclusion primitive
// used to serialize reservation transactions per event. The Redis
// implementation excludes across processes; the in-memory implementation is
// the degraded fallback when no Redis backend is reachable and only excludes
// within a single process.
package lock

import (
	"context"
	"time"
)

const (
	DefaultLease         = 10 * time.Second
	DefaultWaitBudget    = 5 * time.Second
	DefaultRetryInterval = 25 * time.Millisecond
)

// Handle is an exclusive hold on a lock key. The token ties the handle to a
// specific lease so a holder whose lease expired cannot release a lock that
// was granted to someone else in the meantime.
type Handle struct {
	Key       string
	Token     string
	ExpiresAt time.Time
}

type Locker interface {
	// Acquire blocks until the key is held, the wait budget elapses
	// (status.ErrLockUnavailable) or ctx is done.
	Acquire(ctx context.Context, key string, lease time.Duration) (*Handle, error)

	// Release frees the lock. It is idempotent and a no-op for handles
	// whose lease already expired.
	Release(ctx context.Context, h *Handle) error
}

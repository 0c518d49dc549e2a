package lock

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"event-booking/internal/status"
)

func TestMemoryLocker_AcquireRelease(t *testing.T) {
	locker := NewMemoryLocker(5*time.Millisecond, 30*time.Millisecond)
	ctx := context.Background()

	h, err := locker.Acquire(ctx, "lock:event:e1", time.Minute)
	require.NoError(t, err)

	_, err = locker.Acquire(ctx, "lock:event:e1", time.Minute)
	require.Error(t, err)
	assert.True(t, errors.Is(err, status.ErrLockUnavailable))

	require.NoError(t, locker.Release(ctx, h))

	_, err = locker.Acquire(ctx, "lock:event:e1", time.Minute)
	require.NoError(t, err)
}

func TestMemoryLocker_LeaseExpires(t *testing.T) {
	locker := NewMemoryLocker(5*time.Millisecond, 200*time.Millisecond)
	ctx := context.Background()

	stale, err := locker.Acquire(ctx, "lock:event:e1", 20*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	fresh, err := locker.Acquire(ctx, "lock:event:e1", time.Minute)
	require.NoError(t, err)

	// Stale release must not free the fresh lease.
	require.NoError(t, locker.Release(ctx, stale))
	_, err = locker.Acquire(ctx, "lock:event:e1", time.Minute)
	assert.True(t, errors.Is(err, status.ErrLockUnavailable))

	require.NoError(t, locker.Release(ctx, fresh))
}

func TestMemoryLocker_DifferentKeysIndependent(t *testing.T) {
	locker := NewMemoryLocker(5*time.Millisecond, 30*time.Millisecond)
	ctx := context.Background()

	h1, err := locker.Acquire(ctx, "lock:event:e1", time.Minute)
	require.NoError(t, err)
	h2, err := locker.Acquire(ctx, "lock:event:e2", time.Minute)
	require.NoError(t, err)

	require.NoError(t, locker.Release(ctx, h1))
	require.NoError(t, locker.Release(ctx, h2))
}

func TestMemoryLocker_MutualExclusionUnderConcurrency(t *testing.T) {
	locker := NewMemoryLocker(time.Millisecond, 5*time.Second)
	ctx := context.Background()

	var inCritical int32
	var overlaps int32
	var wg sync.WaitGroup

	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			h, err := locker.Acquire(ctx, "lock:event:e1", time.Minute)
			if err != nil {
				atomic.AddInt32(&overlaps, 1)
				return
			}
			if atomic.AddInt32(&inCritical, 1) > 1 {
				atomic.AddInt32(&overlaps, 1)
			}
			time.Sleep(time.Millisecond)
			atomic.AddInt32(&inCritical, -1)
			_ = locker.Release(ctx, h)
		}()
	}
	wg.Wait()

	assert.Zero(t, atomic.LoadInt32(&overlaps))
}

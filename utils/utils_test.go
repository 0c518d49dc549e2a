package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(8)
	require.NoError(t, err)
	assert.Len(t, code, 16) // hex-encoded
	for _, c := range code {
		assert.Contains(t, "0123456789ABCDEF", string(c))
	}

	other, err := GenerateCode(8)
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}

func TestCircuitBreaker_ExecuteSuccess(t *testing.T) {
	cb := NewCircuitBreaker("test")
	ctx := context.Background()

	err := cb.Execute(ctx, func() error { return nil })

	assert.NoError(t, err)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_ExecuteFailurePassesThrough(t *testing.T) {
	cb := NewCircuitBreaker("test")
	ctx := context.Background()

	boom := errors.New("boom")
	err := cb.Execute(ctx, func() error { return boom })

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_TripsAfterConsecutiveFailures(t *testing.T) {
	cb := NewCircuitBreaker("test").WithThreshold(3)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_ = cb.Execute(ctx, func() error { return errors.New("failure") })
	}
	assert.Equal(t, StateOpen, cb.State())

	err := cb.Execute(ctx, func() error {
		t.Fatal("must not be executed while open")
		return nil
	})
	assert.ErrorIs(t, err, ErrBreakerOpen)
}

func TestCircuitBreaker_SuccessResetsFailureRun(t *testing.T) {
	cb := NewCircuitBreaker("test").WithThreshold(3)
	ctx := context.Background()

	_ = cb.Execute(ctx, func() error { return errors.New("failure") })
	_ = cb.Execute(ctx, func() error { return errors.New("failure") })
	require.NoError(t, cb.Execute(ctx, func() error { return nil }))
	_ = cb.Execute(ctx, func() error { return errors.New("failure") })
	_ = cb.Execute(ctx, func() error { return errors.New("failure") })

	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenProbeRecovers(t *testing.T) {
	cb := NewCircuitBreaker("test").WithThreshold(1).WithCooldown(20 * time.Millisecond)
	ctx := context.Background()

	_ = cb.Execute(ctx, func() error { return errors.New("failure") })
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(30 * time.Millisecond)

	require.NoError(t, cb.Execute(ctx, func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenProbeFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("test").WithThreshold(1).WithCooldown(20 * time.Millisecond)
	ctx := context.Background()

	_ = cb.Execute(ctx, func() error { return errors.New("failure") })
	time.Sleep(30 * time.Millisecond)
	_ = cb.Execute(ctx, func() error { return errors.New("still failing") })

	assert.Equal(t, StateOpen, cb.State())
}

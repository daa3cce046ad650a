package driver

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoller_CountsSuccessAndFailure(t *testing.T) {
	var calls atomic.Int32
	var unhealthy atomic.Int32

	p := NewPoller(10*time.Millisecond, func(context.Context) error {
		if calls.Add(1) <= 3 {
			return errors.New("boom")
		}
		return nil
	}, PollerOptions{
		MaxConsecutiveFailures: 3,
		OnUnhealthy:            func(int) { unhealthy.Add(1) },
	})

	p.Start(context.Background())
	require.Eventually(t, func() bool { return calls.Load() >= 5 }, 2*time.Second, 5*time.Millisecond)
	p.Stop()

	st := p.Status()
	assert.False(t, st.IsRunning)
	assert.True(t, st.Healthy)
	assert.Zero(t, st.ConsecutiveFailures)
	assert.Equal(t, int64(3), st.TotalFailures)
	assert.GreaterOrEqual(t, st.TotalPolls, int64(5))
	assert.Empty(t, st.LastError)
	assert.Equal(t, int32(1), unhealthy.Load())
}

func TestPoller_UnhealthyAfterMaxFailures(t *testing.T) {
	p := NewPoller(5*time.Millisecond, func(context.Context) error {
		return errors.New("down")
	}, PollerOptions{MaxConsecutiveFailures: 2})

	p.Start(context.Background())
	require.Eventually(t, func() bool { return !p.IsHealthy() }, 2*time.Second, 5*time.Millisecond)
	p.Stop()

	assert.Equal(t, "down", p.Status().LastError)
}

func TestPoller_StopsWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := NewPoller(time.Hour, func(context.Context) error { return nil }, PollerOptions{})

	p.Start(ctx)
	p.Start(ctx) // second start is a no-op
	assert.True(t, p.IsRunning())

	cancel()
	p.Stop()
	p.Stop()
	assert.False(t, p.IsRunning())
	assert.Equal(t, int64(1), p.Status().TotalPolls)
}

func TestPoller_TimeoutBoundsPoll(t *testing.T) {
	done := make(chan error, 1)
	p := NewPoller(time.Hour, func(ctx context.Context) error {
		<-ctx.Done()
		done <- ctx.Err()
		return ctx.Err()
	}, PollerOptions{Timeout: 20 * time.Millisecond})

	p.Start(context.Background())
	defer p.Stop()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(2 * time.Second):
		t.Fatal("poll was not bounded by its timeout")
	}
}

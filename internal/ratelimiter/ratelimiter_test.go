package ratelimiter

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRateLimitAdaptation is scenario S6: three consecutive failures on a
// domain must widen the interval to at least floor*8, and a subsequent
// success must shrink it by 10% toward the floor.
func TestRateLimitAdaptation(t *testing.T) {
	l := New(250*time.Millisecond, 60*time.Second)

	for i := 0; i < 3; i++ {
		l.RecordFailure("example.com")
	}

	got := l.CurrentInterval("example.com")
	require.GreaterOrEqual(t, int64(got), int64(250*time.Millisecond*8))

	before := got
	l.RecordSuccess("example.com")
	after := l.CurrentInterval("example.com")
	assert.InDelta(t, float64(before)*0.9, float64(after), 1.0)
}

// TestMonotonicity is universal invariant 4: after k consecutive failures,
// current_interval >= min(floor*2^k, ceiling).
func TestMonotonicity(t *testing.T) {
	floor := 250 * time.Millisecond
	ceiling := 10 * time.Second
	l := New(floor, ceiling)

	for k := 1; k <= 8; k++ {
		l.RecordFailure("host")
		want := floor * time.Duration(1<<uint(k))
		if want > ceiling {
			want = ceiling
		}
		got := l.CurrentInterval("host")
		assert.GreaterOrEqual(t, int64(got), int64(want))
	}
}

func TestFloorIsRespectedAfterManySuccesses(t *testing.T) {
	l := New(250*time.Millisecond, 60*time.Second)
	l.RecordFailure("host")
	for i := 0; i < 50; i++ {
		l.RecordSuccess("host")
	}
	assert.Equal(t, 250*time.Millisecond, l.CurrentInterval("host"))
}

func TestWaitRespectsContextCancellation(t *testing.T) {
	l := New(100*time.Millisecond, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, l.Wait(context.Background(), "host")) // first call: no wait needed
	err := l.Wait(ctx, "host")
	assert.Error(t, err)
}

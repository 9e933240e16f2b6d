package http

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRateLimiterWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl := newRateLimiter(3)
	rl.now = func() time.Time { return now }

	for i := range 3 {
		require.True(t, rl.allow(), "message %d should pass", i)
	}
	require.False(t, rl.allow())

	now = now.Add(59 * time.Second)
	require.False(t, rl.allow())

	now = now.Add(time.Second)
	require.True(t, rl.allow())
}

func TestRateLimiterUnlimited(t *testing.T) {
	rl := newRateLimiter(0)
	for range 1000 {
		require.True(t, rl.allow())
	}

	var nilLimiter *rateLimiter
	require.True(t, nilLimiter.allow())
}

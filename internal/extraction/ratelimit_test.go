package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterAllowsUpToLimit(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(60*time.Second, 10)
	rl.now = func() time.Time { return now }

	for i := 0; i < 10; i++ {
		allowed, retryAfter := rl.Allow()
		require.True(t, allowed, "request %d should be allowed", i+1)
		assert.Zero(t, retryAfter)
	}

	allowed, retryAfter := rl.Allow()
	assert.False(t, allowed, "11th request should be rejected")
	assert.Equal(t, 60, retryAfter)
}

func TestRateLimiterRetryAfterShrinksAsWindowSlides(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(60*time.Second, 2)
	rl.now = func() time.Time { return now }

	allowed, _ := rl.Allow()
	require.True(t, allowed)
	allowed, _ = rl.Allow()
	require.True(t, allowed)

	now = now.Add(45 * time.Second)
	allowed, retryAfter := rl.Allow()
	assert.False(t, allowed)
	assert.Equal(t, 15, retryAfter)
}

func TestRateLimiterRetryAfterRoundsUp(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(60*time.Second, 1)
	rl.now = func() time.Time { return now }

	allowed, _ := rl.Allow()
	require.True(t, allowed)

	now = now.Add(59*time.Second + 500*time.Millisecond)
	allowed, retryAfter := rl.Allow()
	assert.False(t, allowed)
	assert.Equal(t, 1, retryAfter, "fractional seconds round up")
}

func TestRateLimiterResetsAfterFullWindow(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(60*time.Second, 2)
	rl.now = func() time.Time { return now }

	for i := 0; i < 2; i++ {
		allowed, _ := rl.Allow()
		require.True(t, allowed)
	}
	allowed, _ := rl.Allow()
	require.False(t, allowed)

	now = now.Add(60 * time.Second)
	allowed, retryAfter := rl.Allow()
	assert.True(t, allowed, "window elapsed, counter should reset")
	assert.Zero(t, retryAfter)
}

func TestRateLimiterSlidingWindowFreesOldSlots(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(60*time.Second, 2)
	rl.now = func() time.Time { return now }

	allowed, _ := rl.Allow()
	require.True(t, allowed)

	now = now.Add(30 * time.Second)
	allowed, _ = rl.Allow()
	require.True(t, allowed)

	// 70s after the first request: the window restarted, both slots free.
	now = now.Add(40 * time.Second)
	allowed, _ = rl.Allow()
	assert.True(t, allowed)
}

func TestNewRateLimiterDefaults(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	assert.Equal(t, DefaultRateWindow, rl.window)
	assert.Equal(t, DefaultRateMaxRequests, rl.maxRequests)
}

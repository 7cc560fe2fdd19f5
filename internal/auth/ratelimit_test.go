package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(maxAttempts int, window, lockout time.Duration) *LoginRateLimiter {
	return NewLoginRateLimiter(RateLimitConfig{
		MaxAttempts:     maxAttempts,
		WindowDuration:  window,
		LockoutDuration: lockout,
	})
}

func TestLoginRateLimiterAllowsFreshPair(t *testing.T) {
	rl := newTestLimiter(3, time.Minute, time.Minute)
	defer rl.Stop()

	allowed, retryAfter := rl.Allow("10.0.0.1", "alice")
	assert.True(t, allowed)
	assert.Zero(t, retryAfter)
}

func TestLoginRateLimiterLocksAfterMaxFailures(t *testing.T) {
	rl := newTestLimiter(3, time.Minute, time.Minute)
	defer rl.Stop()

	locked, _ := rl.RecordFailure("10.0.0.1", "alice")
	assert.False(t, locked)
	locked, _ = rl.RecordFailure("10.0.0.1", "alice")
	assert.False(t, locked)

	locked, retryAfter := rl.RecordFailure("10.0.0.1", "alice")
	assert.True(t, locked, "third failure trips the lockout")
	assert.Equal(t, time.Minute, retryAfter)

	allowed, retryAfter := rl.Allow("10.0.0.1", "alice")
	assert.False(t, allowed)
	assert.Greater(t, retryAfter, time.Duration(0))
}

func TestLoginRateLimiterKeysByIPAndUsername(t *testing.T) {
	rl := newTestLimiter(2, time.Minute, time.Minute)
	defer rl.Stop()

	rl.RecordFailure("10.0.0.1", "alice")
	rl.RecordFailure("10.0.0.1", "alice")

	allowed, _ := rl.Allow("10.0.0.1", "alice")
	require.False(t, allowed)

	// Same user from another IP and another user from the same IP are
	// unaffected.
	allowed, _ = rl.Allow("10.0.0.2", "alice")
	assert.True(t, allowed)
	allowed, _ = rl.Allow("10.0.0.1", "bob")
	assert.True(t, allowed)
}

func TestLoginRateLimiterWindowReset(t *testing.T) {
	rl := newTestLimiter(2, 20*time.Millisecond, 10*time.Millisecond)
	defer rl.Stop()

	rl.RecordFailure("10.0.0.1", "alice")
	rl.RecordFailure("10.0.0.1", "alice")

	allowed, _ := rl.Allow("10.0.0.1", "alice")
	require.False(t, allowed)

	time.Sleep(30 * time.Millisecond)

	allowed, _ = rl.Allow("10.0.0.1", "alice")
	assert.True(t, allowed, "expired window forgives old failures")

	// The next failure starts a fresh count instead of locking again.
	locked, _ := rl.RecordFailure("10.0.0.1", "alice")
	assert.False(t, locked)
}

func TestLoginRateLimiterSuccessClearsRecord(t *testing.T) {
	rl := newTestLimiter(3, time.Minute, time.Minute)
	defer rl.Stop()

	rl.RecordFailure("10.0.0.1", "alice")
	rl.RecordFailure("10.0.0.1", "alice")
	rl.RecordSuccess("10.0.0.1", "alice")

	locked, _ := rl.RecordFailure("10.0.0.1", "alice")
	assert.False(t, locked, "counting restarts after a successful login")
}

func TestLoginRateLimiterDefaults(t *testing.T) {
	rl := NewLoginRateLimiter(RateLimitConfig{})
	defer rl.Stop()

	assert.Equal(t, 5, rl.maxAttempts)
	assert.Equal(t, 15*time.Minute, rl.windowDuration)
	assert.Equal(t, 30*time.Minute, rl.lockoutDuration)
}

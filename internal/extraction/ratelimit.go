package extraction

import (
	"math"
	"sync"
	"time"
)

const (
	DefaultRateWindow      = 60 * time.Second
	DefaultRateMaxRequests = 10
)

// RateLimiter is a sliding-window limiter for outbound extraction calls.
// It is in-memory and per-process; each replica enforces its own budget.
type RateLimiter struct {
	mu          sync.Mutex
	window      time.Duration
	maxRequests int
	windowStart time.Time
	requests    []time.Time

	now func() time.Time // injectable for tests
}

func NewRateLimiter(window time.Duration, maxRequests int) *RateLimiter {
	if window <= 0 {
		window = DefaultRateWindow
	}
	if maxRequests <= 0 {
		maxRequests = DefaultRateMaxRequests
	}
	return &RateLimiter{
		window:      window,
		maxRequests: maxRequests,
		now:         time.Now,
	}
}

// Allow reports whether a request may proceed now. When the limit is
// exhausted it returns false along with the whole number of seconds after
// which a retry could succeed.
func (rl *RateLimiter) Allow() (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()

	// A full window has elapsed since it was opened; start fresh.
	if now.Sub(rl.windowStart) >= rl.window {
		rl.windowStart = now
		rl.requests = rl.requests[:0]
	}

	// Drop timestamps that have slid out of the window.
	kept := rl.requests[:0]
	for _, ts := range rl.requests {
		if now.Sub(ts) < rl.window {
			kept = append(kept, ts)
		}
	}
	rl.requests = kept

	if len(rl.requests) >= rl.maxRequests {
		oldest := rl.requests[0]
		remaining := rl.window - now.Sub(oldest)
		retryAfter := int(math.Ceil(remaining.Seconds()))
		if retryAfter < 1 {
			retryAfter = 1
		}
		return false, retryAfter
	}

	rl.requests = append(rl.requests, now)
	return true, 0
}

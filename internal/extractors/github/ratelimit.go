package github

import (
	"context"
	"sync"
	"time"

	gh "github.com/google/go-github/v80/github"
	"golang.org/x/time/rate"
)

// DefaultRequestsPerSecond paces requests below the authenticated hourly quota.
const DefaultRequestsPerSecond = 1.2

const (
	assumedQuota = 5000
	quotaReserve = 100
)

// quota is the rate limit GitHub reported with the latest response.
type quota struct {
	limit     int
	remaining int
	reset     time.Time
}

// RateLimiter paces requests with a token bucket and holds them back until
// the quota resets once fewer than quotaReserve requests remain.
type RateLimiter struct {
	pace *rate.Limiter

	mu sync.Mutex
	q  quota
}

// NewRateLimiter creates a limiter at DefaultRequestsPerSecond.
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithRate(DefaultRequestsPerSecond)
}

// NewRateLimiterWithRate creates a limiter allowing perSecond requests.
// A non-positive rate falls back to DefaultRequestsPerSecond.
func NewRateLimiterWithRate(perSecond float64) *RateLimiter {
	if perSecond <= 0 {
		perSecond = DefaultRequestsPerSecond
	}
	return &RateLimiter{
		pace: rate.NewLimiter(rate.Limit(perSecond), 1),
		q:    quota{limit: assumedQuota, remaining: assumedQuota},
	}
}

// Wait blocks until the next request may be sent or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if err := r.pace.Wait(ctx); err != nil {
		return err
	}
	if r.Remaining() >= quotaReserve {
		return nil
	}
	return r.WaitForReset(ctx)
}

// Observe records the quota reported with a response.
// Responses without rate limit headers leave the state untouched.
func (r *RateLimiter) Observe(rt gh.Rate) {
	if rt.Limit == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.q = quota{limit: rt.Limit, remaining: rt.Remaining, reset: rt.Reset.Time}
}

// Remaining returns the number of requests left in the current window.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.q.remaining
}

// Limit returns the size of the current window.
func (r *RateLimiter) Limit() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.q.limit
}

// ResetTime returns when the current window ends. It is zero until GitHub
// has reported one.
func (r *RateLimiter) ResetTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.q.reset
}

// WaitForReset blocks until the current window ends or ctx is done.
func (r *RateLimiter) WaitForReset(ctx context.Context) error {
	d := time.Until(r.ResetTime())
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

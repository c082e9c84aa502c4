package admission

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter is a token bucket holding limit tokens, refilled continuously
// at limit per period. The full burst is available at start, so one rolling
// period can admit up to about 2*limit requests; the sustained rate is limit
// per period.
//
// RateLimiter is safe for concurrent use.
type RateLimiter struct {
	limiter *rate.Limiter
}

func NewRateLimiter(limit int, period time.Duration) (*RateLimiter, error) {
	if limit < 1 {
		return nil, fmt.Errorf("new rate limiter: limit must be positive, got %d", limit)
	}
	if period <= 0 {
		return nil, fmt.Errorf("new rate limiter: period must be positive, got %s", period)
	}

	every := rate.Every(period / time.Duration(limit))
	return &RateLimiter{limiter: rate.NewLimiter(every, limit)}, nil
}

// Allow takes a token if one is available and never blocks.
func (l *RateLimiter) Allow() bool {
	return l.limiter.Allow()
}

// Wait blocks until a token is available or ctx is done. It fails fast when
// ctx's deadline is too close for a token to become available.
func (l *RateLimiter) Wait(ctx context.Context) error {
	if err := l.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter wait: %w", err)
	}
	return nil
}

// Unlimited admits every request.
type Unlimited struct{}

func (Unlimited) Allow() bool                    { return true }
func (Unlimited) Wait(ctx context.Context) error { return ctx.Err() }

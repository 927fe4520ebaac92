package strava

import (
	"context"

	"golang.org/x/time/rate"
)

// Strava allows 100 requests per 15 minutes per application (200 daily
// read limit aside). The defaults stay well below that while letting a
// normal multi-page fetch run without blocking.
const (
	defaultRequestsPerSecond = 100.0 / 900.0
	defaultBurstSize         = 10
)

// RateLimiter paces outbound API requests with a token bucket.
type RateLimiter struct {
	limiter *rate.Limiter
}

// NewRateLimiter creates a rate limiter with the Strava defaults.
func NewRateLimiter() *RateLimiter {
	return NewRateLimiterWithConfig(defaultRequestsPerSecond, defaultBurstSize)
}

// NewRateLimiterWithConfig creates a rate limiter with a custom sustained
// rate and burst size.
func NewRateLimiterWithConfig(requestsPerSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Wait blocks until a request can be made without exceeding the rate limit.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}

// Allow checks if a request can be made immediately without blocking.
func (r *RateLimiter) Allow() bool {
	return r.limiter.Allow()
}

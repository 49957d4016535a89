package ai

import (
	"context"

	"golang.org/x/time/rate"
)

// RateLimitedCompleter caps the request rate towards the completion service.
type RateLimitedCompleter struct {
	next    Completer
	limiter *rate.Limiter
}

// NewRateLimitedCompleter wraps next with a token bucket of rps and burst.
// A non-positive rps disables limiting.
func NewRateLimitedCompleter(next Completer, rps float64, burst int) Completer {
	if rps <= 0 {
		return next
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimitedCompleter{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

// Complete waits for a token, then delegates.
func (r *RateLimitedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", err
	}
	return r.next.Complete(ctx, prompt)
}

package worker

import (
	"context"

	"golang.org/x/time/rate"
)

// Limiter paces how fast batch workers may start pipeline runs. With an
// LLM-backed classifier every run makes an outbound request, so unthrottled
// workers would hammer a shared backend.
type Limiter struct {
	limiter *rate.Limiter
}

// NewLimiter creates a limiter; rps <= 0 disables throttling
func NewLimiter(requestsPerSecond float64, burst int) *Limiter {
	if requestsPerSecond <= 0 {
		return &Limiter{}
	}
	if burst <= 0 {
		burst = 5
	}
	return &Limiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Wait blocks until the next run may start or the context is cancelled
func (l *Limiter) Wait(ctx context.Context) error {
	if l.limiter == nil {
		return nil
	}
	return l.limiter.Wait(ctx)
}

// Allow reports whether a run may start without waiting
func (l *Limiter) Allow() bool {
	if l.limiter == nil {
		return true
	}
	return l.limiter.Allow()
}

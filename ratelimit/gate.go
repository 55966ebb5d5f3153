// Package ratelimit provides the politeness gate placed in front of every
// upstream network call.
package ratelimit

import (
	"context"
	"time"

	"github.com/fwojciec/ficfetch"
	"golang.org/x/time/rate"
)

// DefaultDelay is the minimum spacing between upstream requests.
const DefaultDelay = time.Second

var _ ficfetch.Limiter = (*Gate)(nil)

// Gate enforces a minimum delay between consecutive upstream requests using
// a token bucket with a burst of 1. The first request after an idle period
// passes immediately; each following request waits until delay has elapsed
// since the previous one. Gate is safe for concurrent use and callers
// cannot race past it: each Wait reserves its own slot.
type Gate struct {
	limiter *rate.Limiter
}

// NewGate creates a Gate that allows one request per delay.
// A non-positive delay disables the gate.
func NewGate(delay time.Duration) *Gate {
	if delay <= 0 {
		return &Gate{limiter: rate.NewLimiter(rate.Inf, 1)}
	}
	return &Gate{limiter: rate.NewLimiter(rate.Every(delay), 1)}
}

// Wait blocks until the gate allows another request.
// Returns an error if the context is canceled before the wait completes.
func (g *Gate) Wait(ctx context.Context) error {
	return g.limiter.Wait(ctx)
}

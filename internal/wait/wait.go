// Package wait paces a polling loop's idle cadence through a
// token-bucket rate limiter instead of a hand-rolled time.Sleep.
package wait

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Ticker allows at most one tick per interval and blocks a caller until
// the next one is due.
type Ticker struct {
	limiter *rate.Limiter
}

// NewTicker builds a Ticker gated to interval.
func NewTicker(interval time.Duration) *Ticker {
	return &Ticker{limiter: rate.NewLimiter(rate.Every(interval), 1)}
}

// Wait blocks until the ticker's next interval elapses.
func (t *Ticker) Wait() {
	_ = t.limiter.Wait(context.Background())
}

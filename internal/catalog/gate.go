package catalog

import (
	"context"
	"sync"
	"time"
)

// DefaultMinInterval is the minimum spacing between catalog requests.
const DefaultMinInterval = 3 * time.Second

// Gate spaces out requests. Reading the last request time, waiting out the
// remainder of the interval and recording the new time happen under one
// lock, so concurrent callers queue instead of firing together.
type Gate struct {
	mu       sync.Mutex
	interval time.Duration
	last     time.Time
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

// NewGate returns a gate enforcing interval between passes.
func NewGate(interval time.Duration) *Gate {
	return &Gate{interval: interval, now: time.Now, sleep: sleepCtx}
}

// Interval returns the configured minimum spacing.
func (g *Gate) Interval() time.Duration {
	return g.interval
}

// Wait blocks until the caller may issue a request. A canceled context
// aborts the wait without consuming the slot.
func (g *Gate) Wait(ctx context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	if !g.last.IsZero() {
		if remaining := g.interval - g.now().Sub(g.last); remaining > 0 {
			if err := g.sleep(ctx, remaining); err != nil {
				return err
			}
		}
	}
	g.last = g.now()
	return nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

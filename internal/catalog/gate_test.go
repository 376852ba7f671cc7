package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock advances only when the gate sleeps.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	return nil
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newFakeGate(interval time.Duration) (*Gate, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	g := NewGate(interval)
	g.now = clock.Now
	g.sleep = clock.Sleep
	return g, clock
}

func TestGateFirstPassDoesNotWait(t *testing.T) {
	g, clock := newFakeGate(3 * time.Second)
	require.NoError(t, g.Wait(context.Background()))
	assert.Empty(t, clock.sleeps)
}

func TestGateWaitsOutRemainder(t *testing.T) {
	g, clock := newFakeGate(3 * time.Second)
	ctx := context.Background()

	require.NoError(t, g.Wait(ctx))
	clock.Advance(time.Second)
	require.NoError(t, g.Wait(ctx))
	clock.Advance(5 * time.Second)
	require.NoError(t, g.Wait(ctx))

	assert.Equal(t, []time.Duration{2 * time.Second}, clock.sleeps)
}

func TestGateSerializesConcurrentCallers(t *testing.T) {
	g, clock := newFakeGate(3 * time.Second)
	ctx := context.Background()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var passes []time.Time
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if assert.NoError(t, g.Wait(ctx)) {
				mu.Lock()
				passes = append(passes, clock.Now())
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Len(t, passes, 5)
	assert.Len(t, clock.sleeps, 4)
	for _, d := range clock.sleeps {
		assert.Equal(t, 3*time.Second, d)
	}
}

func TestGateCanceledContext(t *testing.T) {
	g := NewGate(time.Hour)
	require.NoError(t, g.Wait(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	start := time.Now()
	err := g.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)

	canceled, cancelNow := context.WithCancel(context.Background())
	cancelNow()
	assert.ErrorIs(t, g.Wait(canceled), context.Canceled)
}

func TestGateRealClock(t *testing.T) {
	g := NewGate(50 * time.Millisecond)
	ctx := context.Background()
	start := time.Now()
	require.NoError(t, g.Wait(ctx))
	require.NoError(t, g.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	assert.Equal(t, 50*time.Millisecond, g.Interval())
}

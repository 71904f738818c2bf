package board

import (
	"context"
	"sync"
	"time"

	"go.uber.org/atomic"
)

// An EdgeCounter is a software Counter fed by timestamped edges. Boards that can observe
// pin transitions forward them through Tick.
type EdgeCounter struct {
	count      atomic.Int64
	up         atomic.Bool
	semiPeriod atomic.Bool

	mu sync.Mutex
	// nanos of the last counted edge in normal mode
	lastEdge uint64
	haveEdge bool
	// nanos of the last rising edge in semi-period mode
	risingEdge uint64
	haveRising bool
	period     time.Duration
}

// NewEdgeCounter returns a counter in normal mode with a zero count.
func NewEdgeCounter() *EdgeCounter {
	c := &EdgeCounter{}
	c.up.Store(true)
	return c
}

// Tick records an edge on the given source. high is the level after the edge and
// nanos the edge timestamp in nanoseconds.
func (c *EdgeCounter) Tick(source CounterSource, high bool, nanos uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.semiPeriod.Load() {
		if source != UpSource {
			return
		}
		c.count.Inc()
		c.up.Store(true)
		if high {
			c.risingEdge = nanos
			c.haveRising = true
			return
		}
		if c.haveRising && nanos >= c.risingEdge {
			c.period = time.Duration(nanos - c.risingEdge)
		}
		c.haveRising = false
		return
	}

	if !high {
		return
	}
	if source == UpSource {
		c.count.Inc()
	} else {
		c.count.Dec()
	}
	c.up.Store(source == UpSource)
	if c.haveEdge && nanos >= c.lastEdge {
		c.period = time.Duration(nanos - c.lastEdge)
	}
	c.lastEdge = nanos
	c.haveEdge = true
}

// Count returns the number of counted edges since the last reset.
func (c *EdgeCounter) Count(ctx context.Context, extra map[string]interface{}) (int64, error) {
	return c.count.Load(), nil
}

// Reset zeroes the count and forgets the period.
func (c *EdgeCounter) Reset(ctx context.Context, extra map[string]interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count.Store(0)
	c.period = 0
	c.haveEdge = false
	c.haveRising = false
	return nil
}

// Period returns the last measured period, 0 if none has been measured yet.
func (c *EdgeCounter) Period(ctx context.Context, extra map[string]interface{}) (time.Duration, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.period, nil
}

// Direction returns true when the last counted edge came from the up source.
func (c *EdgeCounter) Direction(ctx context.Context, extra map[string]interface{}) (bool, error) {
	return c.up.Load(), nil
}

// SetSemiPeriodMode switches the counter between normal and semi-period mode.
// Switching modes discards any half measured period.
func (c *EdgeCounter) SetSemiPeriodMode(ctx context.Context, enabled bool, extra map[string]interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.semiPeriod.Store(enabled)
	c.haveEdge = false
	c.haveRising = false
	return nil
}

// SemiPeriodMode reports whether the counter is in semi-period mode.
func (c *EdgeCounter) SemiPeriodMode() bool {
	return c.semiPeriod.Load()
}

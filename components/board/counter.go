package board

import (
	"context"
	"time"
)

// CounterSource names which input of a counter an edge arrived on.
type CounterSource int

const (
	// UpSource edges increment the count.
	UpSource CounterSource = iota
	// DownSource edges decrement the count.
	DownSource
)

func (s CounterSource) String() string {
	if s == DownSource {
		return "down"
	}
	return "up"
}

// A Counter counts edges on an up source and an optional down source and times them.
//
// In normal mode rising edges are counted and Period is the time between the last
// two counted edges. In semi-period mode both edges of the up source are counted and
// Period is the width of the last completed high pulse.
type Counter interface {
	// Count returns the number of counted edges since the last reset.
	Count(ctx context.Context, extra map[string]interface{}) (int64, error)

	// Reset zeroes the count and forgets the period.
	Reset(ctx context.Context, extra map[string]interface{}) error

	// Period returns the last measured period, 0 if none has been measured yet.
	Period(ctx context.Context, extra map[string]interface{}) (time.Duration, error)

	// Direction returns true when the last counted edge came from the up source.
	Direction(ctx context.Context, extra map[string]interface{}) (bool, error)

	// SetSemiPeriodMode switches the counter between normal and semi-period mode.
	SetSemiPeriodMode(ctx context.Context, enabled bool, extra map[string]interface{}) error
}

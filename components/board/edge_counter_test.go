package board_test

import (
	"context"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/flashrobotics/devices/components/board"
)

func TestEdgeCounterNormalMode(t *testing.T) {
	ctx := context.Background()
	c := board.NewEdgeCounter()

	period, err := c.Period(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, period, test.ShouldEqual, 0)

	c.Tick(board.UpSource, true, 1000)
	c.Tick(board.UpSource, false, 1500)
	c.Tick(board.UpSource, true, 3000)
	c.Tick(board.UpSource, true, 6000)

	count, err := c.Count(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, count, test.ShouldEqual, 3)
	period, err = c.Period(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, period, test.ShouldEqual, 3000*time.Nanosecond)
	up, err := c.Direction(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, up, test.ShouldBeTrue)

	c.Tick(board.DownSource, true, 7000)
	c.Tick(board.DownSource, true, 8000)
	count, _ = c.Count(ctx, nil)
	test.That(t, count, test.ShouldEqual, 1)
	up, _ = c.Direction(ctx, nil)
	test.That(t, up, test.ShouldBeFalse)
	period, _ = c.Period(ctx, nil)
	test.That(t, period, test.ShouldEqual, 1000*time.Nanosecond)

	test.That(t, c.Reset(ctx, nil), test.ShouldBeNil)
	count, _ = c.Count(ctx, nil)
	test.That(t, count, test.ShouldEqual, 0)
	period, _ = c.Period(ctx, nil)
	test.That(t, period, test.ShouldEqual, 0)

	// the first edge after a reset only starts a new period
	c.Tick(board.UpSource, true, 20000)
	period, _ = c.Period(ctx, nil)
	test.That(t, period, test.ShouldEqual, 0)
}

func TestEdgeCounterSemiPeriodMode(t *testing.T) {
	ctx := context.Background()
	c := board.NewEdgeCounter()
	test.That(t, c.SemiPeriodMode(), test.ShouldBeFalse)
	test.That(t, c.SetSemiPeriodMode(ctx, true, nil), test.ShouldBeNil)
	test.That(t, c.SemiPeriodMode(), test.ShouldBeTrue)

	c.Tick(board.UpSource, true, 10_000)
	count, _ := c.Count(ctx, nil)
	test.That(t, count, test.ShouldEqual, 1)
	period, _ := c.Period(ctx, nil)
	test.That(t, period, test.ShouldEqual, 0)

	c.Tick(board.UpSource, false, 592_000)
	count, _ = c.Count(ctx, nil)
	test.That(t, count, test.ShouldEqual, 2)
	period, _ = c.Period(ctx, nil)
	test.That(t, period, test.ShouldEqual, 582*time.Microsecond)

	// down source edges are ignored in semi-period mode
	c.Tick(board.DownSource, true, 600_000)
	count, _ = c.Count(ctx, nil)
	test.That(t, count, test.ShouldEqual, 2)

	// a falling edge without a rising edge keeps the last period
	test.That(t, c.SetSemiPeriodMode(ctx, true, nil), test.ShouldBeNil)
	c.Tick(board.UpSource, false, 700_000)
	period, _ = c.Period(ctx, nil)
	test.That(t, period, test.ShouldEqual, 582*time.Microsecond)
}

package board

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"
)

// Pulse drives pin high for width and then low again. The pin is always driven low
// before returning, even when ctx is cancelled mid pulse.
func Pulse(ctx context.Context, pin GPIOPin, width time.Duration) (err error) {
	if err := pin.Set(ctx, true, nil); err != nil {
		return errors.Wrap(err, "failed to start pulse")
	}
	defer func() {
		err = multierr.Combine(err, errors.Wrap(pin.Set(context.Background(), false, nil), "failed to end pulse"))
	}()
	if !goutils.SelectContextOrWait(ctx, width) {
		return ctx.Err()
	}
	return nil
}

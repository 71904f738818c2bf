// Package pinwrappers wraps board inputs with extra behavior shared by board models.
package pinwrappers

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	goutils "go.viam.com/utils"

	"github.com/flashrobotics/devices/components/board"
	"github.com/flashrobotics/devices/logging"
	"github.com/flashrobotics/devices/utils"
)

var errStopReading = errors.New("stop reading")

// An AnalogSmoother smooths the readings out from an underlying reader.
type AnalogSmoother struct {
	Raw               board.Analog
	AverageOverMillis int
	SamplesPerSecond  int
	data              *utils.RollingAverage
	lastData          atomic.Int64
	lastError         atomic.Pointer[errValue]
	logger            logging.Logger
	workers           *goutils.StoppableWorkers
	analogVal         board.AnalogValue
}

// SmoothAnalogReader wraps the given reader in a smoother.
func SmoothAnalogReader(r board.Analog, c board.AnalogConfig, logger logging.Logger) *AnalogSmoother {
	smoother := &AnalogSmoother{
		Raw:               r,
		AverageOverMillis: c.AverageOverMillis,
		SamplesPerSecond:  c.SamplesPerSecond,
		logger:            logger,
	}
	if smoother.SamplesPerSecond <= 0 {
		logger.Debug("Can't read nonpositive samples per second; defaulting to 1 instead")
		smoother.SamplesPerSecond = 1
	}

	// keep the range info of the underlying reader
	analogVal, err := smoother.Raw.Read(context.Background(), nil)
	smoother.lastError.Store(&errValue{err != nil, err})
	smoother.analogVal = analogVal
	smoother.lastData.Store(int64(analogVal.Value))

	smoother.Start()
	return smoother
}

// An errValue is used to atomically store an error.
type errValue struct {
	present bool
	err     error
}

// Close stops the smoothing routine.
func (as *AnalogSmoother) Close(ctx context.Context) error {
	as.workers.Stop()
	return nil
}

// Read returns the smoothed out reading.
func (as *AnalogSmoother) Read(ctx context.Context, extra map[string]interface{}) (board.AnalogValue, error) {
	analogVal := board.AnalogValue{
		Min:      as.analogVal.Min,
		Max:      as.analogVal.Max,
		StepSize: as.analogVal.StepSize,
	}

	if as.data == nil { // raw data, no averaging
		analogVal.Value = int(as.lastData.Load())
	} else {
		analogVal.Value = as.data.Average()
	}
	if lastErr := as.lastError.Load(); lastErr != nil && lastErr.present {
		return analogVal, lastErr.err
	}
	return analogVal, nil
}

// Start begins the smoothing routine that reads from the underlying
// analog reader.
func (as *AnalogSmoother) Start() {
	// examples 1
	//    AverageOverMillis 10
	//    SamplesPerSecond  1000
	//    numSamples        10

	// examples 2
	//    AverageOverMillis 2000
	//    SamplesPerSecond  2
	//    numSamples        4

	numSamples := (as.SamplesPerSecond * as.AverageOverMillis) / 1000
	nanosBetween := 1e9 / as.SamplesPerSecond
	if numSamples >= 1 {
		as.data = utils.NewRollingAverage(numSamples)
	} else {
		as.logger.Debug("Too few samples to smooth over; defaulting to raw data.")
		as.data = nil
	}

	as.workers = goutils.NewBackgroundStoppableWorkers(func(ctx context.Context) {
		consecutiveErrors := 0
		var lastError error

		for {
			select {
			case <-ctx.Done():
				return
			default:
			}
			start := time.Now()
			reading, err := as.Raw.Read(ctx, nil)
			as.lastError.Store(&errValue{err != nil, err})
			if err == nil {
				as.lastData.Store(int64(reading.Value))
				if as.data != nil {
					as.data.Add(reading.Value)
				}
				consecutiveErrors = 0
			} else {
				if errors.Is(err, errStopReading) {
					return
				}
				if lastError != nil && err.Error() == lastError.Error() {
					consecutiveErrors++
				} else {
					as.logger.Infow("error reading analog", "error", err)
					consecutiveErrors = 0
				}
				// only remind us of the problem every 10 seconds
				if consecutiveErrors == (as.SamplesPerSecond * 10) {
					as.logger.Errorw("unable to read analog for 10 seconds", "error", err)
					consecutiveErrors = 0
				}
			}
			lastError = err

			toSleep := time.Duration(nanosBetween) - time.Since(start)
			if !goutils.SelectContextOrWait(ctx, toSleep) {
				return
			}
		}
	})
}

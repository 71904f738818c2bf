// Package quadrature implements the relative output of a REV Through Bore encoder: channel A
// and channel B feed the up and down sources of a board counter.
package quadrature

import (
	"context"
	"time"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/flashrobotics/devices/components/board"
	"github.com/flashrobotics/devices/components/encoder"
	"github.com/flashrobotics/devices/logging"
	"github.com/flashrobotics/devices/resource"
)

// Model is the quadrature model.
var Model = resource.DefaultModelFamily.WithModel("quadrature")

// PulsesPerRevolution is the number of counted pulses per shaft revolution.
const PulsesPerRevolution = 2048

// Config describes the counter the encoder channels are wired to.
type Config struct {
	Board   string `json:"board"`
	Counter string `json:"counter"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) ([]string, error) {
	if conf.Board == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "board")
	}
	if conf.Counter == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "counter")
	}
	return []string{conf.Board}, nil
}

func init() {
	resource.RegisterComponent(
		encoder.API,
		Model,
		resource.Registration[encoder.Encoder, *Config]{
			Constructor: func(
				ctx context.Context,
				deps resource.Dependencies,
				conf resource.Config,
				logger logging.Logger,
			) (encoder.Encoder, error) {
				newConf, err := resource.NativeConfig[*Config](conf)
				if err != nil {
					return nil, err
				}
				return NewEncoder(ctx, deps, conf.ResourceName(), newConf, logger)
			},
		})
}

// Encoder keeps track of a shaft position through a quadrature counter.
type Encoder struct {
	resource.Named
	resource.TriviallyCloseable

	counter board.Counter
	logger  logging.Logger
}

// NewEncoder returns an encoder over the configured counter, which is reset so the current
// shaft position reads zero.
func NewEncoder(
	ctx context.Context,
	deps resource.Dependencies,
	name resource.Name,
	conf *Config,
	logger logging.Logger,
) (*Encoder, error) {
	b, err := board.FromDependencies(deps, conf.Board)
	if err != nil {
		return nil, err
	}
	counter, err := b.CounterByName(conf.Counter)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot find counter (%s) for quadrature encoder", conf.Counter)
	}
	if err := counter.SetSemiPeriodMode(ctx, false, nil); err != nil {
		return nil, err
	}
	if err := counter.Reset(ctx, nil); err != nil {
		return nil, err
	}
	return &Encoder{Named: name.AsNamed(), counter: counter, logger: logger}, nil
}

// AngleFromTicks converts a tick count to degrees of shaft rotation.
func AngleFromTicks(ticks int64) float64 {
	return float64(ticks) / PulsesPerRevolution * 360
}

// RateFromPeriod converts the time between pulses to degrees per second. An unknown
// period reads as standing still.
func RateFromPeriod(period time.Duration) float64 {
	if period <= 0 {
		return 0
	}
	return (360.0 / PulsesPerRevolution) / period.Seconds()
}

// Ticks returns the count since the last reset.
func (e *Encoder) Ticks(ctx context.Context) (int64, error) {
	return e.counter.Count(ctx, nil)
}

// Reset zeroes the count.
func (e *Encoder) Reset(ctx context.Context) error {
	return e.counter.Reset(ctx, nil)
}

// Angle returns the shaft rotation since the last reset in degrees.
func (e *Encoder) Angle(ctx context.Context) (float64, error) {
	ticks, err := e.Ticks(ctx)
	if err != nil {
		return 0, err
	}
	return AngleFromTicks(ticks), nil
}

// Rate returns the shaft speed in degrees per second, unsigned.
func (e *Encoder) Rate(ctx context.Context) (float64, error) {
	period, err := e.counter.Period(ctx, nil)
	if err != nil {
		return 0, err
	}
	return RateFromPeriod(period), nil
}

// Direction returns true when the shaft last moved forward.
func (e *Encoder) Direction(ctx context.Context) (bool, error) {
	return e.counter.Direction(ctx, nil)
}

// Position returns the position in ticks, or in degrees when asked for them.
func (e *Encoder) Position(
	ctx context.Context,
	positionType encoder.PositionType,
	extra map[string]interface{},
) (float64, encoder.PositionType, error) {
	ticks, err := e.Ticks(ctx)
	if err != nil {
		return 0, encoder.PositionTypeUnspecified, err
	}
	if positionType == encoder.PositionTypeDegrees {
		return AngleFromTicks(ticks), encoder.PositionTypeDegrees, nil
	}
	return float64(ticks), encoder.PositionTypeTicks, nil
}

// ResetPosition sets the current position to zero.
func (e *Encoder) ResetPosition(ctx context.Context, extra map[string]interface{}) error {
	e.logger.Debug("resetting quadrature encoder")
	return e.Reset(ctx)
}

// Properties returns a list of all the position types that are supported by a given encoder.
func (e *Encoder) Properties(ctx context.Context, extra map[string]interface{}) (encoder.Properties, error) {
	return encoder.Properties{
		TicksCountSupported:   true,
		AngleDegreesSupported: true,
	}, nil
}

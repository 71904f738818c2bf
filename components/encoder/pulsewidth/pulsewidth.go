// Package pulsewidth implements the absolute output of a REV Through Bore encoder, which
// encodes the shaft angle as the width of a high pulse.
package pulsewidth

import (
	"context"
	"time"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/flashrobotics/devices/components/board"
	"github.com/flashrobotics/devices/components/encoder"
	"github.com/flashrobotics/devices/logging"
	"github.com/flashrobotics/devices/resource"
	"github.com/flashrobotics/devices/utils"
)

// Model is the absolute pulse width model.
var Model = resource.DefaultModelFamily.WithModel("pulsewidth")

// FullScale is the pulse width of one full revolution. The sensor emits 1 to 1024µs pulses
// in a 1025µs frame.
const FullScale = 1024 * time.Microsecond

// Config describes the counter the absolute output is wired to.
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

// Encoder reads the shaft angle from a semi-period counter.
type Encoder struct {
	resource.Named
	resource.TriviallyCloseable

	counter board.Counter
}

// NewEncoder returns an encoder over the configured counter, switched to semi-period mode and
// reset so no period measured before reads as an angle.
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
		return nil, errors.Wrapf(err, "cannot find counter (%s) for pulse width encoder", conf.Counter)
	}
	if err := counter.SetSemiPeriodMode(ctx, true, nil); err != nil {
		return nil, err
	}
	if err := counter.Reset(ctx, nil); err != nil {
		return nil, err
	}
	logger.Debugw("built pulse width encoder", "counter", conf.Counter)
	return &Encoder{Named: name.AsNamed(), counter: counter}, nil
}

// AngleFromPulse converts a pulse width to degrees in [0, 360].
func AngleFromPulse(width time.Duration) float64 {
	angle := float64(width) / float64(FullScale) * 360
	return utils.Clamp(angle, 0, 360)
}

// Angle returns the absolute shaft angle in degrees. It reads 0 until the first pulse has
// been measured.
func (e *Encoder) Angle(ctx context.Context) (float64, error) {
	period, err := e.counter.Period(ctx, nil)
	if err != nil {
		return 0, err
	}
	return AngleFromPulse(period), nil
}

// Position returns the absolute angle. Only degrees are supported.
func (e *Encoder) Position(
	ctx context.Context,
	positionType encoder.PositionType,
	extra map[string]interface{},
) (float64, encoder.PositionType, error) {
	if positionType == encoder.PositionTypeTicks {
		return 0, encoder.PositionTypeUnspecified, encoder.NewPositionTypeUnsupportedError(positionType)
	}
	angle, err := e.Angle(ctx)
	if err != nil {
		return 0, encoder.PositionTypeUnspecified, err
	}
	return angle, encoder.PositionTypeDegrees, nil
}

// ResetPosition is unsupported; the position is absolute.
func (e *Encoder) ResetPosition(ctx context.Context, extra map[string]interface{}) error {
	return encoder.NewResetUnsupportedError(e.Name().ShortName())
}

// Properties returns a list of all the position types that are supported by a given encoder.
func (e *Encoder) Properties(ctx context.Context, extra map[string]interface{}) (encoder.Properties, error) {
	return encoder.Properties{AngleDegreesSupported: true}, nil
}

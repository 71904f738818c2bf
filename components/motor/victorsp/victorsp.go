// Package victorsp implements VictorSP motor controllers driven by a PWM pin.
//
// Three pulse width mappings are registered: the standard library mapping with a
// deadband, a manual mapping without one and a manual mapping with a 20µs deadband.
package victorsp

import (
	"context"
	"math"
	"sync"
	"time"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/flashrobotics/devices/components/board"
	"github.com/flashrobotics/devices/components/motor"
	"github.com/flashrobotics/devices/logging"
	"github.com/flashrobotics/devices/resource"
)

// Models of VictorSP pulse width mapping.
var (
	Model               = resource.DefaultModelFamily.WithModel("victorsp")
	ManualModel         = resource.DefaultModelFamily.WithModel("victorsp-manual")
	ManualDeadbandModel = resource.DefaultModelFamily.WithModel("victorsp-manual-deadband")
)

var (
	// DefaultBounds are the bounds of the standard mapping.
	DefaultBounds = Bounds{Max: 2004, DeadbandMax: 1520, Center: 1500, DeadbandMin: 1480, Min: 997}
	// ManualBounds map any non zero speed one microsecond off center.
	ManualBounds = Bounds{Max: 2000, DeadbandMax: 1501, Center: 1500, DeadbandMin: 1499, Min: 1000}
	// ManualDeadbandBounds keep a 20µs deadband either side of center.
	ManualDeadbandBounds = Bounds{Max: 2000, DeadbandMax: 1520, Center: 1500, DeadbandMin: 1480, Min: 1000}
)

// BasePeriod is the shortest PWM period. The configured multiplier stretches it.
const BasePeriod = 5050 * time.Microsecond

// Config describes the PWM pin a controller is wired to.
type Config struct {
	Board            string  `json:"board"`
	Pin              string  `json:"pin"`
	PeriodMultiplier int     `json:"period_multiplier,omitempty"`
	BoundsUs         *Bounds `json:"bounds_us,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) ([]string, error) {
	if conf.Board == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "board")
	}
	if conf.Pin == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "pin")
	}
	switch conf.PeriodMultiplier {
	case 0, 1, 2, 4:
	default:
		return nil, goutils.NewConfigValidationError(path,
			errors.Errorf("period_multiplier must be 1, 2 or 4, got %d", conf.PeriodMultiplier))
	}
	if conf.BoundsUs != nil {
		if err := conf.BoundsUs.Validate(); err != nil {
			return nil, goutils.NewConfigValidationError(path, err)
		}
	}
	return []string{conf.Board}, nil
}

func init() {
	for model, bounds := range map[resource.Model]Bounds{
		Model:               DefaultBounds,
		ManualModel:         ManualBounds,
		ManualDeadbandModel: ManualDeadbandBounds,
	} {
		register(model, bounds)
	}
}

func register(model resource.Model, bounds Bounds) {
	resource.RegisterComponent(
		motor.API,
		model,
		resource.Registration[motor.Motor, *Config]{
			Constructor: func(
				ctx context.Context,
				deps resource.Dependencies,
				conf resource.Config,
				logger logging.Logger,
			) (motor.Motor, error) {
				newConf, err := resource.NativeConfig[*Config](conf)
				if err != nil {
					return nil, err
				}
				return NewVictorSP(ctx, deps, conf.ResourceName(), newConf, bounds, logger)
			},
		})
}

// VictorSP drives a motor controller by pulse width.
type VictorSP struct {
	resource.Named

	mu     sync.Mutex
	pin    board.GPIOPin
	bounds Bounds
	period time.Duration
	speed  float64
	logger logging.Logger
}

// NewVictorSP configures the PWM pin, disables the output and latches zero. bounds are
// used unless the config overrides them.
func NewVictorSP(
	ctx context.Context,
	deps resource.Dependencies,
	name resource.Name,
	conf *Config,
	bounds Bounds,
	logger logging.Logger,
) (*VictorSP, error) {
	b, err := board.FromDependencies(deps, conf.Board)
	if err != nil {
		return nil, err
	}
	pin, err := b.GPIOPinByName(conf.Pin)
	if err != nil {
		return nil, errors.Wrapf(err, "victorsp: cannot grab pin %q", conf.Pin)
	}
	if conf.BoundsUs != nil {
		bounds = *conf.BoundsUs
	}
	multiplier := conf.PeriodMultiplier
	if multiplier == 0 {
		multiplier = 1
	}

	m := &VictorSP{
		Named:  name.AsNamed(),
		pin:    pin,
		bounds: bounds,
		period: BasePeriod * time.Duration(multiplier),
		logger: logger,
	}
	if err := pin.SetPWMFreq(ctx, m.Frequency(), nil); err != nil {
		return nil, errors.Wrap(err, "victorsp: cannot set pwm frequency")
	}
	if err := pin.SetPWM(ctx, 0, nil); err != nil {
		return nil, errors.Wrap(err, "victorsp: cannot disable output")
	}
	if err := m.latchZero(ctx); err != nil {
		return nil, err
	}
	logger.Debugw("built victorsp", "pin", conf.Pin, "period", m.period, "bounds", bounds)
	return m, nil
}

// Frequency returns the PWM frequency in Hz.
func (m *VictorSP) Frequency() uint {
	return uint(math.Round(float64(time.Second) / float64(m.period)))
}

// PulseWidth returns the pulse width in microseconds commanded for a speed.
func (m *VictorSP) PulseWidth(speed float64) int {
	return m.bounds.PulseWidth(speed)
}

// dutyCycle is taken against the rounded frequency the pin actually runs at.
func (m *VictorSP) dutyCycle(widthUs int) float64 {
	return float64(widthUs) * float64(m.Frequency()) / 1e6
}

// latchZero holds the output off for one period, then centers it.
func (m *VictorSP) latchZero(ctx context.Context) error {
	if err := m.pin.SetPWM(ctx, 0, nil); err != nil {
		return err
	}
	if !goutils.SelectContextOrWait(ctx, m.period) {
		return ctx.Err()
	}
	return m.pin.SetPWM(ctx, m.dutyCycle(m.bounds.Center), nil)
}

// Set commands a speed in [-1, 1]. Values outside are clamped.
func (m *VictorSP) Set(ctx context.Context, speed float64) error {
	if math.IsNaN(speed) {
		return motor.NewInvalidPowerError(speed)
	}
	speed = clampSpeed(speed)
	m.mu.Lock()
	defer m.mu.Unlock()
	width := m.bounds.PulseWidth(speed)
	if err := m.pin.SetPWM(ctx, m.dutyCycle(width), nil); err != nil {
		return errors.Wrapf(err, "victorsp %q: cannot set pulse width %dµs", m.Name().ShortName(), width)
	}
	m.speed = speed
	return nil
}

// SetPower commands a speed in [-1, 1].
func (m *VictorSP) SetPower(ctx context.Context, powerPct float64, extra map[string]interface{}) error {
	m.logger.Debugf("VictorSP SetPower %f", powerPct)
	return m.Set(ctx, powerPct)
}

// Stop centers the pulse.
func (m *VictorSP) Stop(ctx context.Context, extra map[string]interface{}) error {
	return m.Set(ctx, 0)
}

// IsPowered returns whether the last commanded speed is non zero, and that speed.
func (m *VictorSP) IsPowered(ctx context.Context, extra map[string]interface{}) (bool, float64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.speed != 0, m.speed, nil
}

// Properties reports that the controller has no position feedback.
func (m *VictorSP) Properties(ctx context.Context, extra map[string]interface{}) (motor.Properties, error) {
	return motor.Properties{}, nil
}

// Close stops the motor.
func (m *VictorSP) Close(ctx context.Context) error {
	return m.Stop(ctx, nil)
}

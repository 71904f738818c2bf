// Package adxl193 implements the single axis ADXL193 accelerometer read through a board analog input.
package adxl193

import (
	"context"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/flashrobotics/devices/components/board"
	"github.com/flashrobotics/devices/components/movementsensor"
	"github.com/flashrobotics/devices/logging"
	"github.com/flashrobotics/devices/resource"
)

// Model is the ADXL193 model.
var Model = resource.DefaultModelFamily.WithModel("adxl193")

// Output voltage at rest and sensitivity of the ADXL193 at a 5 V supply.
const (
	DefaultZeroGVolts = 2.5
	DefaultVoltsPerG  = 0.008
)

// Config describes the analog input the accelerometer output is wired to.
type Config struct {
	Board      string  `json:"board"`
	Analog     string  `json:"analog"`
	ZeroGVolts float64 `json:"zero_g_volts,omitempty"`
	VoltsPerG  float64 `json:"volts_per_g,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) ([]string, error) {
	if conf.Board == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "board")
	}
	if conf.Analog == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "analog")
	}
	if conf.VoltsPerG < 0 {
		return nil, goutils.NewConfigValidationError(path, errors.New("volts_per_g cannot be negative"))
	}
	return []string{conf.Board}, nil
}

func init() {
	resource.RegisterComponent(
		movementsensor.API,
		Model,
		resource.Registration[movementsensor.MovementSensor, *Config]{
			Constructor: func(
				ctx context.Context,
				deps resource.Dependencies,
				conf resource.Config,
				logger logging.Logger,
			) (movementsensor.MovementSensor, error) {
				newConf, err := resource.NativeConfig[*Config](conf)
				if err != nil {
					return nil, err
				}
				return NewAdxl193(deps, conf.ResourceName(), newConf, logger)
			},
		})
}

// Adxl193 is an analog accelerometer measuring along its X axis.
type Adxl193 struct {
	resource.Named
	resource.TriviallyCloseable

	input      board.Analog
	zeroGVolts float64
	voltsPerG  float64
}

// NewAdxl193 returns an accelerometer reading the configured analog input.
func NewAdxl193(
	deps resource.Dependencies,
	name resource.Name,
	conf *Config,
	logger logging.Logger,
) (*Adxl193, error) {
	b, err := board.FromDependencies(deps, conf.Board)
	if err != nil {
		return nil, err
	}
	input, err := b.AnalogByName(conf.Analog)
	if err != nil {
		return nil, errors.Wrapf(err, "adxl193: cannot grab analog %q", conf.Analog)
	}
	a := &Adxl193{
		Named:      name.AsNamed(),
		input:      input,
		zeroGVolts: DefaultZeroGVolts,
		voltsPerG:  DefaultVoltsPerG,
	}
	if conf.ZeroGVolts != 0 {
		a.zeroGVolts = conf.ZeroGVolts
	}
	if conf.VoltsPerG != 0 {
		a.voltsPerG = conf.VoltsPerG
	}
	logger.Debugw("built adxl193", "analog", conf.Analog, "zero_g_volts", a.zeroGVolts, "volts_per_g", a.voltsPerG)
	return a, nil
}

// AccelerationFromVolts converts an output voltage to g.
func AccelerationFromVolts(volts, zeroGVolts, voltsPerG float64) float64 {
	return (volts - zeroGVolts) / voltsPerG
}

// Acceleration returns the acceleration along the sensing axis in g.
func (a *Adxl193) Acceleration(ctx context.Context) (float64, error) {
	val, err := a.input.Read(ctx, nil)
	if err != nil {
		return 0, err
	}
	return AccelerationFromVolts(val.Voltage(), a.zeroGVolts, a.voltsPerG), nil
}

// LinearAcceleration returns the acceleration in g as the X component of a vector.
func (a *Adxl193) LinearAcceleration(ctx context.Context, extra map[string]interface{}) (r3.Vector, error) {
	acc, err := a.Acceleration(ctx)
	if err != nil {
		return r3.Vector{}, err
	}
	return r3.Vector{X: acc}, nil
}

// AngularVelocity is not supported by an accelerometer.
func (a *Adxl193) AngularVelocity(ctx context.Context, extra map[string]interface{}) (r3.Vector, error) {
	return r3.Vector{}, movementsensor.ErrMethodUnimplementedAngularVelocity
}

// Properties reports that only linear acceleration is available.
func (a *Adxl193) Properties(ctx context.Context, extra map[string]interface{}) (*movementsensor.Properties, error) {
	return &movementsensor.Properties{LinearAccelerationSupported: true}, nil
}

// Readings returns the linear acceleration.
func (a *Adxl193) Readings(ctx context.Context, extra map[string]interface{}) (map[string]interface{}, error) {
	return movementsensor.DefaultAPIReadings(ctx, a, extra)
}

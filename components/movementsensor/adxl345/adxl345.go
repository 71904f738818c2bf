// Package adxl345 implements the ADXL345 three axis accelerometer over I2C.
// Datasheet: https://www.analog.com/media/en/technical-documentation/data-sheets/ADXL345.pdf
package adxl345

import (
	"context"
	"encoding/binary"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"github.com/flashrobotics/devices/components/board"
	"github.com/flashrobotics/devices/components/movementsensor"
	"github.com/flashrobotics/devices/logging"
	"github.com/flashrobotics/devices/resource"
)

// Model is the ADXL345 model.
var Model = resource.DefaultModelFamily.WithModel("adxl345")

// LSBPerG is the full resolution scale factor.
const LSBPerG = 256.0

// Config is a description of how to find an ADXL345 accelerometer on the robot.
type Config struct {
	Board      string `json:"board"`
	I2CBus     string `json:"i2c_bus"`
	I2CAddress int    `json:"i2c_address,omitempty"`
}

// Validate ensures all parts of the config are valid, and then returns the list of things we
// depend on.
func (conf *Config) Validate(path string) ([]string, error) {
	if conf.Board == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "board")
	}
	if conf.I2CBus == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "i2c_bus")
	}
	if conf.I2CAddress != 0 && conf.I2CAddress != int(DefaultAddress) && conf.I2CAddress != int(AlternateAddress) {
		return nil, goutils.NewConfigValidationError(path,
			errors.Errorf("i2c_address must be %#x or %#x, got %#x", DefaultAddress, AlternateAddress, conf.I2CAddress))
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
				return NewAdxl345(ctx, deps, conf.ResourceName(), newConf, logger)
			},
		})
}

// Adxl345 is an ADXL345 accelerometer.
type Adxl345 struct {
	resource.Named

	mu      sync.Mutex
	bus     board.I2C
	address byte
	logger  logging.Logger
}

// NewAdxl345 checks the device id and puts the chip in full resolution measurement mode.
func NewAdxl345(
	ctx context.Context,
	deps resource.Dependencies,
	name resource.Name,
	conf *Config,
	logger logging.Logger,
) (*Adxl345, error) {
	b, err := board.FromDependencies(deps, conf.Board)
	if err != nil {
		return nil, err
	}
	bus, err := b.I2CByName(conf.I2CBus)
	if err != nil {
		return nil, errors.Wrapf(err, "can't find I2C bus '%q' for ADXL345 sensor", conf.I2CBus)
	}
	address := DefaultAddress
	if conf.I2CAddress != 0 {
		address = byte(conf.I2CAddress)
	}

	sensor := &Adxl345{
		Named:   name.AsNamed(),
		bus:     bus,
		address: address,
		logger:  logger,
	}

	deviceID, err := sensor.readByte(ctx, deviceIDRegister)
	if err != nil {
		return nil, errors.Wrap(err, "can't read from I2C address")
	}
	if deviceID != expectedDeviceID {
		return nil, errors.Errorf("unexpected I2C device instead of ADXL345 at address %#x: device id %#x",
			address, deviceID)
	}
	if err := sensor.writeByte(ctx, dataFormatRegister, dataFormatFullRes); err != nil {
		return nil, errors.Wrap(err, "unable to set data format")
	}
	if err := sensor.writeByte(ctx, powerCtlRegister, powerCtlMeasure); err != nil {
		return nil, errors.Wrap(err, "unable to turn on sensor")
	}
	logger.Debugw("built adxl345", "bus", conf.I2CBus, "address", address)
	return sensor, nil
}

func (adxl *Adxl345) readBlock(ctx context.Context, register byte, length uint8) (data []byte, err error) {
	adxl.mu.Lock()
	defer adxl.mu.Unlock()
	handle, err := adxl.bus.OpenHandle(adxl.address)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, handle.Close())
	}()
	data, err = handle.ReadBlockData(ctx, register, length)
	if err != nil {
		return nil, err
	}
	if len(data) < int(length) {
		return nil, errors.Errorf("short read from register %#x: got %d of %d bytes", register, len(data), length)
	}
	return data, nil
}

func (adxl *Adxl345) readByte(ctx context.Context, register byte) (byte, error) {
	data, err := adxl.readBlock(ctx, register, 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

func (adxl *Adxl345) writeByte(ctx context.Context, register, value byte) (err error) {
	adxl.mu.Lock()
	defer adxl.mu.Unlock()
	handle, err := adxl.bus.OpenHandle(adxl.address)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, handle.Close())
	}()
	return handle.WriteByteData(ctx, register, value)
}

// toG converts one little endian, two's complement axis sample to g.
func toG(data []byte) float64 {
	return float64(int16(binary.LittleEndian.Uint16(data))) / LSBPerG
}

// XAcceleration returns the acceleration along the X axis in g.
func (adxl *Adxl345) XAcceleration(ctx context.Context) (float64, error) {
	data, err := adxl.readBlock(ctx, dataX0Register, 2)
	if err != nil {
		return 0, err
	}
	return toG(data), nil
}

// LinearAcceleration returns the acceleration along all three axes in g.
func (adxl *Adxl345) LinearAcceleration(ctx context.Context, extra map[string]interface{}) (r3.Vector, error) {
	data, err := adxl.readBlock(ctx, dataX0Register, 6)
	if err != nil {
		return r3.Vector{}, err
	}
	return r3.Vector{X: toG(data[0:2]), Y: toG(data[2:4]), Z: toG(data[4:6])}, nil
}

// AngularVelocity is not supported by an accelerometer.
func (adxl *Adxl345) AngularVelocity(ctx context.Context, extra map[string]interface{}) (r3.Vector, error) {
	return r3.Vector{}, movementsensor.ErrMethodUnimplementedAngularVelocity
}

// Properties reports that only linear acceleration is available.
func (adxl *Adxl345) Properties(ctx context.Context, extra map[string]interface{}) (*movementsensor.Properties, error) {
	return &movementsensor.Properties{LinearAccelerationSupported: true}, nil
}

// Readings returns the linear acceleration.
func (adxl *Adxl345) Readings(ctx context.Context, extra map[string]interface{}) (map[string]interface{}, error) {
	return movementsensor.DefaultAPIReadings(ctx, adxl, extra)
}

// Close puts the chip in standby.
func (adxl *Adxl345) Close(ctx context.Context) error {
	return adxl.writeByte(ctx, powerCtlRegister, powerCtlStandby)
}

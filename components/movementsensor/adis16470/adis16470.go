// Package adis16470 implements the X axis gyroscope of an ADIS16470 IMU over SPI.
package adis16470

import (
	"context"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"github.com/flashrobotics/devices/components/board"
	"github.com/flashrobotics/devices/components/movementsensor"
	"github.com/flashrobotics/devices/logging"
	"github.com/flashrobotics/devices/resource"
)

// Model is the ADIS16470 model.
var Model = resource.DefaultModelFamily.WithModel("adis16470")

const (
	xGyroLowRegister = 0x04
	xGyroOutRegister = 0x06
	globCmdRegister  = 0x68

	globCmdBiasCorrectionUpdate = 0x0001

	// DegPerSecPerLSB is the scale of the X_GYRO_OUT register.
	DegPerSecPerLSB = 0.1

	spiBaud = 1000000
	spiMode = 3

	// DefaultChipSelect is used when the config leaves chip_select empty.
	DefaultChipSelect = "0"
)

// Config describes where the IMU is wired.
type Config struct {
	Board            string `json:"board"`
	SPIBus           string `json:"spi_bus"`
	ChipSelect       string `json:"chip_select"`
	DataReadyCounter string `json:"data_ready_counter"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) ([]string, error) {
	if conf.Board == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "board")
	}
	if conf.SPIBus == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "spi_bus")
	}
	if conf.DataReadyCounter == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "data_ready_counter")
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
				return NewAdis16470(ctx, deps, conf.ResourceName(), newConf, logger)
			},
		})
}

// Adis16470 reads the X axis rate gyro of an ADIS16470.
type Adis16470 struct {
	resource.Named
	resource.TriviallyCloseable

	bus        board.SPI
	chipSelect string
	dataReady  board.Counter
	logger     logging.Logger
}

// NewAdis16470 returns a gyro on the configured SPI bus. The data ready counter is reset so
// the first sample starts clean.
func NewAdis16470(
	ctx context.Context,
	deps resource.Dependencies,
	name resource.Name,
	conf *Config,
	logger logging.Logger,
) (*Adis16470, error) {
	b, err := board.FromDependencies(deps, conf.Board)
	if err != nil {
		return nil, err
	}
	bus, err := b.SPIByName(conf.SPIBus)
	if err != nil {
		return nil, errors.Wrapf(err, "adis16470: cannot grab spi bus %q", conf.SPIBus)
	}
	dr, err := b.CounterByName(conf.DataReadyCounter)
	if err != nil {
		return nil, errors.Wrapf(err, "adis16470: cannot grab data ready counter %q", conf.DataReadyCounter)
	}
	if err := dr.Reset(ctx, nil); err != nil {
		return nil, err
	}
	chipSelect := conf.ChipSelect
	if chipSelect == "" {
		chipSelect = DefaultChipSelect
	}
	logger.Debugw("built adis16470", "spi_bus", conf.SPIBus, "chip_select", chipSelect)
	return &Adis16470{
		Named:      name.AsNamed(),
		bus:        bus,
		chipSelect: chipSelect,
		dataReady:  dr,
		logger:     logger,
	}, nil
}

// readRegister reads one 16 bit register. The word requested by the first frame is
// clocked out during the second.
func (a *Adis16470) readRegister(ctx context.Context, reg byte) (value uint16, err error) {
	handle, err := a.bus.OpenHandle()
	if err != nil {
		return 0, err
	}
	defer func() {
		err = multierr.Combine(err, handle.Close())
	}()

	if _, err := handle.Xfer(ctx, spiBaud, a.chipSelect, spiMode, []byte{reg & 0x7f, 0}); err != nil {
		return 0, err
	}
	rx, err := handle.Xfer(ctx, spiBaud, a.chipSelect, spiMode, []byte{0, 0})
	if err != nil {
		return 0, err
	}
	if len(rx) < 2 {
		return 0, errors.Errorf("adis16470: short read of register %#x", reg)
	}
	return uint16(rx[0])<<8 | uint16(rx[1]), nil
}

// writeRegister writes a 16 bit register as two byte writes, low byte first.
func (a *Adis16470) writeRegister(ctx context.Context, reg byte, value uint16) (err error) {
	handle, err := a.bus.OpenHandle()
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, handle.Close())
	}()

	if _, err := handle.Xfer(ctx, spiBaud, a.chipSelect, spiMode, []byte{0x80 | reg, byte(value)}); err != nil {
		return err
	}
	_, err = handle.Xfer(ctx, spiBaud, a.chipSelect, spiMode, []byte{0x80 | (reg + 1), byte(value >> 8)})
	return err
}

// GyroFromRaw converts the 32 bit (OUT << 16) | LOW rate to degrees per second.
func GyroFromRaw(raw int32) float64 {
	return float64(raw) * DegPerSecPerLSB / 65536
}

// GyroX returns the X axis rate in degrees per second.
func (a *Adis16470) GyroX(ctx context.Context) (float64, error) {
	out, err := a.readRegister(ctx, xGyroOutRegister)
	if err != nil {
		return 0, err
	}
	low, err := a.readRegister(ctx, xGyroLowRegister)
	if err != nil {
		return 0, err
	}
	return GyroFromRaw(int32(uint32(out)<<16 | uint32(low))), nil
}

// IsDataReady reports whether the data ready line has pulsed since the last reset.
func (a *Adis16470) IsDataReady(ctx context.Context) (bool, error) {
	count, err := a.dataReady.Count(ctx, nil)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// ResetDataReady clears the data ready count.
func (a *Adis16470) ResetDataReady(ctx context.Context) error {
	return a.dataReady.Reset(ctx, nil)
}

// UpdateBiasCorrection commands the IMU to apply its accumulated bias estimate.
func (a *Adis16470) UpdateBiasCorrection(ctx context.Context) error {
	a.logger.Debug("updating adis16470 bias correction")
	return a.writeRegister(ctx, globCmdRegister, globCmdBiasCorrectionUpdate)
}

// AngularVelocity returns the X axis rate in degrees per second.
func (a *Adis16470) AngularVelocity(ctx context.Context, extra map[string]interface{}) (r3.Vector, error) {
	x, err := a.GyroX(ctx)
	if err != nil {
		return r3.Vector{}, err
	}
	return r3.Vector{X: x}, nil
}

// LinearAcceleration is not read from this IMU.
func (a *Adis16470) LinearAcceleration(ctx context.Context, extra map[string]interface{}) (r3.Vector, error) {
	return r3.Vector{}, movementsensor.ErrMethodUnimplementedLinearAcceleration
}

// Properties reports that only angular velocity is available.
func (a *Adis16470) Properties(ctx context.Context, extra map[string]interface{}) (*movementsensor.Properties, error) {
	return &movementsensor.Properties{AngularVelocitySupported: true}, nil
}

// Readings returns the angular velocity.
func (a *Adis16470) Readings(ctx context.Context, extra map[string]interface{}) (map[string]interface{}, error) {
	return movementsensor.DefaultAPIReadings(ctx, a, extra)
}

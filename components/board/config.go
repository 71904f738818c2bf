package board

import (
	"fmt"

	"github.com/pkg/errors"
	"go.viam.com/utils"
)

// SPIConfig enumerates a specific, shareable SPI bus.
type SPIConfig struct {
	Name      string `json:"name"`
	BusSelect string `json:"bus_select"` // the N in /dev/spidevN.M
}

// Validate ensures all parts of the config are valid.
func (config *SPIConfig) Validate(path string) error {
	if config.Name == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "name")
	}
	return nil
}

// I2CConfig enumerates a specific, shareable I2C bus.
type I2CConfig struct {
	Name string `json:"name"`
	Bus  string `json:"bus"`
}

// Validate ensures all parts of the config are valid.
func (config *I2CConfig) Validate(path string) error {
	if config.Name == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if config.Bus == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "bus")
	}
	return nil
}

// AnalogConfig describes the configuration of an analog input on a board.
type AnalogConfig struct {
	Name              string  `json:"name"`
	Pin               string  `json:"pin"`         // analog input pin on the ADC itself
	SPIBus            string  `json:"spi_bus"`     // name of the SPI bus (which is configured elsewhere in the config file)
	ChipSelect        string  `json:"chip_select"` // the CS line for the ADC chip
	VRef              float64 `json:"vref,omitempty"`
	AverageOverMillis int     `json:"average_over_ms,omitempty"`
	SamplesPerSecond  int     `json:"samples_per_sec,omitempty"`
}

// DefaultVRef is the ADC full scale voltage used when none is configured.
const DefaultVRef = 3.3

// Validate ensures all parts of the config are valid.
func (config *AnalogConfig) Validate(path string) error {
	if config.Name == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if config.VRef < 0 {
		return utils.NewConfigValidationError(path, errors.New("vref cannot be negative"))
	}
	if config.AverageOverMillis < 0 || config.SamplesPerSecond < 0 {
		return utils.NewConfigValidationError(path, errors.New("smoothing parameters cannot be negative"))
	}
	return nil
}

// CounterConfig describes an edge counter: the pin feeding its up source and an optional
// pin feeding its down source.
type CounterConfig struct {
	Name    string `json:"name"`
	UpPin   string `json:"up_pin"`
	DownPin string `json:"down_pin,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (config *CounterConfig) Validate(path string) error {
	if config.Name == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if config.UpPin == "" {
		return utils.NewConfigValidationFieldRequiredError(path, "up_pin")
	}
	if config.DownPin == config.UpPin {
		return utils.NewConfigValidationError(path, errors.Errorf("up_pin and down_pin cannot both be %q", config.UpPin))
	}
	return nil
}

// ValidateParts validates every bus, analog and counter config and rejects duplicate names
// within each kind.
func ValidateParts(path string, spis []SPIConfig, i2cs []I2CConfig, analogs []AnalogConfig, counters []CounterConfig) error {
	seen := map[string]struct{}{}
	checkDup := func(kind, name, at string) error {
		key := kind + "/" + name
		if _, ok := seen[key]; ok {
			return utils.NewConfigValidationError(at, errors.Errorf("duplicate %s name %q", kind, name))
		}
		seen[key] = struct{}{}
		return nil
	}
	for idx, c := range spis {
		at := fmt.Sprintf("%s.%s.%d", path, "spis", idx)
		if err := c.Validate(at); err != nil {
			return err
		}
		if err := checkDup("spi", c.Name, at); err != nil {
			return err
		}
	}
	for idx, c := range i2cs {
		at := fmt.Sprintf("%s.%s.%d", path, "i2cs", idx)
		if err := c.Validate(at); err != nil {
			return err
		}
		if err := checkDup("i2c", c.Name, at); err != nil {
			return err
		}
	}
	for idx, c := range analogs {
		at := fmt.Sprintf("%s.%s.%d", path, "analogs", idx)
		if err := c.Validate(at); err != nil {
			return err
		}
		if err := checkDup("analog", c.Name, at); err != nil {
			return err
		}
	}
	for idx, c := range counters {
		at := fmt.Sprintf("%s.%s.%d", path, "counters", idx)
		if err := c.Validate(at); err != nil {
			return err
		}
		if err := checkDup("counter", c.Name, at); err != nil {
			return err
		}
	}
	return nil
}

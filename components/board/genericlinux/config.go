package genericlinux

import (
	"fmt"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/flashrobotics/devices/components/board"
	"github.com/flashrobotics/devices/utils"
)

// A Config describes the configuration of a board and all of its connected parts.
type Config struct {
	I2Cs       []board.I2CConfig     `json:"i2cs,omitempty"`
	SPIs       []board.SPIConfig     `json:"spis,omitempty"`
	Analogs    []board.AnalogConfig  `json:"analogs,omitempty"`
	Counters   []board.CounterConfig `json:"counters,omitempty"`
	Attributes utils.AttributeMap    `json:"attributes,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) ([]string, error) {
	if err := board.ValidateParts(path, conf.SPIs, conf.I2Cs, conf.Analogs, conf.Counters); err != nil {
		return nil, err
	}
	spis := make(map[string]struct{}, len(conf.SPIs))
	for _, c := range conf.SPIs {
		spis[c.Name] = struct{}{}
	}
	for idx, c := range conf.Analogs {
		if _, ok := spis[c.SPIBus]; !ok {
			return nil, goutils.NewConfigValidationError(fmt.Sprintf("%s.%s.%d", path, "analogs", idx),
				errors.Errorf("spi_bus %q is not one of the configured spis", c.SPIBus))
		}
	}
	return nil, nil
}

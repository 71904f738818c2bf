package board

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
)

const (
	mcp3008Baud       = 1000000
	mcp3008Resolution = 1024
)

// MCP3008Analog is an Analog backed by one channel of an MCP3008 10 bit ADC on an SPI bus.
type MCP3008Analog struct {
	Channel int
	Bus     SPI
	Chip    string
	VRef    float64
}

// NewMCP3008Analog returns a reader for the given ADC channel. vref is the ADC's full scale voltage.
func NewMCP3008Analog(bus SPI, chipSelect string, channel int, vref float64) (*MCP3008Analog, error) {
	if channel < 0 || channel > 7 {
		return nil, errors.Errorf("mcp3008 channel must be in [0, 7], got %d", channel)
	}
	if vref <= 0 {
		return nil, errors.Errorf("mcp3008 reference voltage must be positive, got %v", vref)
	}
	return &MCP3008Analog{Channel: channel, Bus: bus, Chip: chipSelect, VRef: vref}, nil
}

// Read performs a single ended conversion on the channel.
func (mar *MCP3008Analog) Read(ctx context.Context, extra map[string]interface{}) (value AnalogValue, err error) {
	var tx [3]byte
	tx[0] = 1                            // start bit
	tx[1] = byte((8 + mar.Channel) << 4) // single-ended
	tx[2] = 0                            // extra clocks to receive full 10 bits of data

	handle, err := mar.Bus.OpenHandle()
	if err != nil {
		return AnalogValue{}, err
	}
	defer func() {
		err = multierr.Combine(err, handle.Close())
	}()

	rx, err := handle.Xfer(ctx, mcp3008Baud, mar.Chip, 0, tx[:])
	if err != nil {
		return AnalogValue{}, err
	}
	if len(rx) != len(tx) {
		return AnalogValue{}, errors.Errorf("mcp3008 returned %d bytes, expected %d", len(rx), len(tx))
	}
	// Bits before the final 10 are garbage and might be non-zero.
	val := 0x03FF & ((int(rx[1]) << 8) | int(rx[2]))
	return AnalogValue{
		Value:    val,
		Min:      0,
		Max:      float32(mar.VRef),
		StepSize: float32(mar.VRef / mcp3008Resolution),
	}, nil
}

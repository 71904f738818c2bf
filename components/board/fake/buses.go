package fake

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/flashrobotics/devices/components/board"
)

// An I2C is a fake bus where every address answers with a 256 byte register map.
type I2C struct {
	mu      sync.Mutex
	devices map[byte]*I2CDevice
}

// Device returns the device at addr, creating a zeroed one on first use.
func (bus *I2C) Device(addr byte) *I2CDevice {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	d, ok := bus.devices[addr]
	if !ok {
		d = &I2CDevice{}
		bus.devices[addr] = d
	}
	return d
}

// OpenHandle opens a handle to the device at addr.
func (bus *I2C) OpenHandle(addr byte) (board.I2CHandle, error) {
	if addr > 0x7f {
		return nil, errors.Errorf("address %#x is not a 7 bit I2C address", addr)
	}
	return &i2cHandle{device: bus.Device(addr)}, nil
}

// An I2CDevice is a register map. Reads and writes of several bytes auto increment the register.
type I2CDevice struct {
	mu        sync.Mutex
	registers [256]byte
	pointer   byte
}

// SetRegisters writes values starting at register reg.
func (d *I2CDevice) SetRegisters(reg byte, values ...byte) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i, v := range values {
		d.registers[reg+byte(i)] = v
	}
}

// Register returns the value of a single register.
func (d *I2CDevice) Register(reg byte) byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.registers[reg]
}

type i2cHandle struct {
	device *I2CDevice
	closed bool
}

func (h *i2cHandle) check() error {
	if h.closed {
		return errors.New("i2c handle is closed")
	}
	return nil
}

func (h *i2cHandle) Write(ctx context.Context, tx []byte) error {
	if err := h.check(); err != nil {
		return err
	}
	if len(tx) == 0 {
		return nil
	}
	h.device.mu.Lock()
	h.device.pointer = tx[0]
	h.device.mu.Unlock()
	if len(tx) > 1 {
		return h.WriteBlockData(ctx, tx[0], tx[1:])
	}
	return nil
}

func (h *i2cHandle) Read(ctx context.Context, count int) ([]byte, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	h.device.mu.Lock()
	defer h.device.mu.Unlock()
	out := make([]byte, count)
	for i := range out {
		out[i] = h.device.registers[h.device.pointer]
		h.device.pointer++
	}
	return out, nil
}

func (h *i2cHandle) ReadByteData(ctx context.Context, register byte) (byte, error) {
	data, err := h.ReadBlockData(ctx, register, 1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

func (h *i2cHandle) WriteByteData(ctx context.Context, register, data byte) error {
	return h.WriteBlockData(ctx, register, []byte{data})
}

func (h *i2cHandle) ReadBlockData(ctx context.Context, register byte, numBytes uint8) ([]byte, error) {
	if err := h.check(); err != nil {
		return nil, err
	}
	h.device.mu.Lock()
	defer h.device.mu.Unlock()
	out := make([]byte, numBytes)
	for i := range out {
		out[i] = h.device.registers[register+byte(i)]
	}
	return out, nil
}

func (h *i2cHandle) WriteBlockData(ctx context.Context, register byte, data []byte) error {
	if err := h.check(); err != nil {
		return err
	}
	h.device.SetRegisters(register, data...)
	return nil
}

func (h *i2cHandle) Close() error {
	h.closed = true
	return nil
}

// An SPI is a fake bus that records every transfer. Without a Responder it answers with zeros.
type SPI struct {
	mu        sync.Mutex
	transfers [][]byte
	// Responder, if set, computes the bytes received for a transfer.
	Responder func(chipSelect string, tx []byte) []byte
}

// OpenHandle opens a handle to the bus.
func (s *SPI) OpenHandle() (board.SPIHandle, error) {
	return &spiHandle{bus: s}, nil
}

// Transfers returns a copy of every transmitted frame, oldest first.
func (s *SPI) Transfers() [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]byte, len(s.transfers))
	for i, tx := range s.transfers {
		out[i] = append([]byte{}, tx...)
	}
	return out
}

type spiHandle struct {
	bus    *SPI
	closed bool
}

func (h *spiHandle) Xfer(ctx context.Context, baud uint, chipSelect string, mode uint, tx []byte) ([]byte, error) {
	if h.closed {
		return nil, errors.New("spi handle is closed")
	}
	if mode > 3 {
		return nil, errors.Errorf("invalid spi mode %d", mode)
	}
	h.bus.mu.Lock()
	h.bus.transfers = append(h.bus.transfers, append([]byte{}, tx...))
	responder := h.bus.Responder
	h.bus.mu.Unlock()

	rx := make([]byte, len(tx))
	if responder != nil {
		copy(rx, responder(chipSelect, tx))
	}
	return rx, nil
}

func (h *spiHandle) Close() error {
	h.closed = true
	return nil
}

package genericlinux

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"

	"github.com/flashrobotics/devices/components/board"
)

// spiBus allows one open handle at a time; opening a second blocks until the first is closed.
type spiBus struct {
	mu  sync.Mutex
	bus string
}

type spiHandle struct {
	bus      *spiBus
	isClosed bool
}

func (sb *spiBus) OpenHandle() (board.SPIHandle, error) {
	sb.mu.Lock()
	return &spiHandle{bus: sb}, nil
}

func (sh *spiHandle) Xfer(ctx context.Context, baud uint, chipSelect string, mode uint, tx []byte) (rx []byte, err error) {
	if sh.isClosed {
		return nil, errors.New("can't use Xfer() on an already closed SPIHandle")
	}

	port, err := spireg.Open(fmt.Sprintf("SPI%s.%s", sh.bus.bus, chipSelect))
	if err != nil {
		return nil, err
	}
	defer func() {
		err = multierr.Combine(err, port.Close())
	}()
	conn, err := port.Connect(physic.Hertz*physic.Frequency(baud), spi.Mode(mode), 8)
	if err != nil {
		return nil, err
	}
	rx = make([]byte, len(tx))
	return rx, conn.Tx(tx, rx)
}

func (sh *spiHandle) Close() error {
	if sh.isClosed {
		return nil
	}
	sh.isClosed = true
	sh.bus.mu.Unlock()
	return nil
}

// i2cBus opens the periph bus lazily so a board can be configured with buses that are
// only present on some hosts.
type i2cBus struct {
	mu     sync.Mutex
	bus    string
	closer i2c.BusCloser
}

func newI2CBus(bus string) *i2cBus {
	return &i2cBus{bus: bus}
}

func (b *i2cBus) OpenHandle(addr byte) (board.I2CHandle, error) {
	if addr > 0x7f {
		return nil, errors.Errorf("address %#x is not a 7 bit I2C address", addr)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closer == nil {
		closer, err := i2creg.Open(b.bus)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to open i2c bus %q", b.bus)
		}
		b.closer = closer
	}
	return &i2cHandle{dev: &i2c.Dev{Bus: b.closer, Addr: uint16(addr)}}, nil
}

func (b *i2cBus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closer == nil {
		return nil
	}
	err := b.closer.Close()
	b.closer = nil
	return err
}

type i2cHandle struct {
	mu     sync.Mutex
	dev    *i2c.Dev
	closed bool
}

func (h *i2cHandle) tx(w, r []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return errors.New("can't use an already closed I2CHandle")
	}
	return h.dev.Tx(w, r)
}

func (h *i2cHandle) Write(ctx context.Context, tx []byte) error {
	return h.tx(tx, nil)
}

func (h *i2cHandle) Read(ctx context.Context, count int) ([]byte, error) {
	rx := make([]byte, count)
	if err := h.tx(nil, rx); err != nil {
		return nil, err
	}
	return rx, nil
}

func (h *i2cHandle) ReadByteData(ctx context.Context, register byte) (byte, error) {
	rx, err := h.ReadBlockData(ctx, register, 1)
	if err != nil {
		return 0, err
	}
	return rx[0], nil
}

func (h *i2cHandle) WriteByteData(ctx context.Context, register, data byte) error {
	return h.tx([]byte{register, data}, nil)
}

func (h *i2cHandle) ReadBlockData(ctx context.Context, register byte, numBytes uint8) ([]byte, error) {
	rx := make([]byte, numBytes)
	if err := h.tx([]byte{register}, rx); err != nil {
		return nil, err
	}
	return rx, nil
}

func (h *i2cHandle) WriteBlockData(ctx context.Context, register byte, data []byte) error {
	return h.tx(append([]byte{register}, data...), nil)
}

// Close releases the handle. The bus itself stays open until the board closes.
func (h *i2cHandle) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	return nil
}

package board_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"go.viam.com/test"

	"github.com/flashrobotics/devices/components/board"
	"github.com/flashrobotics/devices/testutils/inject"
)

func TestMCP3008Read(t *testing.T) {
	var gotTx []byte
	var gotBaud, gotMode uint
	var gotChip string
	closed := 0
	handle := &inject.SPIHandle{}
	handle.XferFunc = func(ctx context.Context, baud uint, chipSelect string, mode uint, tx []byte) ([]byte, error) {
		gotTx = append([]byte{}, tx...)
		gotBaud, gotChip, gotMode = baud, chipSelect, mode
		// garbage in the high bits of rx[1] must be masked off
		return []byte{0xff, 0xfe, 0x00}, nil
	}
	handle.CloseFunc = func() error {
		closed++
		return nil
	}
	bus := &inject.SPI{}
	bus.OpenHandleFunc = func() (board.SPIHandle, error) {
		return handle, nil
	}

	analog, err := board.NewMCP3008Analog(bus, "0", 3, 3.3)
	test.That(t, err, test.ShouldBeNil)
	val, err := analog.Read(context.Background(), nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, gotTx, test.ShouldResemble, []byte{1, 0xb0, 0})
	test.That(t, gotBaud, test.ShouldEqual, 1000000)
	test.That(t, gotChip, test.ShouldEqual, "0")
	test.That(t, gotMode, test.ShouldEqual, 0)
	test.That(t, val.Value, test.ShouldEqual, 512)
	test.That(t, val.Max, test.ShouldAlmostEqual, 3.3, 1e-6)
	test.That(t, val.Voltage(), test.ShouldAlmostEqual, 1.65, 1e-6)
	test.That(t, closed, test.ShouldEqual, 1)

	handle.XferFunc = func(ctx context.Context, baud uint, chipSelect string, mode uint, tx []byte) ([]byte, error) {
		return nil, errors.New("bus busy")
	}
	_, err = analog.Read(context.Background(), nil)
	test.That(t, err, test.ShouldBeError, errors.New("bus busy"))
	test.That(t, closed, test.ShouldEqual, 2)

	handle.XferFunc = func(ctx context.Context, baud uint, chipSelect string, mode uint, tx []byte) ([]byte, error) {
		return []byte{0}, nil
	}
	_, err = analog.Read(context.Background(), nil)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestNewMCP3008AnalogValidation(t *testing.T) {
	_, err := board.NewMCP3008Analog(&inject.SPI{}, "0", 8, 3.3)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = board.NewMCP3008Analog(&inject.SPI{}, "0", -1, 3.3)
	test.That(t, err, test.ShouldNotBeNil)
	_, err = board.NewMCP3008Analog(&inject.SPI{}, "0", 0, 0)
	test.That(t, err, test.ShouldNotBeNil)
}

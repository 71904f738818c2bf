package board_test

import (
	"testing"

	"go.viam.com/test"

	"github.com/flashrobotics/devices/components/board"
)

func TestValidateParts(t *testing.T) {
	spis := []board.SPIConfig{{Name: "main", BusSelect: "0"}}
	i2cs := []board.I2CConfig{{Name: "main", Bus: "1"}}
	analogs := []board.AnalogConfig{{Name: "accel", Pin: "0", SPIBus: "main", ChipSelect: "0"}}
	counters := []board.CounterConfig{{Name: "enc", UpPin: "11", DownPin: "13"}}
	test.That(t, board.ValidateParts("path", spis, i2cs, analogs, counters), test.ShouldBeNil)

	err := board.ValidateParts("path", nil, []board.I2CConfig{{Name: "main"}}, nil, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "path.i2cs.0")
	test.That(t, err.Error(), test.ShouldContainSubstring, "bus")

	err = board.ValidateParts("path", nil, nil, nil, []board.CounterConfig{{Name: "enc"}})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "up_pin")

	err = board.ValidateParts("path", nil, nil, nil, []board.CounterConfig{{Name: "enc", UpPin: "3", DownPin: "3"}})
	test.That(t, err, test.ShouldNotBeNil)

	err = board.ValidateParts("path", nil, nil, []board.AnalogConfig{{Name: "a", VRef: -1}}, nil)
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "vref")

	err = board.ValidateParts("path", nil, nil, nil, []board.CounterConfig{
		{Name: "enc", UpPin: "1"},
		{Name: "enc", UpPin: "2"},
	})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "duplicate counter name")
	test.That(t, err.Error(), test.ShouldContainSubstring, "path.counters.1")

	// the same name may be reused across kinds
	err = board.ValidateParts("path", spis, i2cs, nil, nil)
	test.That(t, err, test.ShouldBeNil)
}

package fake

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"go.viam.com/test"

	"github.com/flashrobotics/devices/components/board"
	"github.com/flashrobotics/devices/logging"
	"github.com/flashrobotics/devices/resource"
)

func newTestBoard(t *testing.T, conf *Config) (*Board, *clock.Mock) {
	t.Helper()
	clk := clock.NewMock()
	cfg := resource.Config{Name: "board1", API: board.API, Model: Model, ConvertedAttributes: conf}
	b, err := NewBoardWithClock(context.Background(), cfg, clk, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldBeNil)
	return b, clk
}

func TestFakeBoard(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBoard(t, &Config{
		Analogs:  []board.AnalogConfig{{Name: "blue", Pin: "0"}},
		Counters: []board.CounterConfig{{Name: "enc", UpPin: "11", DownPin: "13"}},
		I2Cs:     []I2CConfig{{Name: "main"}},
		SPIs:     []board.SPIConfig{{Name: "main"}},
	})
	test.That(t, b.Name(), test.ShouldResemble, board.Named("board1"))

	a, err := b.AnalogByName("blue")
	test.That(t, err, test.ShouldBeNil)
	b.Analogs["blue"].SetVoltage(2.508)
	val, err := a.Read(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, val.Value, test.ShouldEqual, 2508)
	test.That(t, val.Voltage(), test.ShouldAlmostEqual, 2.508, 1e-5)

	b.Analogs["blue"].SetVoltage(10)
	val, err = a.Read(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, val.Voltage(), test.ShouldAlmostEqual, board.DefaultVRef, 1e-5)

	_, err = b.AnalogByName("green")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = b.CounterByName("enc")
	test.That(t, err, test.ShouldBeNil)
	_, err = b.CounterByName("nope")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = b.I2CByName("main")
	test.That(t, err, test.ShouldBeNil)
	_, err = b.I2CByName("other")
	test.That(t, err, test.ShouldNotBeNil)

	_, err = b.SPIByName("main")
	test.That(t, err, test.ShouldBeNil)
	_, err = b.SPIByName("other")
	test.That(t, err, test.ShouldNotBeNil)

	p1, err := b.GPIOPinByName("7")
	test.That(t, err, test.ShouldBeNil)
	p2, err := b.GPIOPinByName("7")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, p1, test.ShouldEqual, p2)

	test.That(t, b.Close(ctx), test.ShouldBeNil)
	test.That(t, b.CloseCount, test.ShouldEqual, 1)
}

func TestFakeGPIOPin(t *testing.T) {
	ctx := context.Background()
	pin := &GPIOPin{}

	test.That(t, pin.SetPWMFreq(ctx, 198, nil), test.ShouldBeNil)
	test.That(t, pin.SetPWM(ctx, 0.3, nil), test.ShouldBeNil)
	duty, err := pin.PWM(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, duty, test.ShouldEqual, 0.3)
	freq, err := pin.PWMFreq(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, freq, test.ShouldEqual, 198)
	test.That(t, pin.SetPWM(ctx, 1.5, nil), test.ShouldNotBeNil)

	test.That(t, pin.Set(ctx, true, nil), test.ShouldBeNil)
	high, err := pin.Get(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, high, test.ShouldBeTrue)
	duty, _ = pin.PWM(ctx, nil)
	test.That(t, duty, test.ShouldEqual, 0)

	test.That(t, pin.Set(ctx, false, nil), test.ShouldBeNil)
	test.That(t, pin.Writes(), test.ShouldResemble, []bool{true, false})
}

func TestFakeCounter(t *testing.T) {
	ctx := context.Background()
	b, clk := newTestBoard(t, &Config{
		Counters: []board.CounterConfig{{Name: "enc", UpPin: "11"}},
	})
	c := b.Counters["enc"]

	clk.Add(time.Second)
	c.SimulateEdges(board.UpSource, 4, 2*time.Millisecond)
	count, err := c.Count(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, count, test.ShouldEqual, 4)
	period, err := c.Period(ctx, nil)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, period, test.ShouldEqual, 2*time.Millisecond)

	clk.Add(time.Millisecond)
	c.Edge(board.DownSource, true)
	count, _ = c.Count(ctx, nil)
	test.That(t, count, test.ShouldEqual, 3)
	up, _ := c.Direction(ctx, nil)
	test.That(t, up, test.ShouldBeFalse)

	test.That(t, c.SetSemiPeriodMode(ctx, true, nil), test.ShouldBeNil)
	test.That(t, c.Reset(ctx, nil), test.ShouldBeNil)
	c.SimulatePulse(582 * time.Microsecond)
	count, _ = c.Count(ctx, nil)
	test.That(t, count, test.ShouldEqual, 2)
	period, _ = c.Period(ctx, nil)
	test.That(t, period, test.ShouldEqual, 582*time.Microsecond)
}

func TestFakeEcho(t *testing.T) {
	ctx := context.Background()
	b, clk := newTestBoard(t, &Config{
		Counters: []board.CounterConfig{{Name: "echo", UpPin: "8"}},
		Echoes:   []EchoConfig{{TriggerPin: "9", Counter: "echo", EchoMicros: 1000}},
	})
	clk.Add(time.Second)
	c := b.Counters["echo"]
	test.That(t, c.SetSemiPeriodMode(ctx, true, nil), test.ShouldBeNil)

	trigger, err := b.GPIOPinByName("9")
	test.That(t, err, test.ShouldBeNil)
	test.That(t, trigger.Set(ctx, false, nil), test.ShouldBeNil)
	count, _ := c.Count(ctx, nil)
	test.That(t, count, test.ShouldEqual, 0)

	test.That(t, board.Pulse(ctx, trigger, 10*time.Microsecond), test.ShouldBeNil)
	count, _ = c.Count(ctx, nil)
	test.That(t, count, test.ShouldEqual, 2)
	period, _ := c.Period(ctx, nil)
	test.That(t, period, test.ShouldEqual, time.Millisecond)

	_, err = NewBoard(ctx, resource.Config{
		Name: "bad",
		ConvertedAttributes: &Config{
			Echoes: []EchoConfig{{TriggerPin: "9", Counter: "missing"}},
		},
	}, logging.NewTestLogger(t))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "unknown counter")
}

func TestFakeI2C(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBoard(t, &Config{
		I2Cs: []I2CConfig{{Name: "main", Devices: []I2CDeviceConfig{{Address: 0x1d, Registers: []int{0xe5}}}}},
	})
	bus, err := b.I2CByName("main")
	test.That(t, err, test.ShouldBeNil)

	handle, err := bus.OpenHandle(0x1d)
	test.That(t, err, test.ShouldBeNil)
	id, err := handle.ReadByteData(ctx, 0x00)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, id, test.ShouldEqual, 0xe5)

	test.That(t, handle.WriteBlockData(ctx, 0x32, []byte{1, 2, 3}), test.ShouldBeNil)
	data, err := handle.ReadBlockData(ctx, 0x32, 3)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, data, test.ShouldResemble, []byte{1, 2, 3})

	test.That(t, handle.Write(ctx, []byte{0x33}), test.ShouldBeNil)
	data, err = handle.Read(ctx, 2)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, data, test.ShouldResemble, []byte{2, 3})

	test.That(t, handle.WriteByteData(ctx, 0x2d, 0x08), test.ShouldBeNil)
	test.That(t, b.I2Cs["main"].Device(0x1d).Register(0x2d), test.ShouldEqual, 0x08)

	test.That(t, handle.Close(), test.ShouldBeNil)
	_, err = handle.ReadByteData(ctx, 0)
	test.That(t, err, test.ShouldNotBeNil)

	_, err = bus.OpenHandle(0x80)
	test.That(t, err, test.ShouldNotBeNil)
}

func TestFakeSPI(t *testing.T) {
	ctx := context.Background()
	b, _ := newTestBoard(t, &Config{SPIs: []board.SPIConfig{{Name: "main"}}})
	b.SPIs["main"].Responder = func(chipSelect string, tx []byte) []byte {
		return []byte{0x12, 0x34}
	}
	bus, err := b.SPIByName("main")
	test.That(t, err, test.ShouldBeNil)
	handle, err := bus.OpenHandle()
	test.That(t, err, test.ShouldBeNil)

	rx, err := handle.Xfer(ctx, 1000000, "0", 3, []byte{0x06, 0})
	test.That(t, err, test.ShouldBeNil)
	test.That(t, rx, test.ShouldResemble, []byte{0x12, 0x34})
	_, err = handle.Xfer(ctx, 1000000, "0", 4, []byte{0x06, 0})
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, b.SPIs["main"].Transfers(), test.ShouldResemble, [][]byte{{0x06, 0}})

	test.That(t, handle.Close(), test.ShouldBeNil)
	_, err = handle.Xfer(ctx, 1000000, "0", 3, []byte{0})
	test.That(t, err, test.ShouldNotBeNil)
}

func TestConfigValidate(t *testing.T) {
	validConfig := Config{}

	validConfig.Analogs = []board.AnalogConfig{{}}
	_, err := validConfig.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `path.analogs.0`)
	test.That(t, err.Error(), test.ShouldContainSubstring, "name")

	validConfig.Analogs = []board.AnalogConfig{{Name: "bar"}}
	_, err = validConfig.Validate("path")
	test.That(t, err, test.ShouldBeNil)

	validConfig.Counters = []board.CounterConfig{{Name: "bar"}}
	_, err = validConfig.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `path.counters.0`)
	test.That(t, err.Error(), test.ShouldContainSubstring, "up_pin")

	validConfig.Counters = []board.CounterConfig{{Name: "bar", UpPin: "3"}}
	_, err = validConfig.Validate("path")
	test.That(t, err, test.ShouldBeNil)

	validConfig.I2Cs = []I2CConfig{{Name: "main", Devices: []I2CDeviceConfig{{Address: 0x100}}}}
	_, err = validConfig.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, `path.i2cs.0.devices.0`)

	validConfig.I2Cs = nil
	validConfig.Echoes = []EchoConfig{{TriggerPin: "9"}}
	_, err = validConfig.Validate("path")
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "counter")

	validConfig.Echoes = nil
	validConfig.FailNew = true
	_, err = validConfig.Validate("path")
	test.That(t, err, test.ShouldBeError, "whoops")
}

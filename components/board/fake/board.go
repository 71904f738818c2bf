// Package fake implements a fake board.
package fake

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/flashrobotics/devices/components/board"
	"github.com/flashrobotics/devices/logging"
	"github.com/flashrobotics/devices/resource"
	"github.com/flashrobotics/devices/utils"
)

// analogStepSize is the resolution of fake analog inputs in volts.
const analogStepSize = 0.001

// A Config describes the configuration of a fake board and all of its connected parts.
type Config struct {
	Analogs  []board.AnalogConfig  `json:"analogs,omitempty"`
	Counters []board.CounterConfig `json:"counters,omitempty"`
	I2Cs     []I2CConfig           `json:"i2cs,omitempty"`
	SPIs     []board.SPIConfig     `json:"spis,omitempty"`
	Echoes   []EchoConfig          `json:"echoes,omitempty"`
	FailNew  bool                  `json:"fail_new"`
}

// I2CConfig describes a fake I2C bus and the devices answering on it.
type I2CConfig struct {
	Name    string            `json:"name"`
	Devices []I2CDeviceConfig `json:"devices,omitempty"`
}

// I2CDeviceConfig presets the register contents of a device, starting at register 0.
type I2CDeviceConfig struct {
	Address   int   `json:"address"`
	Registers []int `json:"registers,omitempty"`
}

// EchoConfig makes a counter see a high pulse of EchoMicros whenever a pulse on TriggerPin ends.
type EchoConfig struct {
	TriggerPin string `json:"trigger_pin"`
	Counter    string `json:"counter"`
	EchoMicros int    `json:"echo_us"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) ([]string, error) {
	if err := board.ValidateParts(path, conf.SPIs, nil, conf.Analogs, conf.Counters); err != nil {
		return nil, err
	}
	for idx, c := range conf.I2Cs {
		if c.Name == "" {
			return nil, goutils.NewConfigValidationFieldRequiredError(fmt.Sprintf("%s.%s.%d", path, "i2cs", idx), "name")
		}
		for devIdx, dev := range c.Devices {
			if dev.Address < 0 || dev.Address > 0x7f {
				return nil, goutils.NewConfigValidationError(
					fmt.Sprintf("%s.%s.%d.devices.%d", path, "i2cs", idx, devIdx),
					errors.Errorf("address %#x is not a 7 bit I2C address", dev.Address))
			}
		}
	}
	for idx, c := range conf.Echoes {
		echoPath := fmt.Sprintf("%s.%s.%d", path, "echoes", idx)
		if c.TriggerPin == "" {
			return nil, goutils.NewConfigValidationFieldRequiredError(echoPath, "trigger_pin")
		}
		if c.Counter == "" {
			return nil, goutils.NewConfigValidationFieldRequiredError(echoPath, "counter")
		}
	}

	if conf.FailNew {
		return nil, errors.New("whoops")
	}

	return nil, nil
}

// Model is the fake board model.
var Model = resource.DefaultModelFamily.WithModel("fake")

func init() {
	resource.RegisterComponent(
		board.API,
		Model,
		resource.Registration[board.Board, *Config]{
			Constructor: func(
				ctx context.Context,
				_ resource.Dependencies,
				cfg resource.Config,
				logger logging.Logger,
			) (board.Board, error) {
				return NewBoard(ctx, cfg, logger)
			},
		})
}

// A Board provides in-memory parts in order to implement a Board.
type Board struct {
	resource.Named

	mu         sync.RWMutex
	Analogs    map[string]*Analog
	Counters   map[string]*Counter
	GPIOPins   map[string]*GPIOPin
	I2Cs       map[string]*I2C
	SPIs       map[string]*SPI
	echoes     map[string]EchoConfig
	clk        clock.Clock
	logger     logging.Logger
	CloseCount int
}

// NewBoard returns a new fake board using the wall clock.
func NewBoard(ctx context.Context, conf resource.Config, logger logging.Logger) (*Board, error) {
	return NewBoardWithClock(ctx, conf, clock.New(), logger)
}

// NewBoardWithClock returns a new fake board whose counters timestamp edges with clk.
func NewBoardWithClock(
	ctx context.Context,
	conf resource.Config,
	clk clock.Clock,
	logger logging.Logger,
) (*Board, error) {
	newConf, err := resource.NativeConfig[*Config](conf)
	if err != nil {
		return nil, err
	}

	b := &Board{
		Named:    conf.ResourceName().AsNamed(),
		Analogs:  map[string]*Analog{},
		Counters: map[string]*Counter{},
		GPIOPins: map[string]*GPIOPin{},
		I2Cs:     map[string]*I2C{},
		SPIs:     map[string]*SPI{},
		echoes:   map[string]EchoConfig{},
		clk:      clk,
		logger:   logger,
	}

	for _, c := range newConf.Analogs {
		vref := c.VRef
		if vref == 0 {
			vref = board.DefaultVRef
		}
		b.Analogs[c.Name] = &Analog{max: vref}
	}
	for _, c := range newConf.Counters {
		b.Counters[c.Name] = &Counter{EdgeCounter: board.NewEdgeCounter(), clk: clk}
	}
	for _, c := range newConf.I2Cs {
		bus := &I2C{devices: map[byte]*I2CDevice{}}
		for _, dev := range c.Devices {
			d := bus.Device(byte(dev.Address))
			for reg, val := range dev.Registers {
				if reg < len(d.registers) {
					d.registers[reg] = byte(val)
				}
			}
		}
		b.I2Cs[c.Name] = bus
	}
	for _, c := range newConf.SPIs {
		b.SPIs[c.Name] = &SPI{}
	}
	for _, c := range newConf.Echoes {
		if _, ok := b.Counters[c.Counter]; !ok {
			return nil, errors.Errorf("echo on trigger pin %q refers to unknown counter %q", c.TriggerPin, c.Counter)
		}
		b.echoes[c.TriggerPin] = c
	}

	logger.Debugw("fake board ready",
		"analogs", len(b.Analogs), "counters", len(b.Counters), "i2cs", len(b.I2Cs), "spis", len(b.SPIs))
	return b, nil
}

// AnalogByName returns the analog input by the given name if it exists.
func (b *Board) AnalogByName(name string) (board.Analog, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	a, ok := b.Analogs[name]
	if !ok {
		return nil, errors.Errorf("can't find Analog (%s)", name)
	}
	return a, nil
}

// CounterByName returns the counter by the given name if it exists.
func (b *Board) CounterByName(name string) (board.Counter, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.Counters[name]
	if !ok {
		return nil, errors.Errorf("can't find Counter (%s)", name)
	}
	return c, nil
}

// GPIOPinByName returns the GPIO pin by the given name, creating it on first use.
func (b *Board) GPIOPinByName(name string) (board.GPIOPin, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	p, ok := b.GPIOPins[name]
	if !ok {
		p = &GPIOPin{}
		if echo, ok := b.echoes[name]; ok {
			counter := b.Counters[echo.Counter]
			width := time.Duration(echo.EchoMicros) * time.Microsecond
			p.onFall = func() { counter.SimulatePulse(width) }
		}
		b.GPIOPins[name] = p
	}
	return p, nil
}

// I2CByName returns the I2C bus by the given name if it exists.
func (b *Board) I2CByName(name string) (board.I2C, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	bus, ok := b.I2Cs[name]
	if !ok {
		return nil, errors.Errorf("can't find I2C bus (%s)", name)
	}
	return bus, nil
}

// SPIByName returns the SPI bus by the given name if it exists.
func (b *Board) SPIByName(name string) (board.SPI, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	bus, ok := b.SPIs[name]
	if !ok {
		return nil, errors.Errorf("can't find SPI bus (%s)", name)
	}
	return bus, nil
}

// Close attempts to cleanly close each part of the board.
func (b *Board) Close(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.CloseCount++
	return nil
}

// An Analog reads back the voltage it was last set to, in millivolt steps.
type Analog struct {
	mu    sync.RWMutex
	value int
	max   float64
}

// Read returns the current value.
func (a *Analog) Read(ctx context.Context, extra map[string]interface{}) (board.AnalogValue, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return board.AnalogValue{Value: a.value, Min: 0, Max: float32(a.max), StepSize: analogStepSize}, nil
}

// SetVoltage sets the voltage later reads report, clamped to the analog's range.
func (a *Analog) SetVoltage(volts float64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	volts = utils.Clamp(volts, 0, a.max)
	a.value = int(math.Round(volts / analogStepSize))
}

// A Counter is an EdgeCounter whose edges are injected by tests or by an echo pin.
type Counter struct {
	*board.EdgeCounter
	clk clock.Clock
}

// Edge records a single edge on the given source at the current clock time.
func (c *Counter) Edge(source board.CounterSource, high bool) {
	c.Tick(source, high, uint64(c.clk.Now().UnixNano()))
}

// SimulatePulse records a high pulse of the given width on the up source ending now.
func (c *Counter) SimulatePulse(width time.Duration) {
	end := c.clk.Now().UnixNano()
	c.Tick(board.UpSource, true, uint64(end-width.Nanoseconds()))
	c.Tick(board.UpSource, false, uint64(end))
}

// SimulateEdges records n rising edges on the given source, spacing apart, the last one now.
func (c *Counter) SimulateEdges(source board.CounterSource, n int, spacing time.Duration) {
	end := c.clk.Now().UnixNano()
	for i := n - 1; i >= 0; i-- {
		c.Tick(source, true, uint64(end-int64(i)*spacing.Nanoseconds()))
	}
}

// A GPIOPin reads back the same set values and keeps a history of levels written to it.
type GPIOPin struct {
	high    bool
	pwm     float64
	pwmFreq uint
	writes  []bool
	onFall  func()

	mu sync.Mutex
}

// Set sets the pin to either low or high.
func (gp *GPIOPin) Set(ctx context.Context, high bool, extra map[string]interface{}) error {
	gp.mu.Lock()
	fell := gp.high && !high
	gp.high = high
	gp.pwm = 0
	gp.writes = append(gp.writes, high)
	onFall := gp.onFall
	gp.mu.Unlock()

	if fell && onFall != nil {
		onFall()
	}
	return nil
}

// Get gets the high/low state of the pin.
func (gp *GPIOPin) Get(ctx context.Context, extra map[string]interface{}) (bool, error) {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	return gp.high, nil
}

// Writes returns every level written with Set, oldest first.
func (gp *GPIOPin) Writes() []bool {
	gp.mu.Lock()
	defer gp.mu.Unlock()
	out := make([]bool, len(gp.writes))
	copy(out, gp.writes)
	return out
}

// PWM gets the pin's given duty cycle.
func (gp *GPIOPin) PWM(ctx context.Context, extra map[string]interface{}) (float64, error) {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	return gp.pwm, nil
}

// SetPWM sets the pin to the given duty cycle.
func (gp *GPIOPin) SetPWM(ctx context.Context, dutyCyclePct float64, extra map[string]interface{}) error {
	if dutyCyclePct < 0 || dutyCyclePct > 1 {
		return errors.Errorf("duty cycle must be in [0, 1], got %v", dutyCyclePct)
	}
	gp.mu.Lock()
	defer gp.mu.Unlock()

	gp.pwm = dutyCyclePct
	return nil
}

// PWMFreq gets the PWM frequency of the pin.
func (gp *GPIOPin) PWMFreq(ctx context.Context, extra map[string]interface{}) (uint, error) {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	return gp.pwmFreq, nil
}

// SetPWMFreq sets the given pin to the given PWM frequency.
func (gp *GPIOPin) SetPWMFreq(ctx context.Context, freqHz uint, extra map[string]interface{}) error {
	gp.mu.Lock()
	defer gp.mu.Unlock()

	gp.pwmFreq = freqHz
	return nil
}

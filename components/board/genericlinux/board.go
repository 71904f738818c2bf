// Package genericlinux implements a board for Linux hosts using periph.io for GPIO, I2C and SPI.
// Analog inputs are MCP3008 channels on a configured SPI bus.
package genericlinux

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/host/v3"

	"github.com/flashrobotics/devices/components/board"
	"github.com/flashrobotics/devices/components/board/pinwrappers"
	"github.com/flashrobotics/devices/logging"
	"github.com/flashrobotics/devices/resource"
)

// Model is the generic Linux board model.
var Model = resource.DefaultModelFamily.WithModel("genericlinux")

// edgeWaitTimeout bounds each wait for an edge so counter watchers notice shutdown.
const edgeWaitTimeout = 100 * time.Millisecond

func init() {
	resource.RegisterComponent(
		board.API,
		Model,
		resource.Registration[board.Board, *Config]{
			Constructor: func(
				ctx context.Context,
				_ resource.Dependencies,
				conf resource.Config,
				logger logging.Logger,
			) (board.Board, error) {
				return NewBoard(ctx, conf, logger)
			},
		})
}

// Board is a Linux board whose parts are found through the periph.io registries.
type Board struct {
	resource.Named

	mu       sync.RWMutex
	spis     map[string]*spiBus
	i2cs     map[string]*i2cBus
	analogs  map[string]board.Analog
	counters map[string]*counterWatcher
	pwms     map[string]pwmSetting
	logger   logging.Logger

	// pinByName resolves a pin name to a periph pin. It is gpioreg.ByName outside of tests.
	pinByName func(name string) gpio.PinIO

	workers                 *goutils.StoppableWorkers
	cancelCtx               context.Context
	cancelFunc              func()
	activeBackgroundWorkers sync.WaitGroup
}

type pwmSetting struct {
	dutyCycle gpio.Duty
	frequency physic.Frequency
}

// counterWatcher feeds an EdgeCounter from the edges of up to two pins.
type counterWatcher struct {
	*board.EdgeCounter
	up   gpio.PinIO
	down gpio.PinIO
}

// NewBoard initializes the periph host drivers and builds every configured part.
func NewBoard(ctx context.Context, conf resource.Config, logger logging.Logger) (*Board, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "failed to initialize periph host drivers")
	}
	return newBoard(ctx, conf, gpioreg.ByName, logger)
}

func newBoard(
	ctx context.Context,
	conf resource.Config,
	pinByName func(string) gpio.PinIO,
	logger logging.Logger,
) (*Board, error) {
	newConf, err := resource.NativeConfig[*Config](conf)
	if err != nil {
		return nil, err
	}

	cancelCtx, cancelFunc := context.WithCancel(context.Background())
	b := &Board{
		Named:      conf.ResourceName().AsNamed(),
		spis:       make(map[string]*spiBus, len(newConf.SPIs)),
		i2cs:       make(map[string]*i2cBus, len(newConf.I2Cs)),
		analogs:    make(map[string]board.Analog, len(newConf.Analogs)),
		counters:   make(map[string]*counterWatcher, len(newConf.Counters)),
		pwms:       map[string]pwmSetting{},
		logger:     logger,
		pinByName:  pinByName,
		workers:    goutils.NewBackgroundStoppableWorkers(),
		cancelCtx:  cancelCtx,
		cancelFunc: cancelFunc,
	}

	for _, c := range newConf.SPIs {
		b.spis[c.Name] = &spiBus{bus: c.BusSelect}
	}
	for _, c := range newConf.I2Cs {
		b.i2cs[c.Name] = newI2CBus(c.Bus)
	}
	for _, c := range newConf.Analogs {
		analog, err := b.newAnalog(c)
		if err != nil {
			return nil, multierr.Combine(err, b.Close(ctx))
		}
		b.analogs[c.Name] = analog
	}
	for _, c := range newConf.Counters {
		counter, err := b.newCounter(c)
		if err != nil {
			return nil, multierr.Combine(err, b.Close(ctx))
		}
		b.counters[c.Name] = counter
	}
	return b, nil
}

func (b *Board) newAnalog(c board.AnalogConfig) (board.Analog, error) {
	channel, err := strconv.Atoi(c.Pin)
	if err != nil {
		return nil, errors.Errorf("bad analog pin (%s)", c.Pin)
	}
	bus, ok := b.spis[c.SPIBus]
	if !ok {
		return nil, errors.Errorf("can't find SPI bus (%s) requested by analog %q", c.SPIBus, c.Name)
	}
	vref := c.VRef
	if vref == 0 {
		vref = board.DefaultVRef
	}
	mcp, err := board.NewMCP3008Analog(bus, c.ChipSelect, channel, vref)
	if err != nil {
		return nil, err
	}
	if c.AverageOverMillis <= 0 {
		return mcp, nil
	}
	return pinwrappers.SmoothAnalogReader(mcp, c, b.logger.Sublogger(c.Name)), nil
}

func (b *Board) watchPin(pin gpio.PinIO) error {
	if err := pin.In(gpio.PullNoChange, gpio.BothEdges); err != nil {
		return errors.Wrapf(err, "failed to watch edges on pin %q", pin.Name())
	}
	return nil
}

func (b *Board) newCounter(c board.CounterConfig) (*counterWatcher, error) {
	counter := &counterWatcher{EdgeCounter: board.NewEdgeCounter()}
	counter.up = b.pinByName(c.UpPin)
	if counter.up == nil {
		return nil, errors.Errorf("no pin found for %q", c.UpPin)
	}
	if err := b.watchPin(counter.up); err != nil {
		return nil, err
	}
	b.workers.Add(func(ctx context.Context) {
		b.edgeLoop(ctx, counter, board.UpSource, counter.up)
	})

	if c.DownPin != "" {
		counter.down = b.pinByName(c.DownPin)
		if counter.down == nil {
			return nil, errors.Errorf("no pin found for %q", c.DownPin)
		}
		if err := b.watchPin(counter.down); err != nil {
			return nil, err
		}
		b.workers.Add(func(ctx context.Context) {
			b.edgeLoop(ctx, counter, board.DownSource, counter.down)
		})
	}
	return counter, nil
}

func (b *Board) edgeLoop(ctx context.Context, counter *counterWatcher, source board.CounterSource, pin gpio.PinIO) {
	for {
		if ctx.Err() != nil {
			return
		}
		if !pin.WaitForEdge(edgeWaitTimeout) {
			continue
		}
		counter.Tick(source, pin.Read() == gpio.High, uint64(time.Now().UnixNano()))
	}
}

// AnalogByName returns the analog input by the given name if it exists.
func (b *Board) AnalogByName(name string) (board.Analog, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	a, ok := b.analogs[name]
	if !ok {
		return nil, errors.Errorf("can't find Analog (%s)", name)
	}
	return a, nil
}

// CounterByName returns the counter by the given name if it exists.
func (b *Board) CounterByName(name string) (board.Counter, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.counters[name]
	if !ok {
		return nil, errors.Errorf("can't find Counter (%s)", name)
	}
	return c, nil
}

// I2CByName returns the I2C bus by the given name if it exists.
func (b *Board) I2CByName(name string) (board.I2C, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	bus, ok := b.i2cs[name]
	if !ok {
		return nil, errors.Errorf("can't find I2C bus (%s)", name)
	}
	return bus, nil
}

// SPIByName returns the SPI bus by the given name if it exists.
func (b *Board) SPIByName(name string) (board.SPI, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	bus, ok := b.spis[name]
	if !ok {
		return nil, errors.Errorf("can't find SPI bus (%s)", name)
	}
	return bus, nil
}

// GPIOPinByName returns the periph pin registered under the given name.
func (b *Board) GPIOPinByName(pinName string) (board.GPIOPin, error) {
	pin := b.pinByName(pinName)
	if pin == nil {
		return nil, errors.Errorf("no global pin found for %q", pinName)
	}
	return periphGpioPin{b, pin, pinName}, nil
}

type periphGpioPin struct {
	b       *Board
	pin     gpio.PinIO
	pinName string
}

func (gp periphGpioPin) Set(ctx context.Context, high bool, extra map[string]interface{}) error {
	gp.b.mu.Lock()
	defer gp.b.mu.Unlock()

	delete(gp.b.pwms, gp.pinName)

	return gp.set(high)
}

// set drives the pin without touching the board's pwms map, so the software PWM loop
// can toggle a pin while it is still treated as a PWM pin.
func (gp periphGpioPin) set(high bool) error {
	l := gpio.Low
	if high {
		l = gpio.High
	}
	return gp.pin.Out(l)
}

func (gp periphGpioPin) Get(ctx context.Context, extra map[string]interface{}) (bool, error) {
	return gp.pin.Read() == gpio.High, nil
}

func (gp periphGpioPin) PWM(ctx context.Context, extra map[string]interface{}) (float64, error) {
	gp.b.mu.RLock()
	defer gp.b.mu.RUnlock()

	pwm, ok := gp.b.pwms[gp.pinName]
	if !ok {
		return 0, errors.Errorf("missing pin %s", gp.pinName)
	}
	return float64(pwm.dutyCycle) / float64(gpio.DutyMax), nil
}

func (gp periphGpioPin) SetPWM(ctx context.Context, dutyCyclePct float64, extra map[string]interface{}) error {
	if dutyCyclePct < 0 || dutyCyclePct > 1 {
		return errors.Errorf("duty cycle must be in [0, 1], got %v", dutyCyclePct)
	}
	gp.b.mu.Lock()
	defer gp.b.mu.Unlock()

	last, alreadySet := gp.b.pwms[gp.pinName]
	last.dutyCycle = gpio.Duty(dutyCyclePct * float64(gpio.DutyMax))
	gp.b.pwms[gp.pinName] = last
	return gp.apply(last, alreadySet)
}

func (gp periphGpioPin) PWMFreq(ctx context.Context, extra map[string]interface{}) (uint, error) {
	gp.b.mu.RLock()
	defer gp.b.mu.RUnlock()

	return uint(gp.b.pwms[gp.pinName].frequency / physic.Hertz), nil
}

func (gp periphGpioPin) SetPWMFreq(ctx context.Context, freqHz uint, extra map[string]interface{}) error {
	gp.b.mu.Lock()
	defer gp.b.mu.Unlock()

	last, alreadySet := gp.b.pwms[gp.pinName]
	last.frequency = physic.Hertz * physic.Frequency(freqHz)
	gp.b.pwms[gp.pinName] = last
	return gp.apply(last, alreadySet)
}

// apply expects the board lock to be held. Pins without hardware PWM fall back to a
// software loop, started once per pin.
func (gp periphGpioPin) apply(setting pwmSetting, alreadySet bool) error {
	if setting.frequency == 0 {
		return nil
	}
	err := gp.pin.PWM(setting.dutyCycle, setting.frequency)
	if err == nil || alreadySet {
		return nil
	}
	gp.b.logger.Debugw("hardware pwm unavailable; using software pwm", "pin_name", gp.pinName, "error", err)
	gp.b.startSoftwarePWMLoop(gp)
	return nil
}

// expects to already have lock acquired.
func (b *Board) startSoftwarePWMLoop(gp periphGpioPin) {
	b.activeBackgroundWorkers.Add(1)
	goutils.ManagedGo(func() {
		b.softwarePWMLoop(b.cancelCtx, gp)
	}, b.activeBackgroundWorkers.Done)
}

func (b *Board) softwarePWMLoop(ctx context.Context, gp periphGpioPin) {
	for {
		cont := func() bool {
			b.mu.RLock()
			pwmSetting, ok := b.pwms[gp.pinName]
			b.mu.RUnlock()
			if !ok {
				b.logger.Debug("pwm setting deleted; stopping")
				return false
			}

			if pwmSetting.frequency == 0 {
				return goutils.SelectContextOrWait(ctx, edgeWaitTimeout)
			}
			period := pwmSetting.frequency.Period()
			onPeriod := time.Duration(
				int64((float64(pwmSetting.dutyCycle) / float64(gpio.DutyMax)) * float64(period)),
			)
			if onPeriod > 0 {
				if err := gp.set(true); err != nil {
					b.logger.Errorw("error setting pin", "pin_name", gp.pinName, "error", err)
					return true
				}
				if !goutils.SelectContextOrWait(ctx, onPeriod) {
					return false
				}
			}
			if err := gp.set(false); err != nil {
				b.logger.Errorw("error setting pin", "pin_name", gp.pinName, "error", err)
				return true
			}
			return goutils.SelectContextOrWait(ctx, period-onPeriod)
		}()
		if !cont {
			return
		}
	}
}

// Close stops every background loop, releases counter pins and closes open I2C buses.
func (b *Board) Close(ctx context.Context) error {
	b.mu.Lock()
	b.cancelFunc()
	b.mu.Unlock()
	b.activeBackgroundWorkers.Wait()
	b.workers.Stop()

	var err error
	for _, analog := range b.analogs {
		if smoother, ok := analog.(*pinwrappers.AnalogSmoother); ok {
			err = multierr.Combine(err, smoother.Close(ctx))
		}
	}
	for _, counter := range b.counters {
		err = multierr.Combine(err, counter.up.Halt())
		if counter.down != nil {
			err = multierr.Combine(err, counter.down.Halt())
		}
	}
	for _, bus := range b.i2cs {
		err = multierr.Combine(err, bus.Close())
	}
	return err
}

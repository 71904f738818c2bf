// Package inject provides fakes whose behavior is injected per test through XxxFunc fields.
package inject

import (
	"context"
	"time"

	"github.com/flashrobotics/devices/components/board"
	"github.com/flashrobotics/devices/resource"
)

// Board is an injected board.
type Board struct {
	board.Board
	name              resource.Name
	AnalogByNameFunc  func(name string) (board.Analog, error)
	CounterByNameFunc func(name string) (board.Counter, error)
	GPIOPinByNameFunc func(name string) (board.GPIOPin, error)
	I2CByNameFunc     func(name string) (board.I2C, error)
	SPIByNameFunc     func(name string) (board.SPI, error)
	CloseFunc         func(ctx context.Context) error
}

// NewBoard returns a new injected board.
func NewBoard(name string) *Board {
	return &Board{name: board.Named(name)}
}

// Name returns the name of the resource.
func (b *Board) Name() resource.Name {
	return b.name
}

// AnalogByName calls the injected AnalogByName or the real version.
func (b *Board) AnalogByName(name string) (board.Analog, error) {
	if b.AnalogByNameFunc == nil {
		return b.Board.AnalogByName(name)
	}
	return b.AnalogByNameFunc(name)
}

// CounterByName calls the injected CounterByName or the real version.
func (b *Board) CounterByName(name string) (board.Counter, error) {
	if b.CounterByNameFunc == nil {
		return b.Board.CounterByName(name)
	}
	return b.CounterByNameFunc(name)
}

// GPIOPinByName calls the injected GPIOPinByName or the real version.
func (b *Board) GPIOPinByName(name string) (board.GPIOPin, error) {
	if b.GPIOPinByNameFunc == nil {
		return b.Board.GPIOPinByName(name)
	}
	return b.GPIOPinByNameFunc(name)
}

// I2CByName calls the injected I2CByName or the real version.
func (b *Board) I2CByName(name string) (board.I2C, error) {
	if b.I2CByNameFunc == nil {
		return b.Board.I2CByName(name)
	}
	return b.I2CByNameFunc(name)
}

// SPIByName calls the injected SPIByName or the real version.
func (b *Board) SPIByName(name string) (board.SPI, error) {
	if b.SPIByNameFunc == nil {
		return b.Board.SPIByName(name)
	}
	return b.SPIByNameFunc(name)
}

// Close calls the injected Close or the real version.
func (b *Board) Close(ctx context.Context) error {
	if b.CloseFunc == nil {
		if b.Board == nil {
			return nil
		}
		return b.Board.Close(ctx)
	}
	return b.CloseFunc(ctx)
}

// GPIOPin is an injected GPIOPin.
type GPIOPin struct {
	board.GPIOPin

	SetFunc        func(ctx context.Context, high bool, extra map[string]interface{}) error
	GetFunc        func(ctx context.Context, extra map[string]interface{}) (bool, error)
	PWMFunc        func(ctx context.Context, extra map[string]interface{}) (float64, error)
	SetPWMFunc     func(ctx context.Context, dutyCyclePct float64, extra map[string]interface{}) error
	PWMFreqFunc    func(ctx context.Context, extra map[string]interface{}) (uint, error)
	SetPWMFreqFunc func(ctx context.Context, freqHz uint, extra map[string]interface{}) error
}

// Set calls the injected Set or the real version.
func (gp *GPIOPin) Set(ctx context.Context, high bool, extra map[string]interface{}) error {
	if gp.SetFunc == nil {
		return gp.GPIOPin.Set(ctx, high, extra)
	}
	return gp.SetFunc(ctx, high, extra)
}

// Get calls the injected Get or the real version.
func (gp *GPIOPin) Get(ctx context.Context, extra map[string]interface{}) (bool, error) {
	if gp.GetFunc == nil {
		return gp.GPIOPin.Get(ctx, extra)
	}
	return gp.GetFunc(ctx, extra)
}

// PWM calls the injected PWM or the real version.
func (gp *GPIOPin) PWM(ctx context.Context, extra map[string]interface{}) (float64, error) {
	if gp.PWMFunc == nil {
		return gp.GPIOPin.PWM(ctx, extra)
	}
	return gp.PWMFunc(ctx, extra)
}

// SetPWM calls the injected SetPWM or the real version.
func (gp *GPIOPin) SetPWM(ctx context.Context, dutyCyclePct float64, extra map[string]interface{}) error {
	if gp.SetPWMFunc == nil {
		return gp.GPIOPin.SetPWM(ctx, dutyCyclePct, extra)
	}
	return gp.SetPWMFunc(ctx, dutyCyclePct, extra)
}

// PWMFreq calls the injected PWMFreq or the real version.
func (gp *GPIOPin) PWMFreq(ctx context.Context, extra map[string]interface{}) (uint, error) {
	if gp.PWMFreqFunc == nil {
		return gp.GPIOPin.PWMFreq(ctx, extra)
	}
	return gp.PWMFreqFunc(ctx, extra)
}

// SetPWMFreq calls the injected SetPWMFreq or the real version.
func (gp *GPIOPin) SetPWMFreq(ctx context.Context, freqHz uint, extra map[string]interface{}) error {
	if gp.SetPWMFreqFunc == nil {
		return gp.GPIOPin.SetPWMFreq(ctx, freqHz, extra)
	}
	return gp.SetPWMFreqFunc(ctx, freqHz, extra)
}

// Analog is an injected analog input.
type Analog struct {
	board.Analog
	ReadFunc func(ctx context.Context, extra map[string]interface{}) (board.AnalogValue, error)
}

// Read calls the injected Read or the real version.
func (a *Analog) Read(ctx context.Context, extra map[string]interface{}) (board.AnalogValue, error) {
	if a.ReadFunc == nil {
		return a.Analog.Read(ctx, extra)
	}
	return a.ReadFunc(ctx, extra)
}

// Counter is an injected edge counter.
type Counter struct {
	board.Counter
	CountFunc             func(ctx context.Context, extra map[string]interface{}) (int64, error)
	ResetFunc             func(ctx context.Context, extra map[string]interface{}) error
	PeriodFunc            func(ctx context.Context, extra map[string]interface{}) (time.Duration, error)
	DirectionFunc         func(ctx context.Context, extra map[string]interface{}) (bool, error)
	SetSemiPeriodModeFunc func(ctx context.Context, enabled bool, extra map[string]interface{}) error
}

// Count calls the injected Count or the real version.
func (c *Counter) Count(ctx context.Context, extra map[string]interface{}) (int64, error) {
	if c.CountFunc == nil {
		return c.Counter.Count(ctx, extra)
	}
	return c.CountFunc(ctx, extra)
}

// Reset calls the injected Reset or the real version.
func (c *Counter) Reset(ctx context.Context, extra map[string]interface{}) error {
	if c.ResetFunc == nil {
		return c.Counter.Reset(ctx, extra)
	}
	return c.ResetFunc(ctx, extra)
}

// Period calls the injected Period or the real version.
func (c *Counter) Period(ctx context.Context, extra map[string]interface{}) (time.Duration, error) {
	if c.PeriodFunc == nil {
		return c.Counter.Period(ctx, extra)
	}
	return c.PeriodFunc(ctx, extra)
}

// Direction calls the injected Direction or the real version.
func (c *Counter) Direction(ctx context.Context, extra map[string]interface{}) (bool, error) {
	if c.DirectionFunc == nil {
		return c.Counter.Direction(ctx, extra)
	}
	return c.DirectionFunc(ctx, extra)
}

// SetSemiPeriodMode calls the injected SetSemiPeriodMode or the real version.
func (c *Counter) SetSemiPeriodMode(ctx context.Context, enabled bool, extra map[string]interface{}) error {
	if c.SetSemiPeriodModeFunc == nil {
		return c.Counter.SetSemiPeriodMode(ctx, enabled, extra)
	}
	return c.SetSemiPeriodModeFunc(ctx, enabled, extra)
}

package inject

import (
	"context"

	"github.com/flashrobotics/devices/components/motor"
	"github.com/flashrobotics/devices/resource"
)

// Motor is an injected motor.
type Motor struct {
	motor.Motor
	name           resource.Name
	SetPowerFunc   func(ctx context.Context, powerPct float64, extra map[string]interface{}) error
	StopFunc       func(ctx context.Context, extra map[string]interface{}) error
	IsPoweredFunc  func(ctx context.Context, extra map[string]interface{}) (bool, float64, error)
	PropertiesFunc func(ctx context.Context, extra map[string]interface{}) (motor.Properties, error)
	CloseFunc      func(ctx context.Context) error
}

// NewMotor returns a new injected motor.
func NewMotor(name string) *Motor {
	return &Motor{name: motor.Named(name)}
}

// Name returns the name of the resource.
func (m *Motor) Name() resource.Name {
	return m.name
}

// SetPower calls the injected Power or the real version.
func (m *Motor) SetPower(ctx context.Context, powerPct float64, extra map[string]interface{}) error {
	if m.SetPowerFunc == nil {
		return m.Motor.SetPower(ctx, powerPct, extra)
	}
	return m.SetPowerFunc(ctx, powerPct, extra)
}

// Stop calls the injected Off or the real version.
func (m *Motor) Stop(ctx context.Context, extra map[string]interface{}) error {
	if m.StopFunc == nil {
		return m.Motor.Stop(ctx, extra)
	}
	return m.StopFunc(ctx, extra)
}

// IsPowered calls the injected IsPowered or the real version.
func (m *Motor) IsPowered(ctx context.Context, extra map[string]interface{}) (bool, float64, error) {
	if m.IsPoweredFunc == nil {
		return m.Motor.IsPowered(ctx, extra)
	}
	return m.IsPoweredFunc(ctx, extra)
}

// Properties calls the injected Properties or the real version.
func (m *Motor) Properties(ctx context.Context, extra map[string]interface{}) (motor.Properties, error) {
	if m.PropertiesFunc == nil {
		return m.Motor.Properties(ctx, extra)
	}
	return m.PropertiesFunc(ctx, extra)
}

// Close calls the injected Close or the real version.
func (m *Motor) Close(ctx context.Context) error {
	if m.CloseFunc == nil {
		if m.Motor == nil {
			return nil
		}
		return m.Motor.Close(ctx)
	}
	return m.CloseFunc(ctx)
}

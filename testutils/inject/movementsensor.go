package inject

import (
	"context"

	"github.com/golang/geo/r3"

	"github.com/flashrobotics/devices/components/movementsensor"
	"github.com/flashrobotics/devices/resource"
)

// MovementSensor is an injected MovementSensor.
type MovementSensor struct {
	movementsensor.MovementSensor
	name                   resource.Name
	AngularVelocityFunc    func(ctx context.Context, extra map[string]interface{}) (r3.Vector, error)
	LinearAccelerationFunc func(ctx context.Context, extra map[string]interface{}) (r3.Vector, error)
	PropertiesFunc         func(ctx context.Context, extra map[string]interface{}) (*movementsensor.Properties, error)
	ReadingsFunc           func(ctx context.Context, extra map[string]interface{}) (map[string]interface{}, error)
	CloseFunc              func(ctx context.Context) error
}

// NewMovementSensor returns a new injected movement sensor.
func NewMovementSensor(name string) *MovementSensor {
	return &MovementSensor{name: movementsensor.Named(name)}
}

// Name returns the name of the resource.
func (i *MovementSensor) Name() resource.Name {
	return i.name
}

// AngularVelocity func or passthrough.
func (i *MovementSensor) AngularVelocity(ctx context.Context, extra map[string]interface{}) (r3.Vector, error) {
	if i.AngularVelocityFunc == nil {
		return i.MovementSensor.AngularVelocity(ctx, extra)
	}
	return i.AngularVelocityFunc(ctx, extra)
}

// LinearAcceleration func or passthrough.
func (i *MovementSensor) LinearAcceleration(ctx context.Context, extra map[string]interface{}) (r3.Vector, error) {
	if i.LinearAccelerationFunc == nil {
		return i.MovementSensor.LinearAcceleration(ctx, extra)
	}
	return i.LinearAccelerationFunc(ctx, extra)
}

// Properties func or passthrough.
func (i *MovementSensor) Properties(ctx context.Context, extra map[string]interface{}) (*movementsensor.Properties, error) {
	if i.PropertiesFunc == nil {
		return i.MovementSensor.Properties(ctx, extra)
	}
	return i.PropertiesFunc(ctx, extra)
}

// Readings func or passthrough.
func (i *MovementSensor) Readings(ctx context.Context, extra map[string]interface{}) (map[string]interface{}, error) {
	if i.ReadingsFunc == nil {
		return i.MovementSensor.Readings(ctx, extra)
	}
	return i.ReadingsFunc(ctx, extra)
}

// Close calls the injected Close or the real version.
func (i *MovementSensor) Close(ctx context.Context) error {
	if i.CloseFunc == nil {
		if i.MovementSensor == nil {
			return nil
		}
		return i.MovementSensor.Close(ctx)
	}
	return i.CloseFunc(ctx)
}

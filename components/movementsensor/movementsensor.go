// Package movementsensor defines the interface of a sensor reporting how its body moves:
// angular velocity and linear acceleration.
package movementsensor

import (
	"context"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"

	"github.com/flashrobotics/devices/resource"
	"github.com/flashrobotics/devices/robot"
)

// SubtypeName is a constant that identifies the component resource API string "movement_sensor".
const SubtypeName = "movement_sensor"

// API is a variable that identifies the component resource API.
var API = resource.APINamespaceWorkshop.WithComponentType(SubtypeName)

// Named is a helper for getting the named MovementSensor's typed resource name.
func Named(name string) resource.Name {
	return resource.NewName(API, name)
}

// Properties tells you what a MovementSensor supports.
type Properties struct {
	AngularVelocitySupported    bool
	LinearAccelerationSupported bool
}

// A MovementSensor reports information about the robot's direction, position and speed.
// Angular velocity is in degrees per second and linear acceleration in g.
type MovementSensor interface {
	resource.Resource
	AngularVelocity(ctx context.Context, extra map[string]interface{}) (r3.Vector, error)
	LinearAcceleration(ctx context.Context, extra map[string]interface{}) (r3.Vector, error)
	Properties(ctx context.Context, extra map[string]interface{}) (*Properties, error)
	Readings(ctx context.Context, extra map[string]interface{}) (map[string]interface{}, error)
}

var (
	// ErrMethodUnimplementedAngularVelocity returns error if the AngularVelocity method is unimplemented.
	ErrMethodUnimplementedAngularVelocity = errors.New("AngularVelocity Unimplemented")
	// ErrMethodUnimplementedLinearAcceleration returns error if the LinearAcceleration method is unimplemented.
	ErrMethodUnimplementedLinearAcceleration = errors.New("LinearAcceleration Unimplemented")
)

// FromDependencies is a helper for getting the named movementsensor from a collection of
// dependencies.
func FromDependencies(deps resource.Dependencies, name string) (MovementSensor, error) {
	return resource.FromDependencies[MovementSensor](deps, Named(name))
}

// FromRobot is a helper for getting the named MovementSensor from the given Robot.
func FromRobot(r robot.Robot, name string) (MovementSensor, error) {
	return robot.ResourceFromRobot[MovementSensor](r, Named(name))
}

// NamesFromRobot is a helper for getting all MovementSensor names from the given Robot.
func NamesFromRobot(r robot.Robot) []string {
	return robot.NamesByAPI(r, API)
}

// DefaultAPIReadings is a helper for getting all readings from a MovementSensor. Methods
// reporting themselves unimplemented are skipped.
func DefaultAPIReadings(ctx context.Context, g MovementSensor, extra map[string]interface{}) (map[string]interface{}, error) {
	readings := map[string]interface{}{}

	vel, err := g.AngularVelocity(ctx, extra)
	if err != nil {
		if !errors.Is(err, ErrMethodUnimplementedAngularVelocity) {
			return nil, err
		}
	} else {
		readings["angular_velocity"] = vel
	}

	la, err := g.LinearAcceleration(ctx, extra)
	if err != nil {
		if !errors.Is(err, ErrMethodUnimplementedLinearAcceleration) {
			return nil, err
		}
	} else {
		readings["linear_acceleration"] = la
	}

	return readings, nil
}

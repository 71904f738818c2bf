// Package motor defines machines that convert electricity into rotary motion.
package motor

import (
	"context"

	"github.com/flashrobotics/devices/resource"
	"github.com/flashrobotics/devices/robot"
)

// SubtypeName is a constant that identifies the component resource API string "motor".
const SubtypeName = "motor"

// API is a variable that identifies the component resource API.
var API = resource.APINamespaceWorkshop.WithComponentType(SubtypeName)

// A Motor represents a physical motor connected to a board.
//
// SetPower example:
//
//	myMotor, err := motor.FromRobot(machine, "left_drive")
//	// Set the motor power to 40% forwards.
//	myMotor.SetPower(context.Background(), 0.4, nil)
//
// IsPowered example:
//
//	// Check whether the motor is currently running.
//	powered, pct, err := myMotor.IsPowered(context.Background(), nil)
type Motor interface {
	resource.Resource

	// SetPower sets the percentage of power the motor should employ between -1 and 1.
	// Negative power corresponds to a backward direction of rotation
	SetPower(ctx context.Context, powerPct float64, extra map[string]interface{}) error

	// Stop stops the motor.
	Stop(ctx context.Context, extra map[string]interface{}) error

	// IsPowered returns whether or not the motor is currently on, and the percent power (between 0
	// and 1, if the motor is off then the percent power will be 0).
	IsPowered(ctx context.Context, extra map[string]interface{}) (bool, float64, error)

	// Properties returns whether or not the motor supports certain optional properties.
	Properties(ctx context.Context, extra map[string]interface{}) (Properties, error)
}

// Properties is a structure representing features
// of a motor.
type Properties struct {
	PositionReporting bool
}

// Named is a helper for getting the named motor's typed resource name.
func Named(name string) resource.Name {
	return resource.NewName(API, name)
}

// FromDependencies is a helper for getting the named motor from a collection of
// dependencies.
func FromDependencies(deps resource.Dependencies, name string) (Motor, error) {
	return resource.FromDependencies[Motor](deps, Named(name))
}

// FromRobot is a helper for getting the named motor from the given Robot.
func FromRobot(r robot.Robot, name string) (Motor, error) {
	return robot.ResourceFromRobot[Motor](r, Named(name))
}

// NamesFromRobot is a helper for getting all motor names from the given Robot.
func NamesFromRobot(r robot.Robot) []string {
	return robot.NamesByAPI(r, API)
}

// Package sensor defines an abstract sensing device that can provide measurement readings.
package sensor

import (
	"context"

	"github.com/flashrobotics/devices/resource"
	"github.com/flashrobotics/devices/robot"
)

// SubtypeName is a constant that identifies the component resource API string "sensor".
const SubtypeName = "sensor"

// API is a variable that identifies the component resource API.
var API = resource.APINamespaceWorkshop.WithComponentType(SubtypeName)

// Named is a helper for getting the named Sensor's typed resource name.
func Named(name string) resource.Name {
	return resource.NewName(API, name)
}

// A Sensor represents a general purpose sensors that can give arbitrary readings
// of some thing that it is sensing.
type Sensor interface {
	resource.Resource
	// Readings return data specific to the type of sensor and can be of any type.
	Readings(ctx context.Context, extra map[string]interface{}) (map[string]interface{}, error)
}

// FromDependencies is a helper for getting the named sensor from a collection of
// dependencies.
func FromDependencies(deps resource.Dependencies, name string) (Sensor, error) {
	return resource.FromDependencies[Sensor](deps, Named(name))
}

// FromRobot is a helper for getting the named Sensor from the given Robot.
func FromRobot(r robot.Robot, name string) (Sensor, error) {
	return robot.ResourceFromRobot[Sensor](r, Named(name))
}

// NamesFromRobot is a helper for getting all sensor names from the given Robot.
func NamesFromRobot(r robot.Robot) []string {
	return robot.NamesByAPI(r, API)
}

// Package board defines the hardware abstraction every driver is handed: named GPIO
// pins, analog inputs, edge counters and shared I2C/SPI buses.
package board

import (
	"github.com/flashrobotics/devices/resource"
	"github.com/flashrobotics/devices/robot"
)

// API is a variable that identifies the board resource API.
var API = resource.APINamespaceWorkshop.WithComponentType("board")

// Named is a helper for getting the named board's typed resource name.
func Named(name string) resource.Name {
	return resource.NewName(API, name)
}

// A Board represents a physical general purpose board that contains
// GPIO pins, analog inputs, edge counters and buses.
type Board interface {
	resource.Resource

	// AnalogByName returns an analog input by name.
	AnalogByName(name string) (Analog, error)

	// CounterByName returns an edge counter by name.
	CounterByName(name string) (Counter, error)

	// GPIOPinByName returns a GPIOPin by name.
	GPIOPinByName(name string) (GPIOPin, error)

	// I2CByName returns an I2C bus by name.
	I2CByName(name string) (I2C, error)

	// SPIByName returns an SPI bus by name.
	SPIByName(name string) (SPI, error)
}

// FromDependencies is a helper for getting the named board from a collection of
// dependencies.
func FromDependencies(deps resource.Dependencies, name string) (Board, error) {
	return resource.FromDependencies[Board](deps, Named(name))
}

// FromRobot is a helper for getting the named board from the given Robot.
func FromRobot(r robot.Robot, name string) (Board, error) {
	return robot.ResourceFromRobot[Board](r, Named(name))
}

// NamesFromRobot is a helper for getting all board names from the given Robot.
func NamesFromRobot(r robot.Robot) []string {
	return robot.NamesByAPI(r, API)
}

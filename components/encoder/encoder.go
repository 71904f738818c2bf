// Package encoder defines the interface of a sensor that turns shaft motion into a position.
package encoder

import (
	"context"

	"github.com/pkg/errors"

	"github.com/flashrobotics/devices/resource"
	"github.com/flashrobotics/devices/robot"
)

// SubtypeName is a constant that identifies the component resource API string "encoder".
const SubtypeName = "encoder"

// API is a variable that identifies the component resource API.
var API = resource.APINamespaceWorkshop.WithComponentType(SubtypeName)

// Named is a helper for getting the named Encoder's typed resource name.
func Named(name string) resource.Name {
	return resource.NewName(API, name)
}

// PositionType is an enum representing the encoder's position.
type PositionType byte

// Known encoder position types.
const (
	PositionTypeUnspecified PositionType = iota
	// PositionTypeTicks is for relative encoders
	// that report how far they've gone from a start position.
	PositionTypeTicks
	// PositionTypeDegrees is for absolute encoders
	// that report their position in degrees along the radial axis.
	PositionTypeDegrees
)

func (t PositionType) String() string {
	switch t {
	case PositionTypeTicks:
		return "ticks"
	case PositionTypeDegrees:
		return "degrees"
	case PositionTypeUnspecified:
		fallthrough
	default:
		return "unspecified"
	}
}

// Properties holds the properties of the encoder.
type Properties struct {
	TicksCountSupported   bool
	AngleDegreesSupported bool
}

// A Encoder turns a position into a signal.
type Encoder interface {
	resource.Resource

	// Position returns the current position in terms of ticks or degrees, and whether it is a relative or absolute position.
	Position(ctx context.Context, positionType PositionType, extra map[string]interface{}) (float64, PositionType, error)

	// ResetPosition sets the current position of the motor to be its new zero position.
	ResetPosition(ctx context.Context, extra map[string]interface{}) error

	// Properties returns a list of all the position types that are supported by a given encoder
	Properties(ctx context.Context, extra map[string]interface{}) (Properties, error)
}

// NewPositionTypeUnsupportedError returns a standard error for when
// an encoder does not support the given PositionType.
func NewPositionTypeUnsupportedError(positionType PositionType) error {
	return errors.Errorf("encoder does not support %q; use a different PositionType", positionType)
}

// NewResetUnsupportedError returns a standard error for absolute encoders
// that cannot be zeroed.
func NewResetUnsupportedError(name string) error {
	return errors.Errorf("encoder %q reports an absolute position and cannot be reset", name)
}

// FromDependencies is a helper for getting the named encoder from a collection of
// dependencies.
func FromDependencies(deps resource.Dependencies, name string) (Encoder, error) {
	return resource.FromDependencies[Encoder](deps, Named(name))
}

// FromRobot is a helper for getting the named encoder from the given Robot.
func FromRobot(r robot.Robot, name string) (Encoder, error) {
	return robot.ResourceFromRobot[Encoder](r, Named(name))
}

// NamesFromRobot is a helper for getting all encoder names from the given Robot.
func NamesFromRobot(r robot.Robot) []string {
	return robot.NamesByAPI(r, API)
}

package motor

import "github.com/pkg/errors"

// NewInvalidPowerError returns an error for a power outside [-1, 1] or not a number.
func NewInvalidPowerError(powerPct float64) error {
	return errors.Errorf("power must be a number in [-1, 1], got %v", powerPct)
}

// NewPropertyUnsupportedError returns an error representing the need
// for a motor to support a particular property.
func NewPropertyUnsupportedError(prop Properties, motorName string) error {
	return errors.Errorf("motor named %s has wrong support for property %#v", motorName, prop)
}

package victorsp

import (
	"math"

	"github.com/pkg/errors"

	"github.com/flashrobotics/devices/utils"
)

// Bounds are the pulse widths in microseconds a controller maps speed onto. Speeds in
// (0, 1] map linearly onto (DeadbandMax, Max], speeds in [-1, 0) onto [Min, DeadbandMin).
type Bounds struct {
	Max         int `json:"max"`
	DeadbandMax int `json:"deadband_max"`
	Center      int `json:"center"`
	DeadbandMin int `json:"deadband_min"`
	Min         int `json:"min"`
}

// Validate checks that the bounds are ordered.
func (b Bounds) Validate() error {
	if !(b.Min < b.DeadbandMin && b.DeadbandMin <= b.Center && b.Center <= b.DeadbandMax && b.DeadbandMax < b.Max) {
		return errors.Errorf("bounds must satisfy min < deadband_min <= center <= deadband_max < max, got %+v", b)
	}
	return nil
}

// PulseWidth returns the pulse width in microseconds for a speed, clamped to [-1, 1].
func (b Bounds) PulseWidth(speed float64) int {
	speed = clampSpeed(speed)
	switch {
	case speed > 0:
		return int(float64(b.DeadbandMax) + speed*float64(b.Max-b.DeadbandMax))
	case speed < 0:
		return int(float64(b.DeadbandMin) - math.Abs(speed)*float64(b.DeadbandMin-b.Min))
	default:
		return b.Center
	}
}

func clampSpeed(speed float64) float64 {
	return utils.Clamp(speed, -1, 1)
}

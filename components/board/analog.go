package board

import "context"

// An Analog represents an analog input that resides on a board.
type Analog interface {
	// Read reads a value from the analog input.
	Read(ctx context.Context, extra map[string]interface{}) (AnalogValue, error)
}

// AnalogValue contains all info about the analog reading.
// Value represents the reading in bits.
// Min and Max represent the range of raw analog values in volts.
// StepSize is the volts per bit.
type AnalogValue struct {
	Value    int
	Min      float32
	Max      float32
	StepSize float32
}

// Voltage returns the reading in volts.
func (v AnalogValue) Voltage() float64 {
	return float64(v.Value) * float64(v.StepSize)
}

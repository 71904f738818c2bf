// Package utils contains small helpers shared by the resource framework and drivers.
package utils

import (
	"fmt"
)

// AttributeMap is a convenience wrapper for pulling out
// typed information from a map.
type AttributeMap map[string]interface{}

// Has returns whether or not the given name is in the map.
func (am AttributeMap) Has(name string) bool {
	_, has := am[name]
	return has
}

// String attempts to return a string present in the map with
// the given name; returns an empty string otherwise.
func (am AttributeMap) String(name string) string {
	if am == nil {
		return ""
	}
	x := am[name]
	if x == nil {
		return ""
	}
	if s, ok := x.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", x)
}

// Float64 attempts to return a float64 present in the map with
// the given name; returns the given default otherwise. Integer values
// decoded from YAML are accepted.
func (am AttributeMap) Float64(name string, def float64) float64 {
	switch v := am[name].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	default:
		return def
	}
}

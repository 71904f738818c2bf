// Package robot defines the robot which is the root of all boards and drivers.
package robot

import (
	"context"
	"sort"

	"github.com/flashrobotics/devices/logging"
	"github.com/flashrobotics/devices/resource"
)

// A Robot encompasses all functionality of some robot comprised
// of parts.
type Robot interface {
	// ResourceByName returns a resource by name
	ResourceByName(name resource.Name) (resource.Resource, error)

	// ResourceNames returns a list of all known resource names, in build order.
	ResourceNames() []resource.Name

	// Logger returns the logger the robot is using.
	Logger() logging.Logger

	// Close attempts to cleanly close down all constituent parts of the robot.
	Close(ctx context.Context) error
}

// AllResourcesByName returns an array of all resources that have this short name.
func AllResourcesByName(r Robot, name string) []resource.Resource {
	all := []resource.Resource{}

	for _, n := range r.ResourceNames() {
		if n.ShortName() == name {
			res, err := r.ResourceByName(n)
			if err != nil {
				continue
			}
			all = append(all, res)
		}
	}

	return all
}

// NamesByAPI is a helper for getting all names from the given Robot given the API.
func NamesByAPI(r Robot, api resource.API) []string {
	names := []string{}
	for _, n := range r.ResourceNames() {
		if n.API == api {
			names = append(names, n.ShortName())
		}
	}
	sort.Strings(names)
	return names
}

// ResourceFromRobot returns a resource from a robot.
func ResourceFromRobot[T resource.Resource](r Robot, name resource.Name) (T, error) {
	var zero T
	res, err := r.ResourceByName(name)
	if err != nil {
		return zero, err
	}

	part, ok := res.(T)
	if !ok {
		return zero, resource.TypeError[T](res)
	}
	return part, nil
}

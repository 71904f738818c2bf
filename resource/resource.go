// Package resource contains the types used to name, configure, register and
// construct every board and driver.
package resource

import (
	"context"

	"github.com/pkg/errors"
)

// A Resource is the basic unit of a robot: a board or a driver built on one.
type Resource interface {
	Name() Name

	// Close must safely shut down the resource and prevent further use.
	// Close must be idempotent.
	Close(ctx context.Context) error
}

// Named is embedded by resources to answer Name.
type Named interface {
	Name() Name
}

type selfNamed struct {
	name Name
}

func (n selfNamed) Name() Name {
	return n.name
}

// AsNamed returns a Named that always returns this name.
func (n Name) AsNamed() Named {
	return selfNamed{n}
}

// TriviallyCloseable is to be embedded by any resource that does not care about
// handling Closes.
type TriviallyCloseable struct{}

// Close always returns no error.
func (TriviallyCloseable) Close(ctx context.Context) error {
	return nil
}

// Dependencies are a set of resources that a resource requires for reconfiguration.
type Dependencies map[Name]Resource

// Lookup searches for a given dependency by name.
func (d Dependencies) Lookup(name Name) (Resource, error) {
	res, ok := d[name]
	if !ok {
		return nil, DependencyNotFoundError(name)
	}
	return res, nil
}

// FromDependencies returns a named resource of the given type from a collection of dependencies.
func FromDependencies[T Resource](deps Dependencies, name Name) (T, error) {
	var zero T
	res, err := deps.Lookup(name)
	if err != nil {
		return zero, err
	}
	typed, ok := res.(T)
	if !ok {
		return zero, TypeError[T](res)
	}
	return typed, nil
}

// Names returns the names of every dependency.
func (d Dependencies) Names() []Name {
	names := make([]Name, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	return names
}

// ErrDoUnimplemented is returned when an optional operation is not supported by a model.
var ErrDoUnimplemented = errors.New("operation unimplemented")

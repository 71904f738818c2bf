package resource

import (
	"fmt"

	"github.com/pkg/errors"
)

type notFoundError struct {
	name Name
}

func (e *notFoundError) Error() string {
	return fmt.Sprintf("resource %q not found", e.name)
}

// NewNotFoundError is used when a resource is not found.
func NewNotFoundError(name Name) error {
	return &notFoundError{name: name}
}

// IsNotFoundError returns if the given error is any kind of not found error.
func IsNotFoundError(err error) bool {
	var errArt *notFoundError
	return errors.As(err, &errArt)
}

// DependencyNotFoundError is used when a resource is not found in a dependencies.
func DependencyNotFoundError(name Name) error {
	return errors.Wrapf(NewNotFoundError(name), "dependency %q not found", name.ShortName())
}

// TypeError is used when a resource is an unexpected type.
func TypeError[T any](actualResource Resource) error {
	var zero T
	return errors.Errorf("expected resource %q to implement %T but got %T", actualResource.Name(), &zero, actualResource)
}

// NewNotRegisteredError is returned when no registration exists for an api and model.
func NewNotRegisteredError(api API, model Model) error {
	return errors.Errorf("unknown resource type: API %q with model %q not registered", api, model)
}

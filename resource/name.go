package resource

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// ValidNameRegex is the pattern every resource name must match.
var ValidNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][\w-]*$`)

// Name represents a known board or driver on a robot.
type Name struct {
	API  API
	Name string
}

// NewName creates a new resource Name.
func NewName(api API, name string) Name {
	return Name{API: api, Name: name}
}

// NewFromString creates a new Name from "api/name".
func NewFromString(resourceName string) (Name, error) {
	apiStr, name, ok := strings.Cut(resourceName, "/")
	if !ok {
		return Name{}, errors.Errorf("string %q is not a valid resource name", resourceName)
	}
	api, err := NewAPIFromString(apiStr)
	if err != nil {
		return Name{}, err
	}
	return NewName(api, name), nil
}

// ShortName returns the bare configured name.
func (n Name) ShortName() string {
	return n.Name
}

// Validate ensures that important fields exist and are valid.
func (n Name) Validate() error {
	if err := n.API.Validate(); err != nil {
		return err
	}
	if n.Name == "" {
		return errors.New("name field for resource is empty")
	}
	if !ValidNameRegex.MatchString(n.Name) {
		return NewInvalidNameError(n.Name)
	}
	return nil
}

func (n Name) String() string {
	return fmt.Sprintf("%s/%s", n.API, n.Name)
}

// NewInvalidNameError is returned for names that do not match ValidNameRegex.
func NewInvalidNameError(name string) error {
	return errors.Errorf("name %q must start with a letter or number and only contain letters, numbers, dashes, and underscores", name)
}

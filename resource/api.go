package resource

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// APINamespace identifies the namespaces resource APIs can live in.
type APINamespace string

const (
	// APINamespaceWorkshop is the namespace every built in API lives in.
	APINamespaceWorkshop = APINamespace("workshop")

	// APITypeComponentName is the type name for components.
	APITypeComponentName = "component"
)

var (
	apiRegexValidator = regexp.MustCompile(`^([\w-]+):([\w-]+):([\w-]+)$`)
	reservedChars     = [...]string{":", "+"}
)

// APIType is a namespace plus type, e.g. "workshop:component".
type APIType struct {
	Namespace APINamespace
	Name      string
}

// API is a fully qualified resource API, e.g. "workshop:component:sensor".
type API struct {
	Type        APIType
	SubtypeName string
}

// WithType returns an API type in this namespace.
func (n APINamespace) WithType(name string) APIType {
	return APIType{Namespace: n, Name: name}
}

// WithComponentType returns a component API in this namespace.
func (n APINamespace) WithComponentType(subtypeName string) API {
	return n.WithType(APITypeComponentName).WithSubtype(subtypeName)
}

// WithSubtype returns an API with the given subtype name.
func (t APIType) WithSubtype(subtypeName string) API {
	return API{Type: t, SubtypeName: subtypeName}
}

// Validate ensures that important fields exist and are valid.
func (t APIType) Validate() error {
	if t.Namespace == "" {
		return errors.New("namespace field for resource missing")
	}
	if t.Name == "" {
		return errors.New("type field for resource missing")
	}
	if err := ContainsReservedCharacter(string(t.Namespace)); err != nil {
		return err
	}
	return ContainsReservedCharacter(t.Name)
}

func (t APIType) String() string {
	return fmt.Sprintf("%s:%s", t.Namespace, t.Name)
}

// Validate ensures that important fields exist and are valid.
func (a API) Validate() error {
	if err := a.Type.Validate(); err != nil {
		return err
	}
	if a.SubtypeName == "" {
		return errors.New("subtype field for resource missing")
	}
	return ContainsReservedCharacter(a.SubtypeName)
}

// IsComponent returns whether this API is for a component.
func (a API) IsComponent() bool {
	return a.Type.Name == APITypeComponentName
}

func (a API) String() string {
	return fmt.Sprintf("%s:%s", a.Type, a.SubtypeName)
}

// NewAPIFromString parses a fully qualified API string or, failing that, treats the
// string as a component subtype in the workshop namespace.
func NewAPIFromString(apiStr string) (API, error) {
	if matches := apiRegexValidator.FindStringSubmatch(apiStr); matches != nil {
		return APINamespace(matches[1]).WithType(matches[2]).WithSubtype(matches[3]), nil
	}
	api := APINamespaceWorkshop.WithComponentType(apiStr)
	if err := api.Validate(); err != nil {
		return API{}, errors.Wrapf(err, "string %q is not a valid api name", apiStr)
	}
	return api, nil
}

// MarshalText encodes the API as its string form.
func (a API) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText parses either a fully qualified API or a component subtype.
func (a *API) UnmarshalText(text []byte) error {
	api, err := NewAPIFromString(string(text))
	if err != nil {
		return err
	}
	*a = api
	return nil
}

// ContainsReservedCharacter returns an error if the string contains a reserved character.
func ContainsReservedCharacter(val string) error {
	for _, char := range reservedChars {
		if strings.Contains(val, char) {
			return errors.Errorf("reserved character %s used in name:%q", char, val)
		}
	}
	return nil
}

package resource

import (
	"fmt"
	"regexp"

	"github.com/pkg/errors"
)

var (
	// DefaultModelFamily is the family every built in model belongs to.
	DefaultModelFamily = ModelFamily{Namespace: APINamespaceWorkshop, Name: "builtin"}

	modelRegexValidator      = regexp.MustCompile(`^([\w-]+):([\w-]+):([\w-]+)$`)
	shortModelRegexValidator = regexp.MustCompile(`^([\w-]+)$`)
)

// ModelFamily is a family of related models.
type ModelFamily struct {
	Namespace APINamespace
	Name      string
}

// WithModel returns a new model in this family.
func (f ModelFamily) WithModel(name string) Model {
	return Model{Family: f, Name: name}
}

// Validate ensures that important fields exist and are valid.
func (f ModelFamily) Validate() error {
	if f.Namespace == "" {
		return errors.New("model namespace field for resource missing")
	}
	if f.Name == "" {
		return errors.New("model family field for resource missing")
	}
	if err := ContainsReservedCharacter(string(f.Namespace)); err != nil {
		return err
	}
	return ContainsReservedCharacter(f.Name)
}

func (f ModelFamily) String() string {
	return fmt.Sprintf("%s:%s", f.Namespace, f.Name)
}

// Model represents an individual model within a family.
type Model struct {
	Family ModelFamily
	Name   string
}

// NewBuiltinModel returns a model in the workshop:builtin family.
func NewBuiltinModel(name string) Model {
	return DefaultModelFamily.WithModel(name)
}

// NewModelFromString parses "namespace:family:name" or a bare builtin model name.
func NewModelFromString(modelStr string) (Model, error) {
	if matches := modelRegexValidator.FindStringSubmatch(modelStr); matches != nil {
		return ModelFamily{Namespace: APINamespace(matches[1]), Name: matches[2]}.WithModel(matches[3]), nil
	}
	if shortModelRegexValidator.MatchString(modelStr) {
		return NewBuiltinModel(modelStr), nil
	}
	return Model{}, errors.Errorf("string %q is not a valid model name", modelStr)
}

// Validate ensures that important fields exist and are valid.
func (m Model) Validate() error {
	if err := m.Family.Validate(); err != nil {
		return err
	}
	if m.Name == "" {
		return errors.New("model name field for resource missing")
	}
	return ContainsReservedCharacter(m.Name)
}

func (m Model) String() string {
	return fmt.Sprintf("%s:%s", m.Family, m.Name)
}

// MarshalText encodes the model as its string form.
func (m Model) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalText parses a fully qualified or bare model string.
func (m *Model) UnmarshalText(text []byte) error {
	model, err := NewModelFromString(string(text))
	if err != nil {
		return err
	}
	*m = model
	return nil
}

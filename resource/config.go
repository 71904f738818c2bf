package resource

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/flashrobotics/devices/utils"
)

// A Config describes the configuration of a resource.
type Config struct {
	Name       string             `json:"name"`
	API        API                `json:"api"`
	Model      Model              `json:"model"`
	DependsOn  []string           `json:"depends_on,omitempty"`
	Attributes utils.AttributeMap `json:"attributes,omitempty"`

	ConvertedAttributes ConfigValidator `json:"-"`
	ImplicitDependsOn   []string        `json:"-"`
}

// A ConfigValidator validates a configuration and also
// returns dependencies that were implicitly discovered.
type ConfigValidator interface {
	Validate(path string) ([]string, error)
}

// NativeConfig returns the native config from the given config via its
// converted attributes.
func NativeConfig[T any](conf Config) (T, error) {
	return utils.AssertType[T](conf.ConvertedAttributes)
}

// ResourceName returns the Name for the configured resource.
func (conf *Config) ResourceName() Name {
	return NewName(conf.API, conf.Name)
}

// String returns a verbose representation of the config.
func (conf *Config) String() string {
	return fmt.Sprintf("%#v", conf)
}

// Dependencies returns the deduplicated union of user-defined and implicit dependencies.
func (conf *Config) Dependencies() []string {
	result := make([]string, 0, len(conf.DependsOn)+len(conf.ImplicitDependsOn))
	seen := make(map[string]struct{})
	appendUniq := func(dep string) {
		if _, ok := seen[dep]; !ok {
			seen[dep] = struct{}{}
			result = append(result, dep)
		}
	}
	for _, dep := range conf.DependsOn {
		appendUniq(dep)
	}
	for _, dep := range conf.ImplicitDependsOn {
		appendUniq(dep)
	}
	return result
}

// Validate ensures all parts of the config are valid and returns dependencies.
// The returned dependencies are also stored in ImplicitDependsOn.
func (conf *Config) Validate(path string) ([]string, error) {
	if conf.Name == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if !ValidNameRegex.MatchString(conf.Name) {
		return nil, goutils.NewConfigValidationError(path, NewInvalidNameError(conf.Name))
	}
	if err := conf.API.Validate(); err != nil {
		return nil, goutils.NewConfigValidationError(path, err)
	}
	if conf.Model.Family == (ModelFamily{}) && conf.Model.Name != "" {
		conf.Model.Family = DefaultModelFamily
	}
	if err := conf.Model.Validate(); err != nil {
		return nil, goutils.NewConfigValidationError(path, err)
	}

	var deps []string
	if conf.ConvertedAttributes != nil {
		validatedDeps, err := conf.ConvertedAttributes.Validate(fmt.Sprintf("%s.attributes", path))
		if err != nil {
			return nil, err
		}
		deps = append(deps, validatedDeps...)
	}
	conf.ImplicitDependsOn = deps
	return deps, nil
}

// TransformAttributeMap uses an attribute map to transform attributes to the prescribed format.
func TransformAttributeMap[T any](attributes utils.AttributeMap) (T, error) {
	var out T

	var forResult interface{}

	toT := reflect.TypeOf(out)
	if toT == nil {
		// nothing to transform
		return out, nil
	}
	if toT.Kind() == reflect.Ptr {
		// needs to be allocated then
		var ok bool
		out, ok = reflect.New(toT.Elem()).Interface().(T)
		if !ok {
			return out, errors.Errorf("failed to allocate default config type %T", out)
		}
		forResult = out
	} else {
		forResult = &out
	}

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           forResult,
		Metadata:         &md,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return out, err
	}
	if len(md.Unused) == 0 {
		return out, nil
	}
	// unknown keys land in an Attributes map when the native config has one
	toV := reflect.ValueOf(out)
	if toV.Kind() == reflect.Ptr {
		toV = toV.Elem()
	}
	if attrsV := toV.FieldByName("Attributes"); attrsV.IsValid() &&
		attrsV.Kind() == reflect.Map &&
		attrsV.Type().Key().Kind() == reflect.String {
		if attrsV.IsNil() {
			attrsV.Set(reflect.MakeMap(attrsV.Type()))
		}
		mapValueType := attrsV.Type().Elem()
		for _, key := range md.Unused {
			val := attributes[key]
			valV := reflect.ValueOf(val)
			if valV.IsValid() && valV.Type().AssignableTo(mapValueType) {
				attrsV.SetMapIndex(reflect.ValueOf(key), valV)
			}
		}
	}
	return out, nil
}

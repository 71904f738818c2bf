package resource

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/pkg/errors"

	"github.com/flashrobotics/devices/logging"
	"github.com/flashrobotics/devices/utils"
)

type (
	// An APIModel is the tuple that identifies a model implementing an API.
	APIModel struct {
		API   API
		Model Model
	}

	// A Create creates a resource from a collection of dependencies and a given config.
	Create[ResourceT Resource] func(
		ctx context.Context,
		deps Dependencies,
		conf Config,
		logger logging.Logger,
	) (ResourceT, error)

	// An AttributeMapConverter converts an attribute map into a native config type for a resource.
	AttributeMapConverter[ConfigT any] func(attributes utils.AttributeMap) (ConfigT, error)
)

func (am APIModel) String() string {
	return fmt.Sprintf("%s/%s", am.API, am.Model)
}

// A Registration stores construction info for a resource. A single constructor is mandatory.
type Registration[ResourceT Resource, ConfigT any] struct {
	Constructor Create[ResourceT]

	// AttributeMapConverter is used to convert raw attributes to the resource's native config.
	// It defaults to TransformAttributeMap.
	AttributeMapConverter AttributeMapConverter[ConfigT]

	// configType can be used to dynamically inspect the resource config type.
	configType reflect.Type

	api API
}

// ConfigReflectType returns the reflective resource config type.
func (r Registration[ResourceT, ConfigT]) ConfigReflectType() reflect.Type {
	return r.configType
}

// API returns the API the registration was made under.
func (r Registration[ResourceT, ConfigT]) API() API {
	return r.api
}

var (
	registryMu sync.RWMutex
	registry   = map[APIModel]Registration[Resource, ConfigValidator]{}
)

// RegisterComponent registers a model for a component and its construction info.
// It panics on duplicate or malformed registrations.
func RegisterComponent[ResourceT Resource, ConfigT ConfigValidator](
	api API,
	model Model,
	reg Registration[ResourceT, ConfigT],
) {
	if !api.IsComponent() {
		panic(fmt.Sprintf("api %q is not a component api", api))
	}
	register(api, model, reg)
}

func register[ResourceT Resource, ConfigT ConfigValidator](
	api API,
	model Model,
	reg Registration[ResourceT, ConfigT],
) {
	if err := api.Validate(); err != nil {
		panic(err)
	}
	if err := model.Validate(); err != nil {
		panic(err)
	}
	if reg.Constructor == nil {
		panic(fmt.Sprintf("cannot register a nil constructor for api %q and model %q", api, model))
	}
	if reg.AttributeMapConverter == nil {
		reg.AttributeMapConverter = TransformAttributeMap[ConfigT]
	}
	reg.api = api
	var zero ConfigT
	reg.configType = reflect.TypeOf(zero)

	registryMu.Lock()
	defer registryMu.Unlock()
	key := APIModel{api, model}
	if _, old := registry[key]; old {
		panic(fmt.Sprintf("trying to register two resources with same api %q and model %q", api, model))
	}
	registry[key] = makeGenericRegistration(reg)
}

func makeGenericRegistration[ResourceT Resource, ConfigT ConfigValidator](
	typed Registration[ResourceT, ConfigT],
) Registration[Resource, ConfigValidator] {
	return Registration[Resource, ConfigValidator]{
		Constructor: func(ctx context.Context, deps Dependencies, conf Config, logger logging.Logger) (Resource, error) {
			res, err := typed.Constructor(ctx, deps, conf, logger)
			if err != nil {
				return nil, err
			}
			return res, nil
		},
		AttributeMapConverter: func(attributes utils.AttributeMap) (ConfigValidator, error) {
			converted, err := typed.AttributeMapConverter(attributes)
			if err != nil {
				return nil, err
			}
			return converted, nil
		},
		configType: typed.configType,
		api:        typed.api,
	}
}

// Deregister removes a previously registered model. It is only meant for tests.
func Deregister(api API, model Model) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(registry, APIModel{api, model})
}

// LookupRegistration looks up a registration by api and model.
func LookupRegistration(api API, model Model) (Registration[Resource, ConfigValidator], bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	reg, ok := registry[APIModel{api, model}]
	return reg, ok
}

// RegisteredModels returns every registered api and model pair, sorted by their string form.
func RegisteredModels() []APIModel {
	registryMu.RLock()
	defer registryMu.RUnlock()
	out := make([]APIModel, 0, len(registry))
	for key := range registry {
		out = append(out, key)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].String() < out[j].String()
	})
	return out
}

// ConvertAttributes fills in ConvertedAttributes for a config using its registration.
func ConvertAttributes(conf *Config) error {
	reg, ok := LookupRegistration(conf.API, conf.Model)
	if !ok {
		return NewNotRegisteredError(conf.API, conf.Model)
	}
	converted, err := reg.AttributeMapConverter(conf.Attributes)
	if err != nil {
		return errors.Wrapf(err, "error converting attributes for (%s, %s)", conf.API, conf.Model)
	}
	conf.ConvertedAttributes = converted
	return nil
}

// Package config defines the structures to configure a robot and its connected parts.
package config

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/flashrobotics/devices/logging"
	"github.com/flashrobotics/devices/resource"
)

// A Config describes the configuration of a robot.
type Config struct {
	ConfigFilePath string `json:"-"`

	Debug      bool              `json:"debug,omitempty"`
	Components []resource.Config `json:"components,omitempty"`
}

// componentJSON lets a component name its API either fully ("api") or by
// component subtype alone ("type").
type componentJSON struct {
	resource.Config
	Type string `json:"type,omitempty"`
}

// UnmarshalJSON unmarshals JSON into the config, resolving the "type" shorthand.
func (c *Config) UnmarshalJSON(data []byte) error {
	var raw struct {
		Debug      bool            `json:"debug"`
		Components []componentJSON `json:"components"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	c.Debug = raw.Debug
	c.Components = make([]resource.Config, 0, len(raw.Components))
	for idx, comp := range raw.Components {
		conf := comp.Config
		if conf.API == (resource.API{}) && comp.Type != "" {
			api, err := resource.NewAPIFromString(comp.Type)
			if err != nil {
				return errors.Wrapf(err, "components.%d", idx)
			}
			conf.API = api
		}
		c.Components = append(c.Components, conf)
	}
	return nil
}

// Ensure converts every component's attributes through the registry, validates them,
// and sorts the components so each one comes after everything it depends on.
func (c *Config) Ensure(logger logging.Logger) error {
	for idx := range c.Components {
		path := fmt.Sprintf("%s.%d", "components", idx)
		conf := &c.Components[idx]
		if err := resource.ConvertAttributes(conf); err != nil {
			return errors.Wrap(err, path)
		}
		if _, err := conf.Validate(path); err != nil {
			return err
		}
		logger.Debugw("validated component", "name", conf.Name, "api", conf.API, "model", conf.Model,
			"depends_on", conf.Dependencies())
	}

	if len(c.Components) > 0 {
		srtCmps, err := SortComponents(c.Components)
		if err != nil {
			return err
		}
		c.Components = srtCmps
	}
	return nil
}

// ComponentByName returns the config of the component with the given name.
func (c *Config) ComponentByName(name string) (resource.Config, bool) {
	for _, conf := range c.Components {
		if conf.Name == name {
			return conf, true
		}
	}
	return resource.Config{}, false
}

// SortComponents sorts list of components topologically based off what other components they depend on.
func SortComponents(components []resource.Config) ([]resource.Config, error) {
	componentToConfig := make(map[string]resource.Config, len(components))
	dependencies := map[string][]string{}

	for _, config := range components {
		if _, ok := componentToConfig[config.Name]; ok {
			return nil, errors.Errorf("component name %q is not unique", config.Name)
		}
		componentToConfig[config.Name] = config
		dependencies[config.Name] = config.Dependencies()
	}

	for _, config := range components {
		for _, depName := range dependencies[config.Name] {
			if _, ok := componentToConfig[depName]; !ok {
				return nil, errors.Errorf("component %q depends on %q which is not configured", config.Name, depName)
			}
		}
	}

	sortedCmps := make([]resource.Config, 0, len(components))
	visited := map[string]bool{}

	var dfsHelper func(string, []string) error
	dfsHelper = func(name string, path []string) error {
		for idx, cmpName := range path {
			if name == cmpName {
				return errors.Errorf("circular dependency detected in component list between %s",
					strings.Join(append(path[idx:], name), ", "))
			}
		}

		path = append(path, name)
		if _, ok := visited[name]; ok {
			return nil
		}
		visited[name] = true
		for _, dp := range dependencies[name] {
			// create a deep copy of current path
			pathCopy := make([]string, len(path))
			copy(pathCopy, path)

			if err := dfsHelper(dp, pathCopy); err != nil {
				return err
			}
		}
		sortedCmps = append(sortedCmps, componentToConfig[name])
		return nil
	}

	for _, c := range components {
		if _, ok := visited[c.Name]; !ok {
			var path []string
			if err := dfsHelper(c.Name, path); err != nil {
				return nil, err
			}
		}
	}

	return sortedCmps, nil
}

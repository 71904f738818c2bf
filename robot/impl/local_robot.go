// Package robotimpl builds a robot.Robot out of a config by constructing every
// configured board and driver in dependency order.
package robotimpl

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/flashrobotics/devices/config"
	"github.com/flashrobotics/devices/logging"
	"github.com/flashrobotics/devices/resource"
	"github.com/flashrobotics/devices/robot"
)

var _ = robot.Robot(&LocalRobot{})

// LocalRobot holds every resource built from a config.
type LocalRobot struct {
	mu          sync.Mutex
	config      *config.Config
	resources   map[resource.Name]resource.Resource
	order       []resource.Name
	byShortName map[string]resource.Name
	logger      logging.Logger
	closed      bool
}

// New returns a new robot with parts sourced from the given config. If any part fails
// to build, the parts already built are closed again.
func New(ctx context.Context, cfg *config.Config, logger logging.Logger) (*LocalRobot, error) {
	if cfg.Debug {
		logger.SetLevel(logging.DEBUG)
	}
	if err := cfg.Ensure(logger); err != nil {
		return nil, err
	}

	r := &LocalRobot{
		config:      cfg,
		resources:   make(map[resource.Name]resource.Resource, len(cfg.Components)),
		byShortName: make(map[string]resource.Name, len(cfg.Components)),
		logger:      logger,
	}

	for _, conf := range cfg.Components {
		if err := r.build(ctx, conf); err != nil {
			return nil, multierr.Combine(err, r.Close(ctx))
		}
	}
	logger.Infow("robot ready", "resources", len(r.order))
	return r, nil
}

func (r *LocalRobot) build(ctx context.Context, conf resource.Config) error {
	name := conf.ResourceName()
	reg, ok := resource.LookupRegistration(conf.API, conf.Model)
	if !ok {
		return resource.NewNotRegisteredError(conf.API, conf.Model)
	}

	deps := make(resource.Dependencies, len(conf.Dependencies()))
	for _, depName := range conf.Dependencies() {
		depResName, ok := r.byShortName[depName]
		if !ok {
			return errors.Errorf("dependency %q of %q has not been built", depName, name)
		}
		deps[depResName] = r.resources[depResName]
	}

	r.logger.Debugw("building resource", "name", name, "model", conf.Model)
	res, err := reg.Constructor(ctx, deps, conf, r.logger.Sublogger(conf.Name))
	if err != nil {
		return errors.Wrapf(err, "failed to build %q", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.resources[name] = res
	r.byShortName[conf.Name] = name
	r.order = append(r.order, name)
	return nil
}

// Config returns the config the robot was built from.
func (r *LocalRobot) Config() *config.Config {
	return r.config
}

// ResourceByName returns a resource by name.
func (r *LocalRobot) ResourceByName(name resource.Name) (resource.Resource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res, ok := r.resources[name]
	if !ok {
		return nil, resource.NewNotFoundError(name)
	}
	return res, nil
}

// ResourceNames returns the names of all known resources in build order.
func (r *LocalRobot) ResourceNames() []resource.Name {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]resource.Name, len(r.order))
	copy(names, r.order)
	return names
}

// Logger returns the logger the robot is using.
func (r *LocalRobot) Logger() logging.Logger {
	return r.logger
}

// Close closes every resource in reverse build order so drivers close before their boards.
func (r *LocalRobot) Close(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true

	var err error
	for i := len(r.order) - 1; i >= 0; i-- {
		name := r.order[i]
		if closeErr := r.resources[name].Close(ctx); closeErr != nil {
			err = multierr.Combine(err, errors.Wrapf(closeErr, "failed to close %q", name))
		}
	}
	return err
}

// Package ultrasonic implements an HC-SR04 ultrasonic rangefinder. The trigger is a GPIO pin
// and the echo pin feeds a board counter in semi-period mode, so the counter's period is the
// round trip time of the sound pulse.
package ultrasonic

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"github.com/flashrobotics/devices/components/board"
	"github.com/flashrobotics/devices/components/sensor"
	"github.com/flashrobotics/devices/logging"
	"github.com/flashrobotics/devices/resource"
)

// Model is the HC-SR04 rangefinder model.
var Model = resource.DefaultModelFamily.WithModel("hc-sr04")

const (
	// SpeedOfSoundCmPerSec is the speed of sound in air at room temperature.
	SpeedOfSoundCmPerSec = 34300
	// NoEcho is reported as the distance while no full echo pulse has been seen since the last ping.
	NoEcho = -1.0

	triggerPulseWidth = 10 * time.Microsecond
	defaultTimeoutMs  = 100
	echoPollInterval  = time.Millisecond
)

// Config is used for converting config attributes.
type Config struct {
	Board       string `json:"board"`
	TriggerPin  string `json:"trigger_pin"`
	EchoCounter string `json:"echo_counter"`
	TimeoutMs   uint   `json:"timeout_ms,omitempty"`
}

// Validate ensures all parts of the config are valid.
func (conf *Config) Validate(path string) ([]string, error) {
	var deps []string
	if len(conf.Board) == 0 {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "board")
	}
	deps = append(deps, conf.Board)
	if len(conf.TriggerPin) == 0 {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "trigger_pin")
	}
	if len(conf.EchoCounter) == 0 {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "echo_counter")
	}
	return deps, nil
}

func init() {
	resource.RegisterComponent(
		sensor.API,
		Model,
		resource.Registration[sensor.Sensor, *Config]{
			Constructor: func(
				ctx context.Context,
				deps resource.Dependencies,
				conf resource.Config,
				logger logging.Logger,
			) (sensor.Sensor, error) {
				newConf, err := resource.NativeConfig[*Config](conf)
				if err != nil {
					return nil, err
				}
				return NewSensor(ctx, deps, conf.ResourceName(), newConf, logger)
			},
		})
}

// Sensor is an HC-SR04 rangefinder.
type Sensor struct {
	resource.Named

	mu      sync.Mutex
	trigger board.GPIOPin
	echo    board.Counter
	timeout time.Duration
	logger  logging.Logger
}

// NewSensor puts the echo counter in semi-period mode, resets it and drives the trigger low.
func NewSensor(
	ctx context.Context,
	deps resource.Dependencies,
	name resource.Name,
	conf *Config,
	logger logging.Logger,
) (*Sensor, error) {
	b, err := board.FromDependencies(deps, conf.Board)
	if err != nil {
		return nil, errors.Wrap(err, "ultrasonic")
	}
	echo, err := b.CounterByName(conf.EchoCounter)
	if err != nil {
		return nil, errors.Wrapf(err, "ultrasonic: cannot grab counter %q", conf.EchoCounter)
	}
	trigger, err := b.GPIOPinByName(conf.TriggerPin)
	if err != nil {
		return nil, errors.Wrapf(err, "ultrasonic: cannot grab gpio %q", conf.TriggerPin)
	}

	s := &Sensor{
		Named:   name.AsNamed(),
		trigger: trigger,
		echo:    echo,
		timeout: defaultTimeoutMs * time.Millisecond,
		logger:  logger,
	}
	if conf.TimeoutMs > 0 {
		s.timeout = time.Duration(conf.TimeoutMs) * time.Millisecond
	}

	if err := echo.SetSemiPeriodMode(ctx, true, nil); err != nil {
		return nil, errors.Wrap(err, "ultrasonic: cannot put echo counter in semi-period mode")
	}
	if err := echo.Reset(ctx, nil); err != nil {
		return nil, errors.Wrap(err, "ultrasonic: cannot reset echo counter")
	}
	if err := trigger.Set(ctx, false, nil); err != nil {
		return nil, errors.Wrap(err, "ultrasonic: cannot set trigger pin to low")
	}
	logger.Debugw("built ultrasonic sensor", "trigger_pin", conf.TriggerPin, "echo_counter", conf.EchoCounter)
	return s, nil
}

// Ping resets the echo counter and sends a 10us trigger pulse.
func (s *Sensor) Ping(ctx context.Context) error {
	if err := s.echo.Reset(ctx, nil); err != nil {
		return errors.Wrap(err, "ultrasonic: cannot reset echo counter")
	}
	return errors.Wrap(board.Pulse(ctx, s.trigger, triggerPulseWidth), "ultrasonic")
}

// DistanceCm returns the distance measured by the last ping, or NoEcho if the echo pulse
// has not completed yet.
func (s *Sensor) DistanceCm(ctx context.Context) (float64, error) {
	count, err := s.echo.Count(ctx, nil)
	if err != nil {
		return 0, err
	}
	if count <= 1 {
		return NoEcho, nil
	}
	period, err := s.echo.Period(ctx, nil)
	if err != nil {
		return 0, err
	}
	return DistanceFromEcho(period), nil
}

// DistanceFromEcho converts an echo pulse width into centimeters. The pulse covers the
// round trip so the result is halved.
func DistanceFromEcho(width time.Duration) float64 {
	return width.Seconds() * SpeedOfSoundCmPerSec / 2
}

// Readings pings, waits up to the configured timeout for the echo and reports distance_cm.
func (s *Sensor) Readings(ctx context.Context, extra map[string]interface{}) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.Ping(ctx); err != nil {
		return nil, err
	}
	deadline := time.Now().Add(s.timeout)
	for {
		dist, err := s.DistanceCm(ctx)
		if err != nil {
			return nil, err
		}
		if dist != NoEcho {
			return map[string]interface{}{"distance_cm": dist}, nil
		}
		if time.Now().After(deadline) {
			s.logger.Debugw("no echo received", "timeout", s.timeout)
			return map[string]interface{}{"distance_cm": dist}, nil
		}
		if !goutils.SelectContextOrWait(ctx, echoPollInterval) {
			return nil, ctx.Err()
		}
	}
}

// Close drives the trigger pin low.
func (s *Sensor) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return errors.Wrap(s.trigger.Set(ctx, false, nil), "ultrasonic: cannot set trigger pin to low")
}

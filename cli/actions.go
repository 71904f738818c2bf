package cli

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
	"go.uber.org/multierr"
	goutils "go.viam.com/utils"

	"github.com/flashrobotics/devices/components/encoder"
	"github.com/flashrobotics/devices/components/motor"
	"github.com/flashrobotics/devices/components/movementsensor"
	// register every model a config can name.
	_ "github.com/flashrobotics/devices/components/register"
	"github.com/flashrobotics/devices/components/sensor"
	"github.com/flashrobotics/devices/config"
	"github.com/flashrobotics/devices/logging"
	"github.com/flashrobotics/devices/resource"
	robotimpl "github.com/flashrobotics/devices/robot/impl"
)

// newLogger returns the command's logger and a func closing its log file, if any.
func newLogger(c *cli.Context) (logging.Logger, func() error) {
	level := logging.INFO
	if c.Bool(flagDebug) {
		level = logging.DEBUG
	}
	path := c.String(flagLogFile)
	if path == "" {
		return logging.NewLoggerWithCore("workshop", level, logging.NewStdoutCore(true)), func() error { return nil }
	}
	fileCore, closer := logging.NewFileCore(path, logging.DefaultLogFileMaxSizeMB)
	return logging.NewTeeLogger("workshop", level, logging.NewStdoutCore(true), fileCore), closer.Close
}

func readConfig(c *cli.Context, logger logging.Logger) (*config.Config, error) {
	if c.Args().Len() != 1 {
		return nil, errors.New("expected exactly one argument: the path to a config file")
	}
	return config.Read(c.Context, c.Args().First(), logger)
}

// withRobot builds the robot described by the config argument, runs fn and closes the robot.
func withRobot(c *cli.Context, fn func(r *robotimpl.LocalRobot) error) (err error) {
	logger, closeLog := newLogger(c)
	defer func() {
		err = multierr.Combine(err, closeLog())
	}()
	cfg, err := readConfig(c, logger)
	if err != nil {
		return err
	}
	r, err := robotimpl.New(c.Context, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Combine(err, r.Close(context.Background()))
	}()
	return fn(r)
}

// ValidateAction loads a config and prints its components in build order.
func ValidateAction(c *cli.Context) (err error) {
	logger, closeLog := newLogger(c)
	defer func() {
		err = multierr.Combine(err, closeLog())
	}()
	cfg, err := readConfig(c, logger)
	if err != nil {
		return err
	}
	t := table.NewWriter()
	t.SetOutputMirror(c.App.Writer)
	t.AppendHeader(table.Row{"#", "Name", "API", "Model", "Depends On"})
	for i, conf := range cfg.Components {
		t.AppendRow(table.Row{i, conf.Name, conf.API, conf.Model, strings.Join(conf.Dependencies(), ", ")})
	}
	t.Render()
	fmt.Fprintf(c.App.Writer, "%s is valid\n", c.Args().First())
	return nil
}

// ReadingsAction prints the readings of every readable component, or of the named one.
// With more than one round, a summary of every numeric reading follows.
func ReadingsAction(c *cli.Context) error {
	count := c.Int(flagCount)
	if count < 1 {
		return errors.Errorf("--%s must be at least 1", flagCount)
	}
	return withRobot(c, func(r *robotimpl.LocalRobot) error {
		name := c.String(flagName)
		if name != "" && !hasResource(r, name) {
			return errors.Errorf("no component named %q", name)
		}
		samples := newSampleSet()
		for round := 0; round < count; round++ {
			if round > 0 && !goutils.SelectContextOrWait(c.Context, c.Duration(flagInterval)) {
				return c.Context.Err()
			}
			rows, err := collectReadings(c.Context, r, name)
			if err != nil {
				return err
			}
			t := table.NewWriter()
			t.SetOutputMirror(c.App.Writer)
			t.AppendHeader(table.Row{"Name", "API", "Reading", "Value"})
			t.AppendRows(rows)
			t.Render()
			samples.add(rows)
		}
		if count > 1 {
			return samples.render(c.App.Writer)
		}
		return nil
	})
}

func hasResource(r *robotimpl.LocalRobot, name string) bool {
	for _, n := range r.ResourceNames() {
		if n.ShortName() == name {
			return true
		}
	}
	return false
}

func collectReadings(ctx context.Context, r *robotimpl.LocalRobot, only string) ([]table.Row, error) {
	var rows []table.Row
	for _, n := range r.ResourceNames() {
		if only != "" && n.ShortName() != only {
			continue
		}
		res, err := r.ResourceByName(n)
		if err != nil {
			return nil, err
		}
		readings, err := readingsOf(ctx, res)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read %q", n.ShortName())
		}
		keys := make([]string, 0, len(readings))
		for k := range readings {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			rows = append(rows, table.Row{n.ShortName(), n.API.SubtypeName, k, readings[k]})
		}
	}
	return rows, nil
}

// readingsOf returns readings for resources that have them. Encoders report their
// position in every supported unit.
func readingsOf(ctx context.Context, res resource.Resource) (map[string]interface{}, error) {
	switch dev := res.(type) {
	case sensor.Sensor:
		return dev.Readings(ctx, nil)
	case movementsensor.MovementSensor:
		return dev.Readings(ctx, nil)
	case encoder.Encoder:
		props, err := dev.Properties(ctx, nil)
		if err != nil {
			return nil, err
		}
		readings := map[string]interface{}{}
		if props.TicksCountSupported {
			pos, _, err := dev.Position(ctx, encoder.PositionTypeTicks, nil)
			if err != nil {
				return nil, err
			}
			readings["ticks"] = pos
		}
		if props.AngleDegreesSupported {
			pos, _, err := dev.Position(ctx, encoder.PositionTypeDegrees, nil)
			if err != nil {
				return nil, err
			}
			readings["degrees"] = pos
		}
		return readings, nil
	default:
		return nil, nil
	}
}

// MotorAction runs a motor at a power and stops it after the duration.
func MotorAction(c *cli.Context) error {
	power := c.Float64(flagPower)
	if math.IsNaN(power) || power < -1 || power > 1 {
		return motor.NewInvalidPowerError(power)
	}
	return withRobot(c, func(r *robotimpl.LocalRobot) (err error) {
		m, err := motor.FromRobot(r, c.String(flagName))
		if err != nil {
			return err
		}
		defer func() {
			err = multierr.Combine(err, m.Stop(context.Background(), nil))
		}()
		if err := m.SetPower(c.Context, power, nil); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "%s running at %.2f\n", c.String(flagName), power)
		if !goutils.SelectContextOrWait(c.Context, c.Duration(flagDuration)) {
			return c.Context.Err()
		}
		fmt.Fprintf(c.App.Writer, "%s stopped\n", c.String(flagName))
		return nil
	})
}

// EncoderResetAction zeroes an encoder.
func EncoderResetAction(c *cli.Context) error {
	return withRobot(c, func(r *robotimpl.LocalRobot) error {
		enc, err := encoder.FromRobot(r, c.String(flagName))
		if err != nil {
			return err
		}
		if err := enc.ResetPosition(c.Context, nil); err != nil {
			return err
		}
		fmt.Fprintf(c.App.Writer, "%s reset\n", c.String(flagName))
		return nil
	})
}

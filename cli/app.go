// Package cli contains the workshop command line: validating configs and exercising
// the drivers a config describes.
package cli

import (
	"io"

	"github.com/urfave/cli/v2"
)

const (
	flagDebug    = "debug"
	flagLogFile  = "log-file"
	flagName     = "name"
	flagInterval = "interval"
	flagCount    = "count"
	flagPower    = "power"
	flagDuration = "duration"
)

var app = &cli.App{
	Name:            "workshop",
	Usage:           "validate robot configs and exercise their devices",
	HideHelpCommand: true,
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:    flagDebug,
			Aliases: []string{"vvv"},
			Usage:   "enable debug logging",
		},
		&cli.PathFlag{
			Name:  flagLogFile,
			Usage: "also write JSON logs to this file, rotating it as it grows",
		},
	},
	Commands: []*cli.Command{
		{
			Name:      "validate",
			Usage:     "load a config and list the components it describes",
			ArgsUsage: "<config>",
			Action:    ValidateAction,
		},
		{
			Name:      "readings",
			Usage:     "print the readings of every sensor, movement sensor and encoder",
			ArgsUsage: "<config>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  flagName,
					Usage: "only read the component with this name",
				},
				&cli.DurationFlag{
					Name:  flagInterval,
					Value: 0,
					Usage: "time to wait between rounds of readings",
				},
				&cli.IntFlag{
					Name:  flagCount,
					Value: 1,
					Usage: "number of rounds of readings",
				},
			},
			Action: ReadingsAction,
		},
		{
			Name:      "motor",
			Usage:     "run a motor at a power for a duration, then stop it",
			ArgsUsage: "<config>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagName,
					Required: true,
					Usage:    "name of the motor",
				},
				&cli.Float64Flag{
					Name:     flagPower,
					Required: true,
					Usage:    "power between -1 and 1",
				},
				&cli.DurationFlag{
					Name:  flagDuration,
					Value: 0,
					Usage: "how long to run before stopping, 0 stops immediately",
				},
			},
			Action: MotorAction,
		},
		{
			Name:      "encoder-reset",
			Usage:     "zero an encoder",
			ArgsUsage: "<config>",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:     flagName,
					Required: true,
					Usage:    "name of the encoder",
				},
			},
			Action: EncoderResetAction,
		},
	},
}

// NewApp returns a new app with the CLI function attached.
func NewApp(out, errOut io.Writer) *cli.App {
	app.Writer = out
	app.ErrWriter = errOut
	return app
}

// Package main is the workshop command itself.
package main

import (
	"fmt"
	"os"

	"github.com/flashrobotics/devices/cli"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "workshop: %v\n", err)
		os.Exit(1)
	}
}

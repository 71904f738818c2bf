// Package register registers all components
package register

import (
	// register boards.
	_ "github.com/flashrobotics/devices/components/board/fake"
	_ "github.com/flashrobotics/devices/components/board/genericlinux"
	// register encoders.
	_ "github.com/flashrobotics/devices/components/encoder/pulsewidth"
	_ "github.com/flashrobotics/devices/components/encoder/quadrature"
	// register motors.
	_ "github.com/flashrobotics/devices/components/motor/victorsp"
	// register movement sensors.
	_ "github.com/flashrobotics/devices/components/movementsensor/adis16470"
	_ "github.com/flashrobotics/devices/components/movementsensor/adxl193"
	_ "github.com/flashrobotics/devices/components/movementsensor/adxl345"
	// register sensors.
	_ "github.com/flashrobotics/devices/components/sensor/ultrasonic"
)

package adxl345

// register addresses.
const (
	deviceIDRegister   byte = 0x00
	powerCtlRegister   byte = 0x2D
	dataFormatRegister byte = 0x31
	dataX0Register     byte = 0x32
)

const (
	expectedDeviceID byte = 0xE5
	// full resolution, +/-2 g.
	dataFormatFullRes byte = 0x08
	// measure bit of POWER_CTL; clearing it puts the chip in standby.
	powerCtlMeasure byte = 0x08
	powerCtlStandby byte = 0x00
)

// I2C addresses selected by the SDO/ALT ADDRESS pin.
const (
	DefaultAddress   byte = 0x1D
	AlternateAddress byte = 0x53
)

// Package sensors is the acquisition boundary of the flight unit. Real
// drivers (IMU, barometer, GPS, ADC) live behind Source; the core only sees
// one raw Reading per sampling tick.
package sensors

import "rocketlink/internal/fusion"

// GPSFix is one positional fix with the GPS module's UTC calendar/time.
type GPSFix struct {
	Latitude  float64
	Longitude float64
	Altitude  float64
	Day       int
	Month     int
	Year      int
	Hour      int
	Minute    int
	Second    int
}

// Reading is one raw acquisition cycle across all wired peripherals.
type Reading struct {
	Accel       fusion.Vec3 // m/s^2
	Gyro        fusion.Vec3 // rad/s
	Temperature float64     // deg C
	Pressure    float64     // hPa
	Altitude    float64     // barometric, m
	Voltage     float64     // supply rail, V
	GPS         GPSFix
}

// Source produces raw sensor readings. Init is called once before the
// control loop starts; a failing Init is fatal by design, telemetry without
// sensors is meaningless.
type Source interface {
	Init() error
	Read() (Reading, error)
}

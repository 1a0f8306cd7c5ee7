// Package flightlog owns the append-only CSV artifact produced per flight.
// The state machine drives its lifecycle: open on entering active flight,
// one row per logging tick, finalize with a duration marker on exit.
package flightlog

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"rocketlink/internal/wire"
)

// Header identifies every telemetry field, written as the first row of each
// flight log.
var Header = []string{
	"timestamp_ms",
	"acc_x", "acc_y", "acc_z",
	"gyro_x", "gyro_y", "gyro_z",
	"temp_c", "pitch_deg", "roll_deg",
	"pressure_hpa", "altitude_m",
	"voltage_rocket_v",
	"lat", "lon", "gps_alt_m",
	"gps_day", "gps_month", "gps_year",
	"gps_hour", "gps_minute", "gps_second",
}

// Filename derives the artifact name from boot-relative seconds. Wall-clock
// time is deliberately not used: the real-time clock may be unset on the
// flight hardware.
func Filename(bootSeconds int64) string {
	return fmt.Sprintf("flight_log_%06d.csv", bootSeconds)
}

// Log manages at most one open flight-log artifact.
type Log struct {
	storage Storage

	handle LineWriter
	name   string
	rows   int
}

func New(storage Storage) *Log {
	return &Log{storage: storage}
}

// Open creates the artifact for a flight starting at bootSeconds since unit
// boot and writes the header row. Opening while a log is already open is an
// error; the state machine guarantees one log per flight.
func (l *Log) Open(bootSeconds int64) error {
	if l.handle != nil {
		return fmt.Errorf("flightlog: %s still open", l.name)
	}
	name := Filename(bootSeconds)
	h, err := l.storage.OpenAppend(name)
	if err != nil {
		return err
	}
	if err := h.WriteLine(strings.Join(Header, ",")); err != nil {
		h.Close()
		return fmt.Errorf("flightlog: write header: %w", err)
	}
	l.handle = h
	l.name = name
	l.rows = 0
	return nil
}

// Append writes one telemetry row. Calls while no log is open are dropped,
// not queued.
func (l *Log) Append(p *wire.TelemetryPacket) error {
	if l.handle == nil {
		return nil
	}
	if err := l.handle.WriteLine(row(p)); err != nil {
		return fmt.Errorf("flightlog: append: %w", err)
	}
	l.rows++
	return nil
}

// Close appends the trailing duration marker and releases the handle. A
// close without an open log is a no-op.
func (l *Log) Close(duration time.Duration) error {
	if l.handle == nil {
		return nil
	}
	marker := fmt.Sprintf("# flight_duration_s,%.1f", duration.Seconds())
	werr := l.handle.WriteLine(marker)
	cerr := l.handle.Close()
	l.handle = nil
	if werr != nil {
		return fmt.Errorf("flightlog: duration marker: %w", werr)
	}
	return cerr
}

// IsOpen reports whether a log artifact is currently open.
func (l *Log) IsOpen() bool { return l.handle != nil }

// Name returns the current (or last) artifact name.
func (l *Log) Name() string { return l.name }

// Rows returns the number of telemetry rows appended to the open artifact.
func (l *Log) Rows() int { return l.rows }

func row(p *wire.TelemetryPacket) string {
	f := func(v float32) string { return strconv.FormatFloat(float64(v), 'f', -1, 32) }
	i := func(v int32) string { return strconv.FormatInt(int64(v), 10) }
	cols := []string{
		f(p.Timestamp),
		f(p.AccelX), f(p.AccelY), f(p.AccelZ),
		f(p.GyroX), f(p.GyroY), f(p.GyroZ),
		f(p.Temperature), f(p.Pitch), f(p.Roll),
		f(p.Pressure), f(p.Altitude),
		f(p.VoltageRocket),
		f(p.Latitude), f(p.Longitude), f(p.GPSAltitude),
		i(p.Day), i(p.Month), i(p.Year),
		i(p.Hour), i(p.Minute), i(p.Second),
	}
	return strings.Join(cols, ",")
}

// Rate governor decoupling sensor sampling cadence from transmission cadence.
package pacing

import "time"

// Default cadences, matching the flight hardware: 10 Hz sampling, 2 Hz
// transmission.
const (
	DefaultSampleInterval   = 100 * time.Millisecond
	DefaultTransmitInterval = 500 * time.Millisecond
)

// Governor throttles sampling and transmission independently. Each throttle
// compares elapsed time against its own last-fired timestamp and advances
// that timestamp only when it fires, so a missed sampling tick never shifts
// the transmission clock. Monotonic time is assumed not to wrap within a
// mission.
type Governor struct {
	sampleEvery   time.Duration
	transmitEvery time.Duration

	lastSample   time.Time
	lastTransmit time.Time
}

// New returns a governor with the given cadences; non-positive values fall
// back to the defaults.
func New(sampleEvery, transmitEvery time.Duration) *Governor {
	if sampleEvery <= 0 {
		sampleEvery = DefaultSampleInterval
	}
	if transmitEvery <= 0 {
		transmitEvery = DefaultTransmitInterval
	}
	return &Governor{sampleEvery: sampleEvery, transmitEvery: transmitEvery}
}

// ShouldSample reports whether a sensor read is due at now, and if so marks
// it fired.
func (g *Governor) ShouldSample(now time.Time) bool {
	if !g.lastSample.IsZero() && now.Sub(g.lastSample) < g.sampleEvery {
		return false
	}
	g.lastSample = now
	return true
}

// ShouldTransmit reports whether a telemetry transmission is due at now, and
// if so marks it fired.
func (g *Governor) ShouldTransmit(now time.Time) bool {
	if !g.lastTransmit.IsZero() && now.Sub(g.lastTransmit) < g.transmitEvery {
		return false
	}
	g.lastTransmit = now
	return true
}

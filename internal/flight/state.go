// Flight state machine: the single authority over mission phase and the
// flight-log lifecycle.
package flight

import (
	"log/slog"
	"time"

	"rocketlink/internal/flightlog"
	"rocketlink/internal/wire"
)

// State is the mission phase of the flight unit. Exactly one instance
// exists per unit and only the state machine mutates it.
type State int

const (
	Ground       State = iota // idle, not logging
	PreFlight                 // optional arming phase
	FlightActive              // logging
	PostFlight                // flight ended, log finalized
)

func (s State) String() string {
	switch s {
	case Ground:
		return "ground"
	case PreFlight:
		return "pre_flight"
	case FlightActive:
		return "flight_active"
	case PostFlight:
		return "post_flight"
	}
	return "unknown"
}

// Machine applies validated control commands to the flight state and drives
// the log lifecycle on transitions. It holds no sensor data.
type Machine struct {
	state       State
	startMillis int64

	log    *flightlog.Log // nil when the unit has no persistent storage
	logger *slog.Logger
}

func NewMachine(log *flightlog.Log, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{log: log, logger: logger}
}

// State returns the current mission phase.
func (m *Machine) State() State { return m.state }

// FlightStartMillis returns the boot-relative start time of the active
// flight, zero outside one.
func (m *Machine) FlightStartMillis() int64 { return m.startMillis }

// Logging reports whether the per-cycle telemetry log write should execute.
func (m *Machine) Logging() bool {
	return m.state == FlightActive && m.log != nil && m.log.IsOpen()
}

// Apply handles one validated command at nowMillis since unit boot. Commands
// that do not match the current state are ignored, never errors: a repeated
// StartFlight mid-flight is a no-op, as is EndFlight on the ground.
func (m *Machine) Apply(cmd *wire.ControlCommand, nowMillis int64) {
	switch cmd.Kind {
	case wire.CommandStartFlight:
		if m.state != Ground && m.state != PreFlight {
			m.logger.Debug("start_flight ignored", "state", m.state.String(), "seq", cmd.Seq)
			return
		}
		m.startMillis = nowMillis
		m.state = FlightActive
		m.openLog(nowMillis)
		m.logger.Info("flight started", "seq", cmd.Seq, "t_ms", nowMillis)

	case wire.CommandEndFlight:
		if m.state != FlightActive {
			m.logger.Debug("end_flight ignored", "state", m.state.String(), "seq", cmd.Seq)
			return
		}
		duration := time.Duration(nowMillis-m.startMillis) * time.Millisecond
		m.state = PostFlight
		if m.log != nil {
			if err := m.log.Close(duration); err != nil {
				m.logger.Warn("flight log close failed", "err", err)
			}
		}
		m.logger.Info("flight ended", "seq", cmd.Seq, "duration_s", duration.Seconds())

	case wire.CommandAbortMission, wire.CommandResetSystem:
		// Reserved wire values; accepted but not wired to a transition.
		m.logger.Info("reserved command ignored", "kind", cmd.Kind.String(), "seq", cmd.Seq)

	case wire.CommandNone:

	default:
		m.logger.Debug("unknown command kind dropped", "kind", uint32(cmd.Kind))
	}
}

// openLog starts the flight artifact. Storage trouble degrades to a warning
// and the mission continues unlogged; telemetry transmission is unaffected.
func (m *Machine) openLog(nowMillis int64) {
	if m.log == nil {
		m.logger.Warn("no persistent storage, flight will not be logged")
		return
	}
	if err := m.log.Open(nowMillis / 1000); err != nil {
		m.logger.Warn("flight log unavailable, continuing without logging", "err", err)
		return
	}
	m.logger.Info("flight log opened", "file", m.log.Name())
}

// Flight-unit control loop: sample, fuse, log, transmit, obey.
package flight

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"rocketlink/internal/flightlog"
	"rocketlink/internal/fusion"
	"rocketlink/internal/link"
	"rocketlink/internal/logging"
	"rocketlink/internal/pacing"
	"rocketlink/internal/sensors"
	"rocketlink/internal/wire"
)

// Capabilities selects which peripherals a board variant has wired up. One
// core loop serves every variant; the flags gate population and logging
// instead of duplicating the loop per board.
type Capabilities struct {
	SD  bool
	GPS bool
}

// loopInterval is the cooperative yield between control-loop iterations.
// Cadence is owned by the rate governor, not the loop.
const loopInterval = 10 * time.Millisecond

// Stats counts protocol-level events on the flight unit.
type Stats struct {
	CommandsApplied  int
	CommandsDropped  int // wrong size or bad checksum
	PacketsSent      int
	SendFailures     int
	SensorReadErrors int
}

// Unit is the flight-side telemetry core. A single goroutine runs the
// control loop; the transport receive callback only stages bytes into the
// mailbox, making the loop the sole mutator of flight state and the log.
type Unit struct {
	source    sensors.Source
	filter    *fusion.Filter
	governor  *pacing.Governor
	machine   *Machine
	log       *flightlog.Log
	transport link.Transport
	dest      string
	caps      Capabilities

	mailbox  link.Mailbox
	bootTime time.Time
	packet   wire.TelemetryPacket
	stats    Stats

	reinitPending atomic.Bool
	sendErr       atomic.Value // error from the async send-result callback
}

// NewUnit wires a flight unit together and initializes its sensor source.
// Sensor initialization failure is fatal by design: telemetry without a
// sensor is meaningless, so the unit refuses to start.
func NewUnit(source sensors.Source, transport link.Transport, storage flightlog.Storage, dest string, caps Capabilities, governor *pacing.Governor) (*Unit, error) {
	if err := source.Init(); err != nil {
		return nil, fmt.Errorf("flight: sensor init: %w", err)
	}
	if governor == nil {
		governor = pacing.New(0, 0)
	}

	var flog *flightlog.Log
	if caps.SD && storage != nil {
		flog = flightlog.New(storage)
	}

	u := &Unit{
		source:    source,
		filter:    fusion.New(),
		governor:  governor,
		log:       flog,
		transport: transport,
		dest:      dest,
		caps:      caps,
		bootTime:  time.Now(),
	}
	u.machine = NewMachine(flog, nil)

	transport.HandleReceive(u.mailbox.Put)
	transport.HandleSendResult(func(err error) {
		// Callback path stays short: record and let the loop react.
		if err != nil {
			u.sendErr.Store(err)
			u.reinitPending.Store(true)
		}
	})
	return u, nil
}

// State returns the current mission phase.
func (u *Unit) State() State { return u.machine.State() }

// Snapshot returns the most recently built telemetry packet.
func (u *Unit) Snapshot() wire.TelemetryPacket { return u.packet }

// Stats returns a copy of the protocol counters.
func (u *Unit) Stats() Stats { return u.stats }

// Run executes the control loop until ctx is done. Each iteration performs
// at most the work due that cycle and then yields.
func (u *Unit) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	u.machine.logger = log
	log.Info("flight unit up",
		"state", u.machine.State().String(),
		"has_sd", u.caps.SD, "has_gps", u.caps.GPS)

	ticker := time.NewTicker(loopInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			u.Step(ctx, time.Now())
		case <-ctx.Done():
			log.Info("flight unit stopping", "state", u.machine.State().String())
			if u.log != nil && u.log.IsOpen() {
				u.log.Close(time.Duration(u.millis(time.Now())-u.machine.FlightStartMillis()) * time.Millisecond)
			}
			return
		}
	}
}

// Step runs one control-loop iteration at now. Exported for tests; Run is
// the production driver.
func (u *Unit) Step(ctx context.Context, now time.Time) {
	log := logging.FromContext(ctx)

	if u.reinitPending.Swap(false) {
		u.stats.SendFailures++
		if err, _ := u.sendErr.Load().(error); err != nil {
			log.Warn("transmit failed", "err", err)
		}
		// One re-init attempt, no retry queue behind it.
		if err := u.transport.Reinit(); err != nil {
			log.Error("link re-init failed", "err", err)
		} else {
			log.Info("link re-initialized")
		}
	}

	u.consumeCommand(ctx, now)

	if u.governor.ShouldSample(now) {
		u.sample(ctx, now)
	}
	if u.governor.ShouldTransmit(now) {
		u.transmit(ctx)
	}
}

// consumeCommand drains the mailbox: size check, checksum check, then the
// state machine. Malformed input is dropped and counted, never propagated.
func (u *Unit) consumeCommand(ctx context.Context, now time.Time) {
	payload, ok := u.mailbox.Take()
	if !ok {
		return
	}
	log := logging.FromContext(ctx)

	cmd, err := wire.DecodeCommand(payload)
	if err != nil {
		u.stats.CommandsDropped++
		log.Warn("command dropped", "err", err, "len", len(payload))
		return
	}
	if !cmd.IsValid() {
		u.stats.CommandsDropped++
		log.Warn("command dropped", "err", wire.ErrBadChecksum, "seq", cmd.Seq)
		return
	}
	u.stats.CommandsApplied++
	u.machine.Apply(cmd, u.millis(now))
}

// sample reads the sensors, fuses attitude, and rebuilds the telemetry
// packet from scratch. While flight is active the row also goes to the log.
func (u *Unit) sample(ctx context.Context, now time.Time) {
	log := logging.FromContext(ctx)

	r, err := u.source.Read()
	if err != nil {
		u.stats.SensorReadErrors++
		log.Warn("sensor read failed", "err", err)
		return
	}

	nowMillis := u.millis(now)
	pitch, roll, fused := u.filter.Update(r.Accel, r.Gyro, nowMillis)
	if !fused {
		// First sample only seeds the filter's time reference.
		return
	}

	p := wire.TelemetryPacket{
		AccelX:        float32(r.Accel.X),
		AccelY:        float32(r.Accel.Y),
		AccelZ:        float32(r.Accel.Z),
		GyroX:         float32(r.Gyro.X),
		GyroY:         float32(r.Gyro.Y),
		GyroZ:         float32(r.Gyro.Z),
		Temperature:   float32(r.Temperature),
		Pitch:         float32(pitch),
		Roll:          float32(roll),
		Pressure:      float32(r.Pressure),
		Altitude:      float32(r.Altitude),
		VoltageRocket: float32(r.Voltage),
		Timestamp:     float32(nowMillis),
	}
	if u.caps.GPS {
		p.Latitude = float32(r.GPS.Latitude)
		p.Longitude = float32(r.GPS.Longitude)
		p.GPSAltitude = float32(r.GPS.Altitude)
		p.Day = int32(r.GPS.Day)
		p.Month = int32(r.GPS.Month)
		p.Year = int32(r.GPS.Year)
		p.Hour = int32(r.GPS.Hour)
		p.Minute = int32(r.GPS.Minute)
		p.Second = int32(r.GPS.Second)
	}
	u.packet = p

	if u.machine.Logging() {
		if err := u.log.Append(&u.packet); err != nil {
			log.Warn("log append failed", "err", err)
		}
	}
}

// transmit encodes the latest packet and fires it at the broadcast partner.
func (u *Unit) transmit(ctx context.Context) {
	log := logging.FromContext(ctx)
	if err := u.transport.Send(u.dest, wire.EncodeTelemetry(&u.packet)); err != nil {
		u.stats.SendFailures++
		log.Warn("transmit rejected", "err", err)
		if err := u.transport.Reinit(); err != nil {
			log.Error("link re-init failed", "err", err)
		} else {
			log.Info("link re-initialized")
		}
		return
	}
	u.stats.PacketsSent++
}

func (u *Unit) millis(now time.Time) int64 {
	return now.Sub(u.bootTime).Milliseconds()
}

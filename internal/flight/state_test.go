package flight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"rocketlink/internal/flightlog"
	"rocketlink/internal/wire"
)

func validCommand(kind wire.CommandKind, seq uint16) *wire.ControlCommand {
	c := &wire.ControlCommand{Kind: kind, Timestamp: 1000, Seq: seq}
	wire.EncodeCommand(c) // fills in the checksum
	return c
}

func TestStartFlightOpensExactlyOneLog(t *testing.T) {
	dir := t.TempDir()
	st, _ := flightlog.NewDirStorage(dir)
	flog := flightlog.New(st)
	m := NewMachine(flog, nil)

	m.Apply(validCommand(wire.CommandStartFlight, 0), 12_000)
	if m.State() != FlightActive {
		t.Fatalf("state = %v, want FlightActive", m.State())
	}
	if !flog.IsOpen() {
		t.Fatal("log should be open")
	}
	if flog.Name() != "flight_log_000012.csv" {
		t.Errorf("log name = %q", flog.Name())
	}

	// A repeated StartFlight mid-flight is a no-op: no second log.
	m.Apply(validCommand(wire.CommandStartFlight, 1), 13_000)
	if m.State() != FlightActive {
		t.Fatalf("state = %v after repeated start", m.State())
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Fatalf("found %d log files, want 1", len(entries))
	}
}

func TestEndFlightFinalizesLog(t *testing.T) {
	dir := t.TempDir()
	st, _ := flightlog.NewDirStorage(dir)
	flog := flightlog.New(st)
	m := NewMachine(flog, nil)

	m.Apply(validCommand(wire.CommandStartFlight, 0), 12_000)
	m.Apply(validCommand(wire.CommandEndFlight, 1), 54_500)
	if m.State() != PostFlight {
		t.Fatalf("state = %v, want PostFlight", m.State())
	}
	if flog.IsOpen() {
		t.Fatal("log should be finalized")
	}

	data, err := os.ReadFile(filepath.Join(dir, "flight_log_000012.csv"))
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	last := lines[len(lines)-1]
	if last != "# flight_duration_s,42.5" {
		t.Errorf("duration marker = %q", last)
	}
}

func TestEndFlightOnGroundIsNoOp(t *testing.T) {
	st, _ := flightlog.NewDirStorage(t.TempDir())
	flog := flightlog.New(st)
	m := NewMachine(flog, nil)

	m.Apply(validCommand(wire.CommandEndFlight, 0), 5_000)
	if m.State() != Ground {
		t.Fatalf("state = %v, want Ground", m.State())
	}
	if flog.IsOpen() {
		t.Fatal("no log should have been touched")
	}
}

func TestReservedCommandsDoNotTransition(t *testing.T) {
	m := NewMachine(nil, nil)
	m.Apply(validCommand(wire.CommandAbortMission, 0), 1_000)
	m.Apply(validCommand(wire.CommandResetSystem, 1), 2_000)
	if m.State() != Ground {
		t.Fatalf("state = %v, reserved commands must not transition", m.State())
	}
}

func TestMissionSurvivesStorageFailure(t *testing.T) {
	// No storage at all: the machine still enters FlightActive and the
	// mission continues without a log.
	m := NewMachine(nil, nil)
	m.Apply(validCommand(wire.CommandStartFlight, 0), 3_000)
	if m.State() != FlightActive {
		t.Fatalf("state = %v, want FlightActive despite missing storage", m.State())
	}
	if m.Logging() {
		t.Fatal("Logging() must be false without a log")
	}
	m.Apply(validCommand(wire.CommandEndFlight, 1), 9_000)
	if m.State() != PostFlight {
		t.Fatalf("state = %v, want PostFlight", m.State())
	}
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{
		Ground: "ground", PreFlight: "pre_flight",
		FlightActive: "flight_active", PostFlight: "post_flight",
		State(42): "unknown",
	} {
		if got := s.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", s, got, want)
		}
	}
}

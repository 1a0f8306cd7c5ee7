package flight

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rocketlink/internal/flightlog"
	"rocketlink/internal/fusion"
	"rocketlink/internal/link"
	"rocketlink/internal/logging"
	"rocketlink/internal/pacing"
	"rocketlink/internal/sensors"
	"rocketlink/internal/wire"
)

// stubSource yields a constant level reading.
type stubSource struct {
	initErr error
	reads   int
}

func (s *stubSource) Init() error { return s.initErr }

func (s *stubSource) Read() (sensors.Reading, error) {
	s.reads++
	return sensors.Reading{
		Accel:       fusion.Vec3{Z: 9.8},
		Temperature: 25,
		Pressure:    1010,
		Altitude:    3,
		Voltage:     4.0,
		GPS:         sensors.GPSFix{Latitude: -15.7, Longitude: -47.9, Altitude: 1172, Day: 14, Month: 6, Year: 2025},
	}, nil
}

func quietCtx() context.Context {
	l := slog.New(slog.NewTextHandler(io.Discard, nil))
	return logging.NewContext(context.Background(), l)
}

func newTestUnit(t *testing.T, dir string) (*Unit, *link.Loopback) {
	t.Helper()
	st, err := flightlog.NewDirStorage(dir)
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	a, b := link.NewLoopbackPair()
	u, err := NewUnit(&stubSource{}, a, st, link.TelemetryTopic, Capabilities{SD: true, GPS: true}, pacing.New(100*time.Millisecond, 500*time.Millisecond))
	if err != nil {
		t.Fatalf("NewUnit: %v", err)
	}
	return u, b
}

func TestSensorInitFailureIsFatal(t *testing.T) {
	a, _ := link.NewLoopbackPair()
	_, err := NewUnit(&stubSource{initErr: os.ErrPermission}, a, nil, "t", Capabilities{}, nil)
	if err == nil {
		t.Fatal("NewUnit must refuse to start without sensors")
	}
}

func TestMalformedCommandsNeverReachStateMachine(t *testing.T) {
	u, _ := newTestUnit(t, t.TempDir())
	ctx := quietCtx()
	t0 := u.bootTime

	// Wrong length.
	u.mailbox.Put([]byte{1, 2, 3})
	u.Step(ctx, t0.Add(10*time.Millisecond))

	// Right length, corrupted checksum.
	b := wire.EncodeCommand(&wire.ControlCommand{Kind: wire.CommandStartFlight, Seq: 0})
	b[0] ^= 0xFF
	u.mailbox.Put(b)
	u.Step(ctx, t0.Add(20*time.Millisecond))

	if u.State() != Ground {
		t.Fatalf("state = %v, corrupted commands must be dropped", u.State())
	}
	if got := u.Stats().CommandsDropped; got != 2 {
		t.Errorf("CommandsDropped = %d, want 2", got)
	}
	if got := u.Stats().CommandsApplied; got != 0 {
		t.Errorf("CommandsApplied = %d, want 0", got)
	}
}

func TestFlightScenario(t *testing.T) {
	dir := t.TempDir()
	u, ground := newTestUnit(t, dir)
	ctx := quietCtx()
	t0 := u.bootTime

	received := make(chan []byte, 16)
	ground.HandleReceive(func(p []byte) {
		buf := make([]byte, len(p))
		copy(buf, p)
		received <- buf
	})

	var seq wire.Sequencer

	// Two idle sampling ticks: the first seeds the fusion filter.
	u.Step(ctx, t0.Add(100*time.Millisecond))
	u.Step(ctx, t0.Add(200*time.Millisecond))

	// Ground sends StartFlight (seq 0) twelve seconds after boot.
	start := wire.ControlCommand{Kind: wire.CommandStartFlight, Timestamp: 12000, Seq: seq.Next()}
	u.mailbox.Put(wire.EncodeCommand(&start))
	u.Step(ctx, t0.Add(12*time.Second))

	if u.State() != FlightActive {
		t.Fatalf("state = %v, want FlightActive", u.State())
	}

	// Four more sampling ticks: five logged rows in total.
	for i := 1; i <= 4; i++ {
		u.Step(ctx, t0.Add(12*time.Second+time.Duration(i)*100*time.Millisecond))
	}

	// Ground sends EndFlight (seq 1).
	end := wire.ControlCommand{Kind: wire.CommandEndFlight, Timestamp: 54500, Seq: seq.Next()}
	u.mailbox.Put(wire.EncodeCommand(&end))
	u.Step(ctx, t0.Add(54500*time.Millisecond))

	if u.State() != PostFlight {
		t.Fatalf("state = %v, want PostFlight", u.State())
	}

	data, err := os.ReadFile(filepath.Join(dir, "flight_log_000012.csv"))
	if err != nil {
		t.Fatalf("flight log missing: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 7 {
		t.Fatalf("log has %d lines, want header + 5 rows + marker:\n%s", len(lines), data)
	}
	if lines[0] != strings.Join(flightlog.Header, ",") {
		t.Errorf("header row = %q", lines[0])
	}
	if lines[6] != "# flight_duration_s,42.5" {
		t.Errorf("duration marker = %q", lines[6])
	}

	// Transmissions fired along the way; every frame on the air is a
	// well-formed telemetry packet.
	select {
	case frame := <-received:
		p, err := wire.DecodeTelemetry(frame)
		if err != nil {
			t.Fatalf("ground received undecodable frame: %v", err)
		}
		if p.Temperature != 25 {
			t.Errorf("temperature = %v, want 25", p.Temperature)
		}
	case <-time.After(time.Second):
		t.Fatal("ground never received telemetry")
	}
}

func TestSendFailureTriggersSingleReinit(t *testing.T) {
	dir := t.TempDir()
	st, _ := flightlog.NewDirStorage(dir)
	a, _ := link.NewLoopbackPair()
	u, err := NewUnit(&stubSource{}, a, st, link.TelemetryTopic, Capabilities{SD: true}, pacing.New(100*time.Millisecond, 100*time.Millisecond))
	if err != nil {
		t.Fatalf("NewUnit: %v", err)
	}
	ctx := quietCtx()
	t0 := u.bootTime

	a.FailWith(link.ErrNoMemory)

	// Seed the filter, then transmit into the forced failure.
	u.Step(ctx, t0.Add(100*time.Millisecond))
	u.Step(ctx, t0.Add(200*time.Millisecond))

	deadline := time.Now().Add(time.Second)
	for !u.reinitPending.Load() && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	if !u.reinitPending.Load() {
		t.Fatal("send failure never surfaced")
	}

	// Loopback's Reinit clears the forced failure, so the next cycle
	// transmits cleanly again.
	u.Step(ctx, t0.Add(300*time.Millisecond))
	if a.Failing() {
		t.Fatal("re-init was not attempted")
	}
	if u.Stats().SendFailures == 0 {
		t.Error("send failure not counted")
	}
}

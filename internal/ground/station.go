// Ground station core: receive staging, packet acceptance, command issuing.
package ground

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/denisbrodbeck/machineid"
	"github.com/google/uuid"

	"rocketlink/internal/link"
	"rocketlink/internal/logging"
	"rocketlink/internal/wire"
)

// Row is one accepted telemetry packet enriched with ground-side context,
// the unit every writer consumes.
type Row struct {
	SessionID   string               `json:"session_id"`
	Packet      wire.TelemetryPacket `json:"packet"`
	BaseVoltage float64              `json:"voltage_base"`
	ReceivedAt  time.Time            `json:"received_at"`
}

// TelemetryWriter is an interface to support different output sinks.
type TelemetryWriter interface {
	Write(Row) error
}

// VoltageProbe reads the ground-side supply rail. The original hardware
// samples an ADC pin every loop; here it is any callable.
type VoltageProbe func() float64

// Stats counts protocol-level events on the ground station.
type Stats struct {
	PacketsAccepted int
	PacketsRejected int
	CommandsSent    int
}

// Station is the ground-side telemetry core. The transport receive callback
// stages raw buffers in a single-slot mailbox; the Run loop is the sole
// consumer, decoder, and mutator of the latest-packet slot.
type Station struct {
	transport link.Transport
	dest      string // command topic
	probe     VoltageProbe
	writers   []TelemetryWriter

	sessionID string
	nodeID    string
	started   time.Time

	seq     wire.Sequencer
	mailbox link.Mailbox

	mu       sync.Mutex
	latest   wire.TelemetryPacket // overwritten wholesale per accepted packet
	lastSeen time.Time
	stats    Stats
}

// NewStation wires a ground station. dest is the command broadcast topic;
// writers may be nil.
func NewStation(transport link.Transport, dest string, probe VoltageProbe, writers ...TelemetryWriter) *Station {
	node, err := machineid.ProtectedID("rocketlink")
	if err != nil {
		node = "unknown"
	} else if len(node) > 12 {
		node = node[:12]
	}
	s := &Station{
		transport: transport,
		dest:      dest,
		probe:     probe,
		writers:   writers,
		sessionID: uuid.NewString(),
		nodeID:    node,
		started:   time.Now(),
	}
	transport.HandleReceive(s.mailbox.Put)
	return s
}

// AddWriter registers an additional telemetry sink. Writers that need the
// session identity are built after the station and attached here; must be
// called before Run.
func (s *Station) AddWriter(w TelemetryWriter) {
	s.writers = append(s.writers, w)
}

// SessionID returns the uuid minted for this ground session. Sequence ids
// restart from zero with each session.
func (s *Station) SessionID() string { return s.sessionID }

// NodeID returns the stable machine-derived identity of this station.
func (s *Station) NodeID() string { return s.nodeID }

// Latest returns a copy of the most recently accepted packet, the age of
// that acceptance, and whether any packet has arrived yet.
func (s *Station) Latest() (wire.TelemetryPacket, time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest, s.lastSeen, !s.lastSeen.IsZero()
}

// BaseVoltage reads the local supply probe.
func (s *Station) BaseVoltage() float64 {
	if s.probe == nil {
		return 0
	}
	return s.probe()
}

// Stats returns a copy of the protocol counters.
func (s *Station) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// SendCommand builds, checksums and fires one control command. Commands are
// fire-and-forget; there is no acknowledgment and no retransmission.
func (s *Station) SendCommand(kind wire.CommandKind) (uint16, error) {
	cmd := &wire.ControlCommand{
		Kind:      kind,
		Timestamp: uint32(time.Since(s.started).Milliseconds()),
		Seq:       s.seq.Next(),
	}
	if err := s.transport.Send(s.dest, wire.EncodeCommand(cmd)); err != nil {
		return cmd.Seq, fmt.Errorf("ground: send %s: %w", kind, err)
	}
	s.mu.Lock()
	s.stats.CommandsSent++
	s.mu.Unlock()
	return cmd.Seq, nil
}

// Run consumes staged buffers until ctx is done.
func (s *Station) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("ground station up", "session", s.sessionID, "node", s.nodeID)

	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.Consume(ctx)
		case <-ctx.Done():
			log.Info("ground station stopping")
			return
		}
	}
}

// Consume processes at most one staged buffer: size check first, then the
// whole packet replaces the previous one; a malformed buffer is counted and
// dropped without touching the latest-packet slot.
func (s *Station) Consume(ctx context.Context) {
	payload, ok := s.mailbox.Take()
	if !ok {
		return
	}
	log := logging.FromContext(ctx)

	p, err := wire.DecodeTelemetry(payload)
	if err != nil {
		s.mu.Lock()
		s.stats.PacketsRejected++
		s.mu.Unlock()
		log.Warn("telemetry rejected", "err", err, "len", len(payload))
		return
	}

	now := time.Now()
	s.mu.Lock()
	s.latest = *p
	s.lastSeen = now
	s.stats.PacketsAccepted++
	s.mu.Unlock()

	row := Row{
		SessionID:   s.sessionID,
		Packet:      *p,
		BaseVoltage: s.BaseVoltage(),
		ReceivedAt:  now,
	}
	for _, w := range s.writers {
		if err := w.Write(row); err != nil {
			log.Error("telemetry write failed", "err", err)
		}
	}
}

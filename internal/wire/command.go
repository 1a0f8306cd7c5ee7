package wire

import "encoding/binary"

// CommandKind identifies a ground -> flight control command.
type CommandKind uint32

const (
	CommandNone CommandKind = iota
	CommandStartFlight
	CommandEndFlight
	CommandAbortMission // reserved, not wired to a transition
	CommandResetSystem  // reserved, not wired to a transition
)

func (k CommandKind) String() string {
	switch k {
	case CommandNone:
		return "none"
	case CommandStartFlight:
		return "start_flight"
	case CommandEndFlight:
		return "end_flight"
	case CommandAbortMission:
		return "abort_mission"
	case CommandResetSystem:
		return "reset_system"
	}
	return "unknown"
}

// CommandSize is the exact encoded length of a ControlCommand.
const CommandSize = 12

// checksumSpan is the number of leading bytes the checksum covers: kind,
// timestamp and sequence id. The checksum byte itself and the trailing
// reserved byte are excluded.
const checksumSpan = 10

// ControlCommand is the small fixed-layout command sent ground -> flight.
// Wire layout, little-endian, no padding:
//
//	Kind(4) | Timestamp(4) | Seq(2) | Checksum(1) | Reserved(1)
//
// The sequence id increments by one per command issued in a ground session
// and wraps at 65536; wraparound alone is never an error.
type ControlCommand struct {
	Kind      CommandKind
	Timestamp uint32 // ms since sender boot
	Seq       uint16
	Checksum  uint8
}

// EncodeCommand serializes c, computing its checksum, into a fresh buffer of
// exactly CommandSize bytes. The reserved trailing byte is always zero.
func EncodeCommand(c *ControlCommand) []byte {
	b := make([]byte, CommandSize)
	binary.LittleEndian.PutUint32(b[0:], uint32(c.Kind))
	binary.LittleEndian.PutUint32(b[4:], c.Timestamp)
	binary.LittleEndian.PutUint16(b[8:], c.Seq)
	b[10] = sum(b[:checksumSpan])
	c.Checksum = b[10]
	return b
}

// DecodeCommand parses a buffer produced by EncodeCommand. A buffer of the
// wrong length yields ErrSizeMismatch and no partial result. The checksum is
// carried over verbatim; validity is a separate question answered by IsValid.
func DecodeCommand(b []byte) (*ControlCommand, error) {
	if len(b) != CommandSize {
		return nil, ErrSizeMismatch
	}
	return &ControlCommand{
		Kind:      CommandKind(binary.LittleEndian.Uint32(b[0:])),
		Timestamp: binary.LittleEndian.Uint32(b[4:]),
		Seq:       binary.LittleEndian.Uint16(b[8:]),
		Checksum:  b[10],
	}, nil
}

// IsValid recomputes the checksum over every byte preceding the checksum
// field and compares it with the carried value. Out-of-order or repeated
// sequence ids are deliberately not rejected here; the guard validates
// integrity, not ordering.
func (c *ControlCommand) IsValid() bool {
	var b [checksumSpan]byte
	binary.LittleEndian.PutUint32(b[0:], uint32(c.Kind))
	binary.LittleEndian.PutUint32(b[4:], c.Timestamp)
	binary.LittleEndian.PutUint16(b[8:], c.Seq)
	return c.Checksum == sum(b[:])
}

func sum(b []byte) uint8 {
	var s uint8
	for _, v := range b {
		s += v
	}
	return s
}

// Fixed-layout telemetry packet codec for the rocket downlink.
package wire

import (
	"encoding/binary"
	"math"
)

// TelemetrySize is the exact encoded length of a TelemetryPacket.
// Both link ends check an incoming buffer against this constant before
// interpreting a single byte of it.
const TelemetrySize = 92

// TelemetryPacket is one sensor snapshot sent flight -> ground.
// Field order matches the wire layout; every field is packed little-endian
// with no padding, so the encoded form is identical on every platform.
type TelemetryPacket struct {
	AccelX float32 // linear acceleration, m/s^2
	AccelY float32
	AccelZ float32
	GyroX  float32 // angular rate, rad/s
	GyroY  float32
	GyroZ  float32

	Temperature float32 // deg C
	Pitch       float32 // fused, degrees
	Roll        float32 // fused, degrees

	Pressure float32 // hPa
	Altitude float32 // barometric, m

	VoltageRocket float32 // rocket-side supply, V
	VoltageBase   float32 // ground-side supply; populated by the receiver, carried in the layout

	Latitude    float32 // decimal degrees
	Longitude   float32
	GPSAltitude float32 // m

	Day    int32 // GPS UTC calendar/time
	Month  int32
	Year   int32
	Hour   int32
	Minute int32
	Second int32

	Timestamp float32 // monotonic ms since flight-unit boot
}

// EncodeTelemetry serializes p into a fresh buffer of exactly TelemetrySize
// bytes.
func EncodeTelemetry(p *TelemetryPacket) []byte {
	b := make([]byte, TelemetrySize)
	off := 0
	for _, f := range []float32{
		p.AccelX, p.AccelY, p.AccelZ,
		p.GyroX, p.GyroY, p.GyroZ,
		p.Temperature, p.Pitch, p.Roll,
		p.Pressure, p.Altitude,
		p.VoltageRocket, p.VoltageBase,
		p.Latitude, p.Longitude, p.GPSAltitude,
	} {
		binary.LittleEndian.PutUint32(b[off:], math.Float32bits(f))
		off += 4
	}
	for _, n := range []int32{p.Day, p.Month, p.Year, p.Hour, p.Minute, p.Second} {
		binary.LittleEndian.PutUint32(b[off:], uint32(n))
		off += 4
	}
	binary.LittleEndian.PutUint32(b[off:], math.Float32bits(p.Timestamp))
	return b
}

// DecodeTelemetry parses a buffer produced by EncodeTelemetry. It fails
// atomically: a buffer whose length differs from TelemetrySize yields
// ErrSizeMismatch and no partially populated packet.
func DecodeTelemetry(b []byte) (*TelemetryPacket, error) {
	if len(b) != TelemetrySize {
		return nil, ErrSizeMismatch
	}
	f32 := func(off int) float32 {
		return math.Float32frombits(binary.LittleEndian.Uint32(b[off:]))
	}
	i32 := func(off int) int32 {
		return int32(binary.LittleEndian.Uint32(b[off:]))
	}
	p := &TelemetryPacket{
		AccelX:        f32(0),
		AccelY:        f32(4),
		AccelZ:        f32(8),
		GyroX:         f32(12),
		GyroY:         f32(16),
		GyroZ:         f32(20),
		Temperature:   f32(24),
		Pitch:         f32(28),
		Roll:          f32(32),
		Pressure:      f32(36),
		Altitude:      f32(40),
		VoltageRocket: f32(44),
		VoltageBase:   f32(48),
		Latitude:      f32(52),
		Longitude:     f32(56),
		GPSAltitude:   f32(60),
		Day:           i32(64),
		Month:         i32(68),
		Year:          i32(72),
		Hour:          i32(76),
		Minute:        i32(80),
		Second:        i32(84),
		Timestamp:     f32(88),
	}
	return p, nil
}

package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func samplePacket() *TelemetryPacket {
	return &TelemetryPacket{
		AccelX: 0.12, AccelY: -0.03, AccelZ: 9.81,
		GyroX: 0.01, GyroY: -0.2, GyroZ: 1.5,
		Temperature: 24.5, Pitch: 3.2, Roll: -1.7,
		Pressure: 1013.25, Altitude: 87.4,
		VoltageRocket: 3.91, VoltageBase: 4.12,
		Latitude: -15.7801, Longitude: -47.9292, GPSAltitude: 1172.0,
		Day: 14, Month: 6, Year: 2025, Hour: 13, Minute: 42, Second: 9,
		Timestamp: 123456,
	}
}

func TestTelemetryRoundTrip(t *testing.T) {
	p := samplePacket()
	b := EncodeTelemetry(p)
	require.Len(t, b, TelemetrySize)

	got, err := DecodeTelemetry(b)
	require.NoError(t, err)
	assert.Equal(t, p, got)
}

func TestTelemetryZeroValueRoundTrip(t *testing.T) {
	b := EncodeTelemetry(&TelemetryPacket{})
	got, err := DecodeTelemetry(b)
	require.NoError(t, err)
	assert.Equal(t, &TelemetryPacket{}, got)
}

func TestDecodeTelemetrySizeMismatch(t *testing.T) {
	for _, n := range []int{0, 1, TelemetrySize - 1, TelemetrySize + 1, 256} {
		p, err := DecodeTelemetry(make([]byte, n))
		assert.ErrorIs(t, err, ErrSizeMismatch, "len=%d", n)
		assert.Nil(t, p, "len=%d", n)
	}
}

func TestTelemetryEncodedFieldOffsets(t *testing.T) {
	// Pitch sits at offset 28, Day at 64; a layout change must fail here
	// rather than surface as garbage on the other end of the link.
	p := samplePacket()
	b := EncodeTelemetry(p)

	q, err := DecodeTelemetry(b)
	require.NoError(t, err)
	assert.Equal(t, p.Pitch, q.Pitch)

	b2 := make([]byte, TelemetrySize)
	copy(b2, b)
	copy(b2[28:32], []byte{0, 0, 0, 0})
	q2, err := DecodeTelemetry(b2)
	require.NoError(t, err)
	assert.Equal(t, float32(0), q2.Pitch)
	assert.Equal(t, p.Roll, q2.Roll)
	assert.Equal(t, p.Day, q2.Day)
}

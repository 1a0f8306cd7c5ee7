package ground

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"rocketlink/internal/flightlog"
	"rocketlink/internal/wire"
)

// ReplayLog replays flight-log rows from r to writer. A speed >0 paces
// playback by the recorded timestamp deltas. If speed <= 0, no artificial
// delay is inserted. The header row and the trailing duration marker are
// skipped.
func ReplayLog(r io.Reader, sessionID string, writer TelemetryWriter, speed float64) error {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.FieldsPerRecord = -1

	var prev float64
	first := true
	for {
		record, err := cr.Read()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
		if record[0] == flightlog.Header[0] {
			continue
		}
		p, err := parseRow(record)
		if err != nil {
			return err
		}
		ts := float64(p.Timestamp)
		if !first && speed > 0 {
			diff := time.Duration((ts - prev) * float64(time.Millisecond))
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		row := Row{SessionID: sessionID, Packet: p, ReceivedAt: time.Now().UTC()}
		if err := writer.Write(row); err != nil {
			return err
		}
		prev = ts
		first = false
	}
}

// ReplayLogFile opens a flight-log artifact and replays its rows.
func ReplayLogFile(path, sessionID string, writer TelemetryWriter, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(f, sessionID, writer, speed)
}

func parseRow(record []string) (wire.TelemetryPacket, error) {
	var p wire.TelemetryPacket
	if len(record) != len(flightlog.Header) {
		return p, fmt.Errorf("replay: row has %d columns, want %d: %s",
			len(record), len(flightlog.Header), strings.Join(record, ","))
	}
	f := func(i int) float32 {
		v, _ := strconv.ParseFloat(record[i], 32)
		return float32(v)
	}
	n := func(i int) int32 {
		v, _ := strconv.ParseInt(record[i], 10, 32)
		return int32(v)
	}
	p.Timestamp = f(0)
	p.AccelX, p.AccelY, p.AccelZ = f(1), f(2), f(3)
	p.GyroX, p.GyroY, p.GyroZ = f(4), f(5), f(6)
	p.Temperature, p.Pitch, p.Roll = f(7), f(8), f(9)
	p.Pressure, p.Altitude = f(10), f(11)
	p.VoltageRocket = f(12)
	p.Latitude, p.Longitude, p.GPSAltitude = f(13), f(14), f(15)
	p.Day, p.Month, p.Year = n(16), n(17), n(18)
	p.Hour, p.Minute, p.Second = n(19), n(20), n(21)
	return p, nil
}

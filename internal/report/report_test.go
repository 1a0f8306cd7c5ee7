package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const sampleLog = `timestamp_ms,acc_x,acc_y,acc_z,gyro_x,gyro_y,gyro_z,temp_c,pitch_deg,roll_deg,pressure_hpa,altitude_m,voltage_rocket_v,lat,lon,gps_alt_m,gps_day,gps_month,gps_year,gps_hour,gps_minute,gps_second
1000,0,0,9.8,0,0,0,21,1.0,0,1012,5,3.9,0,0,0,0,0,0,0,0,0
2000,0,0,38.5,0,0,0,21,45.2,0,1008,22,3.9,0,0,0,0,0,0,0,0,0
3500,0,0,9.8,0,0,0,21,-12.5,0,1010,14,3.8,0,0,0,0,0,0,0,0,0
# flight_duration_s,2.5
`

func writeSample(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "flight_log_000012.csv")
	if err := os.WriteFile(path, []byte(sampleLog), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(writeSample(t))
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	if s.Rows != 3 {
		t.Errorf("rows = %d, want 3", s.Rows)
	}
	if s.ApogeeM != 22 {
		t.Errorf("apogee = %v, want 22", s.ApogeeM)
	}
	if s.DurationS != 2.5 {
		t.Errorf("duration = %v, want 2.5", s.DurationS)
	}
	if s.MaxAccelMS2 < 38 || s.MaxAccelMS2 > 39 {
		t.Errorf("max accel = %v", s.MaxAccelMS2)
	}
	if s.MaxPitchDeg < 45.1 || s.MaxPitchDeg > 45.3 {
		t.Errorf("max pitch = %v", s.MaxPitchDeg)
	}
}

func TestRenderWritesReport(t *testing.T) {
	out := filepath.Join(t.TempDir(), "report", "flight.html")
	if err := Render(writeSample(t), out); err != nil {
		t.Fatalf("Render: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	html := string(data)
	if !strings.Contains(html, "flight_log_000012.csv") {
		t.Error("artifact name missing")
	}
	if !strings.Contains(html, "22.0") {
		t.Error("apogee missing")
	}
}

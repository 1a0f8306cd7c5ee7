// Package report renders a static post-flight HTML report from a flight-log
// artifact.
package report

import (
	"embed"
	"html/template"
	"math"
	"os"
	"path/filepath"
	"strings"

	"rocketlink/internal/ground"
)

//go:embed templates/report.html
var content embed.FS

// Summary aggregates one flight-log artifact.
type Summary struct {
	Source      string
	Rows        int
	DurationS   float64
	ApogeeM     float64
	MaxAccelMS2 float64
	MaxPitchDeg float64
	Records     []ground.Row
}

type collector struct {
	rows []ground.Row
}

func (c *collector) Write(row ground.Row) error {
	c.rows = append(c.rows, row)
	return nil
}

// Summarize replays a flight-log artifact and computes its headline figures.
func Summarize(path string) (*Summary, error) {
	c := &collector{}
	if err := ground.ReplayLogFile(path, "report", c, 0); err != nil {
		return nil, err
	}
	s := &Summary{
		Source:  filepath.Base(path),
		Rows:    len(c.rows),
		Records: c.rows,
	}
	for _, r := range c.rows {
		p := r.Packet
		if float64(p.Altitude) > s.ApogeeM {
			s.ApogeeM = float64(p.Altitude)
		}
		a := math.Sqrt(float64(p.AccelX*p.AccelX + p.AccelY*p.AccelY + p.AccelZ*p.AccelZ))
		if a > s.MaxAccelMS2 {
			s.MaxAccelMS2 = a
		}
		if pitch := math.Abs(float64(p.Pitch)); pitch > s.MaxPitchDeg {
			s.MaxPitchDeg = pitch
		}
	}
	if len(c.rows) > 1 {
		first := float64(c.rows[0].Packet.Timestamp)
		last := float64(c.rows[len(c.rows)-1].Packet.Timestamp)
		s.DurationS = (last - first) / 1000
	}
	return s, nil
}

// Render writes the HTML report for a flight-log artifact to outPath.
func Render(logPath, outPath string) error {
	s, err := Summarize(logPath)
	if err != nil {
		return err
	}
	tpl := template.Must(template.New("report.html").ParseFS(content, "templates/report.html"))

	var b strings.Builder
	if err := tpl.Execute(&b, s); err != nil {
		return err
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(outPath, []byte(b.String()), 0o644)
}

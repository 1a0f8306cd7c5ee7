package sensors

import (
	"math"
	"math/rand"
	"time"

	"rocketlink/internal/fusion"
)

// SimSource synthesizes a plausible water-rocket profile for bench runs and
// tests: a short boost, coast to apogee, then descent, with small noise on
// every channel.
type SimSource struct {
	start    time.Time
	rand     *rand.Rand
	seaLevel float64
}

// NewSimSource returns a simulated source. seaLevelHPa anchors the pressure
// channel; pass 0 for the standard atmosphere.
func NewSimSource(seaLevelHPa float64, seed int64) *SimSource {
	if seaLevelHPa <= 0 {
		seaLevelHPa = 1013.25
	}
	return &SimSource{
		rand:     rand.New(rand.NewSource(seed)),
		seaLevel: seaLevelHPa,
	}
}

func (s *SimSource) Init() error {
	s.start = time.Now()
	return nil
}

func (s *SimSource) Read() (Reading, error) {
	t := time.Since(s.start).Seconds()
	alt := altitudeProfile(t)

	// Boost shows up as a strong +Z acceleration for the first half second.
	accZ := 9.81
	if t < 0.5 {
		accZ += 30 * (1 - t/0.5)
	}

	noise := func(scale float64) float64 { return (s.rand.Float64()*2 - 1) * scale }

	// Barometric formula inverted around the configured sea-level reference.
	pressure := s.seaLevel * math.Pow(1-alt/44330.0, 5.255)

	now := time.Now().UTC()
	return Reading{
		Accel:       fusion.Vec3{X: noise(0.3), Y: noise(0.3), Z: accZ + noise(0.2)},
		Gyro:        fusion.Vec3{X: noise(0.05), Y: noise(0.05), Z: noise(0.02)},
		Temperature: 24.0 + noise(0.5),
		Pressure:    pressure,
		Altitude:    alt + noise(0.3),
		Voltage:     4.1 - 0.001*t + noise(0.01),
		GPS: GPSFix{
			Latitude:  -15.7801 + noise(0.00005),
			Longitude: -47.9292 + noise(0.00005),
			Altitude:  1172 + alt,
			Day:       now.Day(),
			Month:     int(now.Month()),
			Year:      now.Year(),
			Hour:      now.Hour(),
			Minute:    now.Minute(),
			Second:    now.Second(),
		},
	}, nil
}

// altitudeProfile is a crude ballistic arc: up for ~4s, apogee ~35m, down.
func altitudeProfile(t float64) float64 {
	const v0, g = 18.0, 9.81
	h := v0*t - 0.5*g*t*t
	if h < 0 {
		return 0
	}
	return h
}

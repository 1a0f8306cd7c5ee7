// YAML config loader with CUE validation integration
package config

import (
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Link holds the radio/transport settings shared by both ends.
type Link struct {
	Broker  string `yaml:"broker"`
	Channel string `yaml:"channel"`
}

// Rocket configures the airborne unit: pacing, log storage, and which
// optional hardware is fitted.
type Rocket struct {
	SampleIntervalMS    int     `yaml:"sample_interval_ms"`
	TransmitIntervalMS  int     `yaml:"transmit_interval_ms"`
	LogDir              string  `yaml:"log_dir"`
	HasSD               bool    `yaml:"has_sd"`
	HasGPS              bool    `yaml:"has_gps"`
	SeaLevelPressureHPA float64 `yaml:"sea_level_pressure_hpa"`
}

// Ground configures the base station: admin surface and telemetry sinks.
type Ground struct {
	AdminAddr        string `yaml:"admin_addr"`
	ArchivePath      string `yaml:"archive_path"`
	GreptimeEndpoint string `yaml:"greptime_endpoint"`
	GreptimeTable    string `yaml:"greptime_table"`
	TUI              bool   `yaml:"tui"`
}

// Config is the root configuration for a rocketlink deployment.
type Config struct {
	Link   Link   `yaml:"link"`
	Rocket Rocket `yaml:"rocket"`
	Ground Ground `yaml:"ground"`
}

// SampleInterval returns the sensor pacing as a duration, falling back
// to the firmware default when unset.
func (r Rocket) SampleInterval() time.Duration {
	if r.SampleIntervalMS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(r.SampleIntervalMS) * time.Millisecond
}

// TransmitInterval returns the downlink pacing as a duration.
func (r Rocket) TransmitInterval() time.Duration {
	if r.TransmitIntervalMS <= 0 {
		return 500 * time.Millisecond
	}
	return time.Duration(r.TransmitIntervalMS) * time.Millisecond
}

// Load loads YAML config and validates it against a CUE schema
func Load(configPath, cueSchemaPath string) (*Config, error) {
	// Validate with CUE first
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	log.Printf("Loaded configuration: %+v", cfg)

	return &cfg, nil
}

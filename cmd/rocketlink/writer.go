package main

import (
	"rocketlink/internal/config"
	"rocketlink/internal/ground"
)

// newWriters assembles the telemetry sinks for a ground session based on the
// configuration. It returns the writers and a cleanup function to close any
// resources.
func newWriters(cfg *config.Config, sessionID, nodeID string) ([]ground.TelemetryWriter, func(), error) {
	var writers []ground.TelemetryWriter
	var closers []func() error

	if cfg.Ground.TUI {
		writers = append(writers, ground.NewTUIWriter(sessionID))
	} else {
		writers = append(writers, &ground.StdoutWriter{})
	}

	if cfg.Ground.ArchivePath != "" {
		st := ground.NewStore(cfg.Ground.ArchivePath, sessionID, nodeID)
		writers = append(writers, st)
		closers = append(closers, st.Close)
	}

	if cfg.Ground.GreptimeEndpoint != "" {
		table := cfg.Ground.GreptimeTable
		if table == "" {
			table = "rocket_telemetry"
		}
		gw, err := ground.NewGreptimeWriter(cfg.Ground.GreptimeEndpoint, "public", table)
		if err != nil {
			return nil, nil, err
		}
		writers = append(writers, gw)
	}

	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}
	return writers, cleanup, nil
}

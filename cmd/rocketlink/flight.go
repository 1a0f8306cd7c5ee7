package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"rocketlink/internal/config"
	"rocketlink/internal/flight"
	"rocketlink/internal/flightlog"
	"rocketlink/internal/link"
	"rocketlink/internal/logging"
	"rocketlink/internal/pacing"
	"rocketlink/internal/sensors"
)

var (
	flightConfigPath string
	flightSchemaPath string
	flightSeed       int64
)

var flightCmd = &cobra.Command{
	Use:   "flight",
	Short: "Run the rocket-side flight unit",
	Long:  "flight starts the airborne control loop: sample sensors, fuse attitude, log while a flight is active, and downlink telemetry.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(flightConfigPath, flightSchemaPath)
		if err != nil {
			return err
		}

		logger := logging.New()

		transport, err := link.NewMQTTTransport(
			cfg.Link.Broker,
			"rocketlink-flight",
			link.Topic(cfg.Link.Channel, link.CommandTopic),
		)
		if err != nil {
			return err
		}
		defer transport.Close()

		var storage flightlog.Storage
		if cfg.Rocket.HasSD {
			ds, err := flightlog.NewDirStorage(cfg.Rocket.LogDir)
			if err != nil {
				// Missing storage degrades logging, never the mission.
				logger.Warn("flight-log storage unavailable, logging disabled", "err", err)
			} else {
				storage = ds
			}
		}

		seed := flightSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		source := sensors.NewSimSource(cfg.Rocket.SeaLevelPressureHPA, seed)
		governor := pacing.New(cfg.Rocket.SampleInterval(), cfg.Rocket.TransmitInterval())

		unit, err := flight.NewUnit(source, transport, storage,
			link.Topic(cfg.Link.Channel, link.TelemetryTopic),
			flight.Capabilities{SD: cfg.Rocket.HasSD, GPS: cfg.Rocket.HasGPS},
			governor)
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		unit.Run(logging.NewContext(ctx, logger))
		return nil
	},
}

func init() {
	flightCmd.Flags().StringVar(&flightConfigPath, "config", "config/rocketlink.yaml", "Path to rocketlink configuration YAML")
	flightCmd.Flags().StringVar(&flightSchemaPath, "schema", "schemas/rocketlink.cue", "Path to CUE schema file")
	flightCmd.Flags().Int64Var(&flightSeed, "seed", 0, "Sensor simulation seed (0 = time-based)")
}

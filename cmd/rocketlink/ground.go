package main

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"rocketlink/internal/config"
	"rocketlink/internal/ground"
	"rocketlink/internal/link"
	"rocketlink/internal/logging"
)

var (
	groundConfigPath string
	groundSchemaPath string
)

var groundCmd = &cobra.Command{
	Use:   "ground",
	Short: "Run the ground station",
	Long:  "ground receives rocket telemetry, serves the live admin view, and issues flight commands.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(groundConfigPath, groundSchemaPath)
		if err != nil {
			return err
		}

		transport, err := link.NewMQTTTransport(
			cfg.Link.Broker,
			"rocketlink-ground",
			link.Topic(cfg.Link.Channel, link.TelemetryTopic),
		)
		if err != nil {
			return err
		}
		defer transport.Close()

		station := ground.NewStation(transport, link.Topic(cfg.Link.Channel, link.CommandTopic), nil)

		writers, cleanup, err := newWriters(cfg, station.SessionID(), station.NodeID())
		if err != nil {
			return err
		}
		defer cleanup()
		for _, w := range writers {
			station.AddWriter(w)
		}

		logger := logging.New()
		if cfg.Ground.TUI {
			// The TUI owns stdout.
			logger = logging.NewStderr()
		}

		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()
		ctx = logging.NewContext(ctx, logger)

		srv := ground.NewServer(station)
		go func() {
			logger.Info("admin surface listening", "addr", cfg.Ground.AdminAddr)
			if err := srv.Start(ctx, cfg.Ground.AdminAddr); err != nil && err != http.ErrServerClosed {
				logger.Error("admin server failed", "err", err)
			}
		}()

		station.Run(ctx)
		return nil
	},
}

func init() {
	groundCmd.Flags().StringVar(&groundConfigPath, "config", "config/rocketlink.yaml", "Path to rocketlink configuration YAML")
	groundCmd.Flags().StringVar(&groundSchemaPath, "schema", "schemas/rocketlink.cue", "Path to CUE schema file")
}

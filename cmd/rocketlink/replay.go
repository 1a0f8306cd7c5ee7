package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"rocketlink/internal/ground"
)

var (
	replayInput   string
	replaySpeed   float64
	replayArchive string
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a flight-log artifact",
	Long:  "replay feeds rows from a flight-log CSV back through the ground telemetry sinks.",
	RunE: func(cmd *cobra.Command, args []string) error {
		sessionID := uuid.NewString()

		writers := []ground.TelemetryWriter{&ground.StdoutWriter{}}
		if replayArchive != "" {
			st := ground.NewStore(replayArchive, sessionID, "replay")
			defer st.Close()
			writers = append(writers, st)
		}

		return ground.ReplayLogFile(replayInput, sessionID, ground.NewMultiWriter(writers...), replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to flight-log CSV")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().StringVar(&replayArchive, "archive", "", "SQLite archive to replay into")
	replayCmd.MarkFlagRequired("input")
}

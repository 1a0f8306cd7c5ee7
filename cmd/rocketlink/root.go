package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "rocketlink",
	Short: "Water-rocket telemetry toolkit",
	Long:  "Rocketlink runs the flight-side telemetry loop, the ground station, and replay utilities for a water-rocket downlink.",
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(flightCmd)
	rootCmd.AddCommand(groundCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(reportCmd)
}

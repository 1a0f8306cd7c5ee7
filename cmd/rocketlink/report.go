package main

import (
	"github.com/spf13/cobra"

	"rocketlink/internal/report"
)

var (
	reportInput  string
	reportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Render a post-flight HTML report",
	Long:  "report summarizes a flight-log CSV into a static HTML page: apogee, duration, peak acceleration, and the full telemetry table.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return report.Render(reportInput, reportOutput)
	},
}

func init() {
	reportCmd.Flags().StringVar(&reportInput, "input", "", "Path to flight-log CSV")
	reportCmd.Flags().StringVar(&reportOutput, "output", "flight-report.html", "Path for the rendered HTML report")
	reportCmd.MarkFlagRequired("input")
}

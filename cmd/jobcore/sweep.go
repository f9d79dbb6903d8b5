package main

import (
	"github.com/spf13/cobra"

	"github.com/jonesrussell/jobcore/internal/app"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Execute every configured slot immediately, ignoring wall-clock hour",
	Long: `sweep is a manual backfill: it runs the entire fixed slot table
back to back right now, useful after an outage or for local testing.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runFxApp(cmd.Context(), app.RunSweep)
	},
}

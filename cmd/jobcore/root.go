package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base command every subcommand attaches to, mirroring
// the teacher's cmd/root.go shape: a bare cobra.Command carrying global
// flags, with each subcommand loading configuration itself via
// config.Load (internal/config already owns the full viper/env/
// defaults sequencing the teacher splits across setupConfig/
// bindEnvVars/setDefaults).
var rootCmd = &cobra.Command{
	Use:   "jobcore",
	Short: "A job-aggregation scraping core",
	Long: `jobcore runs a fixed daily slot schedule that fans out to RSS,
government-portal, company-page, and paid-search sources, normalizes and
dedupes the results, and persists them to a configured sink.`,
}

var debug bool

func init() {
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging regardless of config")

	rootCmd.AddCommand(runCmd, slotCmd, sweepCmd, statusCmd, sourcesCmd)
}

// Execute runs the root command and reports the error, matching the
// teacher's Execute() entry point.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

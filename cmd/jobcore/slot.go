package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/jonesrussell/jobcore/internal/app"
)

var slotHourFlag int

var slotCmd = &cobra.Command{
	Use:   "slot",
	Short: "Execute exactly one configured slot on demand",
	Long: `slot runs a single hour's slot immediately regardless of
wall-clock time. --hour must name one of the fixed table's hours
(0, 6, 9, 12, 15, 18, 21).`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		supply := fx.Supply(app.SlotHour(slotHourFlag))
		return runFxApp(cmd.Context(), app.RunSlot, supply)
	},
}

func init() {
	slotCmd.Flags().IntVar(&slotHourFlag, "hour", -1, "the slot hour to run")
	_ = slotCmd.MarkFlagRequired("hour")
}

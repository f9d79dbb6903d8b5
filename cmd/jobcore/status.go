package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"github.com/jonesrussell/jobcore/internal/app"
	"github.com/jonesrussell/jobcore/internal/config"
	"github.com/jonesrussell/jobcore/internal/scheduler"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print the current status surface: state, quota, and per-source health",
	Long: `status wires the core exactly as run/slot/sweep do but invokes
no slot — it reports the freshly constructed Scheduler's baseline
status(), which is only meaningful when jobcore runs as a long-lived
process between invocations of this command.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		if debug {
			cfg.Logger.Debug = true
		}

		var snapshot scheduler.Status
		fxApp := fx.New(
			fx.WithLogger(newFxEventLogger),
			app.Module,
			fx.Supply(cfg),
			fx.Provide(func() context.Context { return ctx }),
			fx.Invoke(func(s *scheduler.Scheduler) {
				snapshot = s.Status()
			}),
		)

		if err := fxApp.Start(ctx); err != nil {
			return fmt.Errorf("start app: %w", err)
		}
		if err := fxApp.Stop(ctx); err != nil {
			return fmt.Errorf("stop app: %w", err)
		}

		printStatus(snapshot)
		return nil
	},
}

func printStatus(s scheduler.Status) {
	fmt.Printf("state: %s   next slot: %s\n\n", s.State, s.NextSlot.Format("2006-01-02 15:04 MST"))

	fmt.Printf("quota: %d/%d daily, %d/%d monthly, resets %s\n\n",
		s.Quota.DailyUsed, s.Quota.DailyLimit, s.Quota.MonthlyUsed, s.Quota.MonthlyLimit, s.Quota.ResetAt.Format(time.RFC3339))

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Source", "Healthy", "Last Run", "Jobs", "Errors"})
	for name, h := range s.SourceHealth {
		lastRun := "never"
		if !h.LastRun.IsZero() {
			lastRun = h.LastRun.Format(time.RFC3339)
		}
		t.AppendRow(table.Row{name, h.Healthy, lastRun, h.JobsLastRun, h.ErrorsLastRun})
	}
	t.Render()

	fmt.Printf("\ntoday: %d jobs collected, %d duplicates avoided, gap-fill used: %v, slots run: %v\n",
		s.Totals.JobsCollected, s.Totals.DuplicatesAvoided, s.Totals.GapFillUsed, s.Totals.SlotsRun)

	if len(s.RecentErrors) == 0 {
		return
	}
	fmt.Printf("\nrecent errors (most recent last):\n")
	for _, e := range s.RecentErrors {
		fmt.Printf("  [%s] slot %02d: %s\n", e.At.Format(time.RFC3339), e.Hour, e.Message)
	}
}

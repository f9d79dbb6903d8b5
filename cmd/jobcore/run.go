package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"

	"github.com/jonesrussell/jobcore/internal/app"
	"github.com/jonesrussell/jobcore/internal/config"
	"github.com/jonesrussell/jobcore/internal/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Execute every fixed slot once, in table order",
	Long: `run loads configuration, wires the core, and executes the entire
fixed daily slot table (00/06/09/12/15/18/21) exactly once, honoring the
gap-fill policy at 21:00.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runFxApp(cmd.Context(), app.RunOnce)
	},
}

// runFxApp builds the fx graph from loaded config and invokes fn once,
// matching the teacher's createFXApp/fx.New(..., fx.Invoke(...)) shape
// but collapsed to a single helper since every jobcore subcommand
// invokes exactly one fx.Invoke target against the same graph. extra
// supplies additional values the target needs beyond the app.Module
// graph (e.g. the `slot` command's requested hour).
func runFxApp(ctx context.Context, fn any, extra ...fx.Option) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if debug {
		cfg.Logger.Debug = true
	}

	opts := []fx.Option{
		fx.WithLogger(newFxEventLogger),
		app.Module,
		fx.Supply(cfg),
		fx.Provide(func() context.Context { return ctx }),
	}
	opts = append(opts, extra...)
	opts = append(opts, fx.Invoke(fn))

	fxApp := fx.New(opts...)

	if err := fxApp.Start(ctx); err != nil {
		return fmt.Errorf("start app: %w", err)
	}
	return fxApp.Stop(ctx)
}

// newFxEventLogger routes fx's own container-wiring events (provide,
// invoke, lifecycle hooks) through the same logger the rest of jobcore
// uses, falling back to fx's built-in console logger for logger.NoOp
// (which would otherwise swallow fx's own startup errors silently).
func newFxEventLogger(log logger.Interface) fxevent.Logger {
	zl, ok := log.(*logger.ZapLogger)
	if !ok {
		return &fxevent.ConsoleLogger{W: os.Stderr}
	}
	return logger.NewFxLogger(zl.Zap())
}

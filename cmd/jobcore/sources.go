package main

import (
	"fmt"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/jobcore/internal/config"
	"github.com/jonesrussell/jobcore/internal/disabled"
)

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List configured sources and the disabled-source registry",
	Long: `sources reads configuration without wiring the fx graph — it
shows what a run would attempt before any network call is made,
including which configured or registry-disabled sources would be
skipped and why.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		printConfiguredSources(cfg)
		printDisabledRegistry(cfg)
		return nil
	},
}

func printConfiguredSources(cfg *config.Config) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Kind", "Name", "Detail"})

	for _, f := range cfg.Sources.RSS {
		t.AppendRow(table.Row{"rss", f.Name, fmt.Sprintf("%d feeds, priority=%s", len(f.URLs), f.Priority)})
	}
	for _, p := range cfg.Sources.Government {
		t.AppendRow(table.Row{"government", p.Name, p.BaseURL})
	}
	for _, c := range cfg.Sources.Company {
		t.AppendRow(table.Row{"company", c.Name, c.CareerURL})
	}
	if cfg.Sources.PaidSearch.Endpoint != "" {
		t.AppendRow(table.Row{"paid_search", cfg.Sources.PaidSearch.Endpoint, "credential configured"})
	}

	if t.Length() == 0 {
		fmt.Println("no sources configured")
		return
	}
	t.Render()
}

func printDisabledRegistry(cfg *config.Config) {
	fmt.Println()
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.AppendHeader(table.Row{"Source ID", "Reason", "Origin"})

	for _, e := range disabled.Registry {
		t.AppendRow(table.Row{e.SourceID, e.Reason, "built-in registry"})
	}
	for _, id := range cfg.DisabledSources {
		if _, ok := disabled.IsDisabled(id); ok {
			continue
		}
		t.AppendRow(table.Row{id, "disabled via configuration", "config disabled_sources"})
	}

	t.Render()
}

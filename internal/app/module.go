// Package app wires the core's subsystems (C1-C9) into an fx graph,
// mirroring the teacher's internal/app/module.go / per-component
// fx.Module pattern, adapted from a single HTTP-crawl invocation to the
// Scheduler Core's slot-driven run loop.
package app

import (
	"context"
	"fmt"

	"github.com/mmcdole/gofeed"
	"go.uber.org/fx"

	"github.com/jonesrussell/jobcore/internal/cache"
	"github.com/jonesrussell/jobcore/internal/config"
	"github.com/jonesrussell/jobcore/internal/disabled"
	"github.com/jonesrussell/jobcore/internal/logger"
	"github.com/jonesrussell/jobcore/internal/model"
	"github.com/jonesrussell/jobcore/internal/normalizer"
	"github.com/jonesrussell/jobcore/internal/quota"
	"github.com/jonesrussell/jobcore/internal/ratelimiter"
	"github.com/jonesrussell/jobcore/internal/scheduler"
	"github.com/jonesrussell/jobcore/internal/sink"
	"github.com/jonesrussell/jobcore/internal/sources"
)

// Module provides every subsystem as an fx singleton. The caller must
// fx.Supply a *config.Config before constructing the graph.
var Module = fx.Module("app",
	fx.Provide(
		NewLogger,
		NewLimiter,
		NewLedger,
		NewDeduper,
		NewSourceAdapters,
		NewSink,
		NewScheduler,
	),
)

// NewLogger builds the structured logger from config.
func NewLogger(cfg *config.Config) (logger.Interface, error) {
	return logger.New(logger.Params{Debug: cfg.Logger.Debug, Level: cfg.Logger.Level})
}

// NewLimiter builds the shared adaptive rate limiter (C1), shared across
// every adapter per spec §4.1 (limiting is per-domain, not per-adapter).
func NewLimiter(cfg *config.Config) *ratelimiter.Limiter {
	return ratelimiter.New(cfg.RateLimiter.Floor, cfg.RateLimiter.Ceiling)
}

// NewLedger builds the Quota Ledger (C3) from config, resolving the
// rollover timezone per SPEC_FULL.md §9 Open Question 1.
func NewLedger(cfg *config.Config) *quota.Ledger {
	return quota.New(cfg.Quota.MonthlyLimit, cfg.Quota.DailyLimit, cfg.Quota.ResolveTimezone())
}

// NewDeduper builds the Normalizer's shared identity/dedup state (C6).
func NewDeduper() *normalizer.Deduper {
	return normalizer.NewDeduper()
}

// NewSourceAdapters builds all four Source Adapters (C4) from config,
// applying disabled_sources (C8) before anything is even constructed so
// a disabled source is never wired into the scheduler at all — stronger
// than filtering it out per-slot.
func NewSourceAdapters(cfg *config.Config, limiter *ratelimiter.Limiter, ledger *quota.Ledger, log logger.Interface) scheduler.Adapters {
	applyDisabledSources(cfg)

	var adapters scheduler.Adapters

	if _, blocked := disabled.IsDisabled(model.SourceRSS); !blocked && len(cfg.Sources.RSS) > 0 {
		groups := make([]sources.FeedGroup, 0, len(cfg.Sources.RSS))
		for _, f := range cfg.Sources.RSS {
			groups = append(groups, sources.FeedGroup{
				Name:     f.Name,
				URLs:     f.URLs,
				Priority: sources.RSSPriority(f.Priority),
			})
		}
		feedCache := cache.New[*gofeed.Feed](cfg.Cache.SoftBound)
		adapters.RSS = sources.NewRSSAdapter(groups, limiter, feedCache)
	}

	if _, blocked := disabled.IsDisabled(model.SourceGovernment); !blocked && len(cfg.Sources.Government) > 0 {
		portals := make([]sources.Portal, 0, len(cfg.Sources.Government))
		for _, p := range cfg.Sources.Government {
			portals = append(portals, sources.Portal{
				Name:        p.Name,
				BaseURL:     p.BaseURL,
				ListingsURL: p.ListingsURL,
				Selectors: sources.PortalSelectors{
					Listing:  p.Selectors.Listing,
					Title:    p.Selectors.Title,
					Level:    p.Selectors.Level,
					Link:     p.Selectors.Link,
					Location: p.Selectors.Location,
				},
			})
		}
		govCache := cache.New[[]*model.Job](cfg.Cache.SoftBound)
		gov := sources.NewGovernmentAdapter(portals, limiter, govCache)
		if cfg.Logger.Debug {
			gov.WithDebugLogger(log)
		}
		adapters.Government = gov
	}

	if _, blocked := disabled.IsDisabled(model.SourceCompany); !blocked && len(cfg.Sources.Company) > 0 {
		employers := make([]sources.Employer, 0, len(cfg.Sources.Company))
		for _, c := range cfg.Sources.Company {
			employers = append(employers, sources.Employer{
				ID:        c.ID,
				Name:      c.Name,
				CareerURL: c.CareerURL,
				Selectors: sources.PortalSelectors{
					Listing:  c.Selectors.Listing,
					Title:    c.Selectors.Title,
					Level:    c.Selectors.Level,
					Link:     c.Selectors.Link,
					Location: c.Selectors.Location,
				},
			})
		}
		companyCache := cache.New[[]*model.Job](cfg.Cache.SoftBound)
		company := sources.NewCompanyAdapter(employers, limiter, companyCache)
		if cfg.Logger.Debug {
			company.WithDebugLogger(log)
		}
		adapters.Company = company
	}

	if _, blocked := disabled.IsDisabled(model.SourcePaidSearch); !blocked && cfg.Sources.PaidSearch.Endpoint != "" {
		adapters.PaidSearch = sources.NewPaidSearchAdapter(
			cfg.Sources.PaidSearch.Endpoint,
			cfg.Sources.PaidSearch.Credential,
			limiter,
			ledger,
		)
	}

	return adapters
}

// applyDisabledSources extends the compile-time disabled.Registry with
// any additional source ids an operator names in config, per
// SPEC_FULL.md §6's disabled_sources field — entries gain a generic
// reason since config doesn't supply one.
func applyDisabledSources(cfg *config.Config) {
	for _, id := range cfg.DisabledSources {
		if _, ok := disabled.IsDisabled(id); ok {
			continue
		}
		disabled.Registry = append(disabled.Registry, disabled.Entry{
			SourceID: id,
			Reason:   "disabled via configuration",
		})
	}
}

// NewSink builds the Sink Adapter (C9) selected by config.
func NewSink(cfg *config.Config, log logger.Interface) (sink.Sink, error) {
	switch cfg.Sink.Kind {
	case "elasticsearch":
		return sink.NewElasticsearchSink(cfg.Sink.Elasticsearch, log)
	default:
		return sink.NewMemorySink(), nil
	}
}

// NewScheduler wires the Scheduler Core (C7) from its already-built
// dependencies.
func NewScheduler(log logger.Interface, adapters scheduler.Adapters, ledger *quota.Ledger, dedup *normalizer.Deduper, dst sink.Sink) *scheduler.Scheduler {
	return scheduler.New(log, adapters, ledger, dedup, dst, model.Filter{})
}

// RunOnce executes s.RunDaily once and logs a summary, used by the
// `run` command's fx.Invoke hook.
func RunOnce(ctx context.Context, log logger.Interface, s *scheduler.Scheduler) error {
	results, err := s.RunDaily(ctx)
	if err != nil {
		return fmt.Errorf("run daily: %w", err)
	}
	logSlotResults(log, results)
	return nil
}

// SlotHour carries the operator-requested hour into the fx graph for
// the `slot` command's fx.Invoke hook.
type SlotHour int

// RunSlot triggers exactly the named slot, used by the `slot` command.
func RunSlot(ctx context.Context, log logger.Interface, s *scheduler.Scheduler, hour SlotHour) error {
	result, err := s.TriggerSlot(ctx, int(hour))
	if err != nil {
		return err
	}
	logSlotResults(log, []scheduler.SlotResult{result})
	return nil
}

// RunSweep triggers every configured slot immediately, ignoring
// wall-clock hour, used by the `sweep` command.
func RunSweep(ctx context.Context, log logger.Interface, s *scheduler.Scheduler) error {
	results, err := s.TriggerFullSweep(ctx)
	if err != nil {
		return fmt.Errorf("sweep: %w", err)
	}
	logSlotResults(log, results)
	return nil
}

func logSlotResults(log logger.Interface, results []scheduler.SlotResult) {
	for _, r := range results {
		log.Info("slot complete",
			"hour", r.Hour,
			"jobs_collected", r.JobsCollected,
			"duplicates_avoided", r.DuplicatesSeen,
			"errors", len(r.Errors),
			"gap_fill", r.GapFillTriggered,
		)
	}
}

// Package scheduler implements the Scheduler Core (C7, spec §4.7): the
// fixed daily slot table, per-slot adapter fan-out, gap-fill policy, and
// the idle/planning/executing/aggregating state machine.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jonesrussell/jobcore/internal/disabled"
	"github.com/jonesrussell/jobcore/internal/logger"
	"github.com/jonesrussell/jobcore/internal/model"
	"github.com/jonesrussell/jobcore/internal/normalizer"
	"github.com/jonesrussell/jobcore/internal/quota"
	"github.com/jonesrussell/jobcore/internal/sink"
	"github.com/jonesrussell/jobcore/internal/sources"
)

// State is the per-slot lifecycle from spec §4.7.
type State string

const (
	StateIdle        State = "idle"
	StatePlanning    State = "planning"
	StateExecuting   State = "executing"
	StateAggregating State = "aggregating"
)

// SlotResult is the per-slot outcome exposed after a slot completes
// aggregation.
type SlotResult struct {
	Hour             int
	JobsCollected    int
	DuplicatesSeen   int
	PerSourceCounts  map[string]int
	Errors           []error
	GapFillTriggered bool
	SkippedSources   []string
}

// DailyTotals is the running daily summary the status surface reports.
type DailyTotals struct {
	JobsCollected     int
	DuplicatesAvoided int
	PerSourceCounts   map[string]int
	GapFillUsed       bool
	SlotsRun          []int
}

// recentErrorCapacity bounds how many of the most recent slot errors the
// status surface retains (spec §7: "aggregated counts and a bounded ring
// of recent errors"). Older entries are dropped as new ones arrive.
const recentErrorCapacity = 20

// RecentError is one entry in the status surface's bounded error history.
type RecentError struct {
	Hour    int
	At      time.Time
	Message string
}

// Adapters bundles the four Source Adapters (C4) the Scheduler fans
// requests out to. Any of them may be nil (PaidSearch when no provider
// is configured); a slot that would use a nil adapter makes no call to
// it and records no error for it.
type Adapters struct {
	RSS        *sources.RSSAdapter
	Government *sources.GovernmentAdapter
	Company    *sources.CompanyAdapter
	PaidSearch *sources.PaidSearchAdapter
}

// Scheduler runs the fixed slot table sequentially, normalizing and
// deduping every slot's output through a single shared Deduper so a day's
// identity window is consistent across slots, per spec §4.6/§4.7.
type Scheduler struct {
	log      logger.Interface
	adapters Adapters
	ledger   *quota.Ledger
	dedup    *normalizer.Deduper
	sink     sink.Sink
	filter   model.Filter

	mu           sync.Mutex
	state        State
	totals       DailyTotals
	gapFillUsed  bool
	recentErrors []RecentError
}

// New constructs a Scheduler. filter is the batch-wide predicate applied
// to every adapter call this run (spec §3); pass a zero Filter for none.
// dst may be nil, in which case aggregated Jobs are dropped after
// dedup — useful for dry runs and tests that only assert on counts.
func New(log logger.Interface, adapters Adapters, ledger *quota.Ledger, dedup *normalizer.Deduper, dst sink.Sink, filter model.Filter) *Scheduler {
	if log == nil {
		log = logger.NoOp{}
	}
	return &Scheduler{
		log:      log,
		adapters: adapters,
		ledger:   ledger,
		dedup:    dedup,
		sink:     dst,
		filter:   filter,
		state:    StateIdle,
		totals:   DailyTotals{PerSourceCounts: make(map[string]int)},
	}
}

// State reports the Scheduler's current lifecycle state.
func (s *Scheduler) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Totals returns a snapshot of the day's running totals.
func (s *Scheduler) Totals() DailyTotals {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[string]int, len(s.totals.PerSourceCounts))
	for k, v := range s.totals.PerSourceCounts {
		counts[k] = v
	}
	slots := append([]int(nil), s.totals.SlotsRun...)
	return DailyTotals{
		JobsCollected:     s.totals.JobsCollected,
		DuplicatesAvoided: s.totals.DuplicatesAvoided,
		PerSourceCounts:   counts,
		GapFillUsed:       s.totals.GapFillUsed,
		SlotsRun:          slots,
	}
}

// ResetDay clears the running totals and the gap-fill-used flag, for a
// fresh day's RunDaily call. The Deduper's own rolling window handles
// cross-day identity separately (spec §4.6); this only resets the
// per-day counters the Scheduler itself owns. The recent-error ring is
// intentionally not reset here — it tracks the most recent errors
// regardless of day boundary, not today's errors.
func (s *Scheduler) ResetDay() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totals = DailyTotals{PerSourceCounts: make(map[string]int)}
	s.gapFillUsed = false
}

// RecentErrors returns a snapshot of the bounded recent-error ring, most
// recent last.
func (s *Scheduler) RecentErrors() []RecentError {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]RecentError(nil), s.recentErrors...)
}

// RunDaily executes every fixed slot in ascending hour order, strictly
// sequentially: slot N+1 never starts before slot N finishes aggregating
// (spec §5). A single slot's internal failure does not abort the day.
func (s *Scheduler) RunDaily(ctx context.Context) ([]SlotResult, error) {
	results := make([]SlotResult, 0, len(DefaultSlotTable))
	for _, plan := range DefaultSlotTable {
		if ctx.Err() != nil {
			return results, ctx.Err()
		}
		results = append(results, s.RunSlot(ctx, plan.Hour))
	}
	return results, nil
}

// TriggerSlot runs exactly one slot on demand (the CLI's `slot` command).
func (s *Scheduler) TriggerSlot(ctx context.Context, hour int) (SlotResult, error) {
	if _, ok := slotAt(hour); !ok {
		return SlotResult{}, fmt.Errorf("scheduler: no slot configured for hour %d", hour)
	}
	return s.RunSlot(ctx, hour), nil
}

// TriggerFullSweep runs every configured slot immediately, in table
// order, ignoring wall-clock hour — used by the CLI's `sweep` command
// for backfills and manual runs.
func (s *Scheduler) TriggerFullSweep(ctx context.Context) ([]SlotResult, error) {
	return s.RunDaily(ctx)
}

// RunSlot drives one slot through idle->planning->executing->aggregating
// ->idle. An error raised while executing transitions straight to
// aggregating with whatever partial batch was already collected (spec
// §4.7's state machine exception path). The executing step runs under a
// 30-minute wall-clock ceiling; whatever it collected before the ceiling
// is still aggregated.
func (s *Scheduler) RunSlot(ctx context.Context, hour int) SlotResult {
	const slotWallClockCeiling = 30 * time.Minute

	plan, ok := slotAt(hour)
	if !ok {
		return SlotResult{Hour: hour}
	}

	s.setState(StatePlanning)
	allowedSources, skipped := s.planSources(plan)

	s.setState(StateExecuting)
	execCtx, cancel := context.WithTimeout(ctx, slotWallClockCeiling)
	raws, errs := s.execute(execCtx, plan, allowedSources)
	cancel()

	s.setState(StateAggregating)
	result := s.aggregate(ctx, hour, raws, errs, skipped)

	s.setState(StateIdle)
	return result
}

func (s *Scheduler) setState(st State) {
	s.mu.Lock()
	s.state = st
	s.mu.Unlock()
}

// planSources removes any disabled source from this slot's plan,
// permanently for the run (spec §4.8): a source disabled mid-run never
// re-activates later in the same RunDaily call.
func (s *Scheduler) planSources(plan SlotPlan) ([]string, []string) {
	candidates := make([]string, 0, 4)
	if plan.RunRSS {
		candidates = append(candidates, model.SourceRSS)
	}
	if plan.RunGovernment {
		candidates = append(candidates, model.SourceGovernment)
	}
	if plan.RunCompany {
		candidates = append(candidates, model.SourceCompany)
	}
	if plan.PaidSearch.Enabled {
		candidates = append(candidates, model.SourcePaidSearch)
	}

	allowed, removed := disabled.Filter(candidates)
	skipped := make([]string, 0, len(removed))
	for _, e := range removed {
		s.log.Warn("source disabled, skipping", "source", e.SourceID, "reason", e.Reason)
		skipped = append(skipped, e.SourceID)
	}
	return allowed, skipped
}

func contains(set []string, name string) bool {
	for _, s := range set {
		if s == name {
			return true
		}
	}
	return false
}

// execute fans the slot's adapters out sequentially (each adapter already
// internally rate-limits and caches; spec §5 bounds concurrency at the
// Request Processor layer, not here) and collects raw jobs plus any
// per-source errors, skipping adapters whose own health check fails
// without aborting the slot (spec §4.7/§8 invariant: unhealthy source ⇒
// skip + record, never fail the slot).
func (s *Scheduler) execute(ctx context.Context, plan SlotPlan, allowed []string) ([]*model.Job, []error) {
	var raws []*model.Job
	var errs []error

	runAdapter := func(name string, scrape func() (sources.Result, error), healthy func() bool) {
		if !contains(allowed, name) {
			return
		}
		if healthy != nil && !healthy() {
			s.log.Warn("adapter unhealthy, skipping slot", "source", name)
			errs = append(errs, model.NewError(model.KindAdapterFailure, name+" unhealthy", nil))
			return
		}
		result, err := scrape()
		if err != nil {
			errs = append(errs, err)
		}
		raws = append(raws, result.Jobs...)
		s.mu.Lock()
		s.totals.PerSourceCounts[name] += len(result.Jobs)
		s.mu.Unlock()
	}

	if plan.RunRSS && s.adapters.RSS != nil {
		runAdapter(model.SourceRSS, func() (sources.Result, error) {
			return s.adapters.RSS.ScrapePriorities(ctx, s.filter, plan.RSSPriorities...)
		}, func() bool { return s.adapters.RSS.GetStatus().Healthy })
	}
	if plan.RunGovernment && s.adapters.Government != nil {
		runAdapter(model.SourceGovernment, func() (sources.Result, error) {
			return s.adapters.Government.Scrape(ctx, s.filter)
		}, func() bool { return s.adapters.Government.GetStatus().Healthy })
	}
	if plan.RunCompany && s.adapters.Company != nil {
		runAdapter(model.SourceCompany, func() (sources.Result, error) {
			return s.adapters.Company.Scrape(ctx, s.filter)
		}, func() bool { return s.adapters.Company.GetStatus().Healthy })
	}

	if contains(allowed, model.SourcePaidSearch) {
		s.runPaidSearchIfDue(ctx, plan, runAdapter)
	}

	return raws, errs
}

// runPaidSearchIfDue applies the 21:00 gap-fill gate on top of the
// normal plan/healthy checks: a gap-fill-only slot only calls the
// provider when the day's unique job count is below threshold AND at
// least one quota unit remains, and it never fires twice in one run
// (spec §4.7).
func (s *Scheduler) runPaidSearchIfDue(ctx context.Context, plan SlotPlan, runAdapter func(string, func() (sources.Result, error), func() bool)) {
	if !plan.PaidSearch.Enabled || s.adapters.PaidSearch == nil {
		return
	}

	if plan.PaidSearch.GapFillOnly {
		s.mu.Lock()
		alreadyUsed := s.gapFillUsed
		dayTotal := s.totals.JobsCollected
		s.mu.Unlock()

		if alreadyUsed {
			return
		}
		if dayTotal >= gapFillThreshold {
			return
		}
		if s.ledger != nil && s.ledger.RemainingDaily() < plan.PaidSearch.QuotaBudget {
			return
		}

		s.mu.Lock()
		s.gapFillUsed = true
		s.totals.GapFillUsed = true
		s.mu.Unlock()
	}

	searchType := plan.PaidSearch.SearchType
	runAdapter(model.SourcePaidSearch, func() (sources.Result, error) {
		return s.adapters.PaidSearch.ScrapeSearch(ctx, s.filter, sources.PaidSearchRequest{SearchType: searchType})
	}, func() bool { return s.adapters.PaidSearch.GetStatus().Healthy })
}

// aggregate normalizes, dedupes, and folds one slot's raw output into the
// running daily totals.
func (s *Scheduler) aggregate(ctx context.Context, hour int, raws []*model.Job, errs []error, skipped []string) SlotResult {
	normalized, normErrs := s.dedup.NormalizeAll(raws)
	errs = append(errs, normErrs...)

	if s.sink != nil {
		for _, job := range normalized {
			if err := s.sink.Upsert(ctx, job); err != nil {
				s.log.Error("sink upsert failed", "job_id", job.ID, "error", err)
				errs = append(errs, err)
			}
		}
	}

	s.mu.Lock()
	s.totals.JobsCollected += len(normalized)
	s.totals.DuplicatesAvoided = s.dedup.DuplicatesAvoided()
	s.totals.SlotsRun = append(s.totals.SlotsRun, hour)
	counts := make(map[string]int, len(s.totals.PerSourceCounts))
	for k, v := range s.totals.PerSourceCounts {
		counts[k] = v
	}
	now := time.Now()
	for _, err := range errs {
		s.recentErrors = append(s.recentErrors, RecentError{Hour: hour, At: now, Message: err.Error()})
	}
	if overflow := len(s.recentErrors) - recentErrorCapacity; overflow > 0 {
		s.recentErrors = s.recentErrors[overflow:]
	}
	s.mu.Unlock()

	return SlotResult{
		Hour:             hour,
		JobsCollected:    len(normalized),
		DuplicatesSeen:   s.dedup.DuplicatesAvoided(),
		PerSourceCounts:  counts,
		Errors:           errs,
		GapFillTriggered: s.totals.GapFillUsed,
		SkippedSources:   skipped,
	}
}

// Status is the status() surface from spec §4.7/GLOSSARY: running
// state, quota usage, per-source health, and the day's running totals,
// gathered in one call for the CLI's `status` command. RecentErrors is
// spec §7's bounded ring of recent errors, surfaced alongside the
// aggregated counts rather than requiring a caller to inspect every
// SlotResult individually.
type Status struct {
	State        State
	Totals       DailyTotals
	Quota        quota.Status
	SourceHealth map[string]sources.Status
	NextSlot     time.Time
	RecentErrors []RecentError
}

// Status gathers the full status surface. NextSlot is computed relative
// to time.Now() in the Scheduler's wall-clock sense.
func (s *Scheduler) Status() Status {
	health := make(map[string]sources.Status, 4)
	if s.adapters.RSS != nil {
		health[model.SourceRSS] = s.adapters.RSS.GetStatus()
	}
	if s.adapters.Government != nil {
		health[model.SourceGovernment] = s.adapters.Government.GetStatus()
	}
	if s.adapters.Company != nil {
		health[model.SourceCompany] = s.adapters.Company.GetStatus()
	}
	if s.adapters.PaidSearch != nil {
		health[model.SourcePaidSearch] = s.adapters.PaidSearch.GetStatus()
	}

	var quotaStatus quota.Status
	if s.ledger != nil {
		quotaStatus = s.ledger.Status()
	}

	return Status{
		State:        s.State(),
		Totals:       s.Totals(),
		Quota:        quotaStatus,
		SourceHealth: health,
		NextSlot:     NextSlotAfter(time.Now()),
		RecentErrors: s.RecentErrors(),
	}
}

// NextSlotAfter returns the next configured slot time strictly after t,
// wrapping to the first slot of the following day if t is past the last
// slot. Used by the CLI's status output to report when the next run
// will fire.
func NextSlotAfter(t time.Time) time.Time {
	for _, plan := range DefaultSlotTable {
		candidate := time.Date(t.Year(), t.Month(), t.Day(), plan.Hour, 0, 0, 0, t.Location())
		if candidate.After(t) {
			return candidate
		}
	}
	tomorrow := t.AddDate(0, 0, 1)
	first := DefaultSlotTable[0]
	return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(), first.Hour, 0, 0, 0, t.Location())
}

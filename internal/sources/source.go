// Package sources implements the Source Adapter framework (C4, spec
// §4.4): one adapter per external job origin, each fetching raw
// records and projecting them onto model.Job without normalizing or
// deduping — that's the Normalizer's job downstream.
package sources

import (
	"context"
	"sync"
	"time"

	"github.com/jonesrussell/jobcore/internal/model"
)

// Result is the scrape(filter) -> SourceResult contract from spec §4.4.
type Result struct {
	Jobs          []*model.Job
	SourceName    string
	LegalNote     string
	APICallsSpent int
}

// Status is the get_status() contract from spec §4.4.
type Status struct {
	Healthy      bool
	LastRun      time.Time
	JobsLastRun  int
	ErrorsLastRun int
}

// Adapter is the interface every source implementation satisfies.
type Adapter interface {
	Name() string
	Scrape(ctx context.Context, filter model.Filter) (Result, error)
	GetStatus() Status
}

// statusTracker is embedded by each adapter to implement GetStatus
// without duplicating the bookkeeping, matching the teacher's
// sourceutils.SourcesMetrics mutex-guarded-snapshot style.
type statusTracker struct {
	mu            sync.Mutex
	lastRun       time.Time
	jobsLastRun   int
	errorsLastRun int
}

func (t *statusTracker) record(jobs, errs int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.lastRun = time.Now()
	t.jobsLastRun = jobs
	t.errorsLastRun = errs
}

func (t *statusTracker) snapshot() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Status{
		Healthy:       t.errorsLastRun == 0 || t.jobsLastRun > 0,
		LastRun:       t.lastRun,
		JobsLastRun:   t.jobsLastRun,
		ErrorsLastRun: t.errorsLastRun,
	}
}

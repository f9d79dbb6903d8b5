package normalizer

import (
	"sync"
	"time"

	"github.com/jonesrussell/jobcore/internal/model"
)

// defaultWindow bounds how long an identity is remembered for dedup
// purposes, per spec §4.6 ("rolling set of identities for the current
// day (bounded, sliding window)").
const defaultWindow = 24 * time.Hour

// Deduper maintains the rolling per-day identity set described in spec
// §4.6. It is single-writer from the aggregation step (spec §5); readers
// (adapters) never touch it directly.
type Deduper struct {
	mu                sync.Mutex
	window            time.Duration
	seen              map[string]time.Time
	duplicatesAvoided int
	now               func() time.Time
}

// NewDeduper creates a Deduper with the default 24h sliding window.
func NewDeduper() *Deduper {
	return &Deduper{
		window: defaultWindow,
		seen:   make(map[string]time.Time),
		now:    time.Now,
	}
}

// Seen reports whether identity id has already been observed within the
// current window, recording it as seen if not.
func (d *Deduper) Seen(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.evictExpiredLocked()

	if _, ok := d.seen[id]; ok {
		d.duplicatesAvoided++
		return true
	}
	d.seen[id] = d.now()
	return false
}

func (d *Deduper) evictExpiredLocked() {
	cutoff := d.now().Add(-d.window)
	for id, at := range d.seen {
		if at.Before(cutoff) {
			delete(d.seen, id)
		}
	}
}

// DuplicatesAvoided returns the running counter for status reporting.
func (d *Deduper) DuplicatesAvoided() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.duplicatesAvoided
}

// NormalizeAll runs Normalize over raws, merges same-identity records as
// they appear, and drops later duplicates while incrementing the
// duplicates-avoided counter — implementing normalize_all and the
// dedup-idempotence invariant (universal invariant 2): running the same
// input list again on the same Deduper emits no Jobs and duplicates_avoided
// grows by exactly len(raws) on the repeat.
func (d *Deduper) NormalizeAll(raws []*model.Job) ([]*model.Job, []error) {
	byID := make(map[string]*model.Job)
	order := make([]string, 0, len(raws))
	var errs []error

	for _, raw := range raws {
		job, err := Normalize(raw)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if existing, ok := byID[job.ID]; ok {
			byID[job.ID] = Merge(existing, job)
			d.Seen(job.ID) // count toward duplicates_avoided
			continue
		}

		if d.Seen(job.ID) {
			// Already emitted in an earlier batch today: drop.
			continue
		}

		byID[job.ID] = job
		order = append(order, job.ID)
	}

	out := make([]*model.Job, 0, len(order))
	for _, id := range order {
		if job, ok := byID[id]; ok {
			out = append(out, job)
		}
	}
	return out, errs
}

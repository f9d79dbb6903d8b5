// Package quota implements the Quota Ledger (C3, spec §4.3): the sole
// authority on whether the paid-search adapter may spend against its
// monthly/daily budget.
package quota

import (
	"sync"
	"time"
)

// Status is the read-only snapshot returned by Status().
type Status struct {
	MonthlyUsed  int
	MonthlyLimit int
	DailyUsed    int
	DailyLimit   int
	ResetAt      time.Time
}

// Decision is the outcome of TrySpend.
type Decision string

const (
	Granted       Decision = "granted"
	DeniedMonthly Decision = "denied_monthly"
	DeniedDaily   Decision = "denied_daily"
)

// Ledger guards the monthly/daily paid-API counters under a single mutex,
// per spec §5 ("a single logical mutex protects try_spend/refund").
type Ledger struct {
	mu sync.Mutex

	monthlyLimit int
	dailyLimit   int

	monthlyUsed int
	dailyUsed   int

	loc            *time.Location
	dailyResetAt   time.Time
	monthlyResetAt time.Time
	now            func() time.Time
}

// New creates a Ledger with the given limits, resolving rollover
// boundaries in loc (SPEC_FULL.md §9 Open Question: defaults to UTC,
// configurable via quota.reset_timezone).
func New(monthlyLimit, dailyLimit int, loc *time.Location) *Ledger {
	if loc == nil {
		loc = time.UTC
	}
	l := &Ledger{
		monthlyLimit: monthlyLimit,
		dailyLimit:   dailyLimit,
		loc:          loc,
		now:          time.Now,
	}
	n := l.now().In(loc)
	l.dailyResetAt = nextMidnight(n)
	l.monthlyResetAt = nextMonthBoundary(n)
	return l
}

func nextMidnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location()).AddDate(0, 0, 1)
}

func nextMonthBoundary(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location()).AddDate(0, 1, 0)
}

// rolloverLocked resets daily_used at midnight in the ledger's location and
// monthly_used at the configured monthly boundary. Must be called with
// l.mu held.
func (l *Ledger) rolloverLocked() {
	n := l.now().In(l.loc)
	if !n.Before(l.dailyResetAt) {
		l.dailyUsed = 0
		l.dailyResetAt = nextMidnight(n)
	}
	if !n.Before(l.monthlyResetAt) {
		l.monthlyUsed = 0
		l.monthlyResetAt = nextMonthBoundary(n)
	}
}

// TrySpend atomically checks n against both the monthly and daily
// remaining budget; if either would be exceeded it mutates nothing and
// returns the corresponding denial.
func (l *Ledger) TrySpend(n int) Decision {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.rolloverLocked()

	if l.monthlyUsed+n > l.monthlyLimit {
		return DeniedMonthly
	}
	if l.dailyUsed+n > l.dailyLimit {
		return DeniedDaily
	}

	l.monthlyUsed += n
	l.dailyUsed += n
	return Granted
}

// Refund gives back n units after a failed request that had already
// spent, per spec §4.3.
func (l *Ledger) Refund(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.monthlyUsed -= n
	if l.monthlyUsed < 0 {
		l.monthlyUsed = 0
	}
	l.dailyUsed -= n
	if l.dailyUsed < 0 {
		l.dailyUsed = 0
	}
}

// Status returns the current counters for the observability surface.
func (l *Ledger) Status() Status {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rolloverLocked()
	return Status{
		MonthlyUsed:  l.monthlyUsed,
		MonthlyLimit: l.monthlyLimit,
		DailyUsed:    l.dailyUsed,
		DailyLimit:   l.dailyLimit,
		ResetAt:      l.dailyResetAt,
	}
}

// RemainingDaily reports the remaining daily budget, used by the
// Scheduler's gap-fill check.
func (l *Ledger) RemainingDaily() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.rolloverLocked()
	return l.dailyLimit - l.dailyUsed
}

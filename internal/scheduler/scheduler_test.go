package scheduler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/jobcore/internal/cache"
	"github.com/jonesrussell/jobcore/internal/model"
	"github.com/jonesrussell/jobcore/internal/normalizer"
	"github.com/jonesrussell/jobcore/internal/quota"
	"github.com/jonesrussell/jobcore/internal/ratelimiter"
	sinkpkg "github.com/jonesrussell/jobcore/internal/sink"
	"github.com/jonesrussell/jobcore/internal/sources"
	"github.com/mmcdole/gofeed"
)

func newTestScheduler(t *testing.T, ledger *quota.Ledger, paidSearchServer *httptest.Server) *Scheduler {
	t.Helper()

	limiter := ratelimiter.New(time.Millisecond, 50*time.Millisecond)
	rss := sources.NewRSSAdapter(nil, limiter, cache.New[*gofeed.Feed](0))

	var paidSearch *sources.PaidSearchAdapter
	if paidSearchServer != nil {
		paidSearch = sources.NewPaidSearchAdapter(paidSearchServer.URL, "token", limiter, ledger)
	}

	adapters := Adapters{RSS: rss, PaidSearch: paidSearch}
	return New(nil, adapters, ledger, normalizer.NewDeduper(), nil, model.Filter{})
}

func emptyProviderServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	}))
}

// TestQuotaExhaustionAcrossSlots is scenario S2: a near-exhausted ledger
// grants the 06:00 fresh call but denies the 15:00 executive call, and the
// denial never escapes as a slot failure.
func TestQuotaExhaustionAcrossSlots(t *testing.T) {
	ledger := quota.New(100, 8, nil)
	for i := 0; i < 7; i++ {
		require.Equal(t, quota.Granted, ledger.TrySpend(1))
	}

	server := emptyProviderServer(t)
	defer server.Close()
	s := newTestScheduler(t, ledger, server)

	first := s.RunSlot(context.Background(), 6)
	assert.Equal(t, 8, ledger.Status().DailyUsed)
	assert.Empty(t, first.Errors)

	second := s.RunSlot(context.Background(), 15)
	assert.Equal(t, 8, ledger.Status().DailyUsed, "executive call must be denied, not spent")
	require.NotEmpty(t, second.Errors)
}

// TestGapFillTriggersWhenBelowThreshold is scenario S3: a day under the
// 900-job threshold with quota remaining triggers exactly one extra
// gap_fill call at 21:00.
func TestGapFillTriggersWhenBelowThreshold(t *testing.T) {
	ledger := quota.New(100, 8, nil)
	require.Equal(t, quota.Granted, ledger.TrySpend(2)) // daily_used=2 going in

	server := emptyProviderServer(t)
	defer server.Close()
	s := newTestScheduler(t, ledger, server)

	s.mu.Lock()
	s.totals.JobsCollected = 850
	s.mu.Unlock()

	result := s.RunSlot(context.Background(), 21)
	assert.True(t, result.GapFillTriggered)
	assert.Equal(t, 3, ledger.Status().DailyUsed)
}

// TestGapFillSkippedWhenAboveThreshold confirms the 21:00 slot does not
// spend quota on gap_fill once the day already cleared 900 jobs.
func TestGapFillSkippedWhenAboveThreshold(t *testing.T) {
	ledger := quota.New(100, 8, nil)
	server := emptyProviderServer(t)
	defer server.Close()
	s := newTestScheduler(t, ledger, server)

	s.mu.Lock()
	s.totals.JobsCollected = 950
	s.mu.Unlock()

	result := s.RunSlot(context.Background(), 21)
	assert.False(t, result.GapFillTriggered)
	assert.Equal(t, 0, ledger.Status().DailyUsed)
}

// TestGapFillNeverFiresTwicePerDay runs the 21:00 slot twice on the same
// day and asserts the second run spends no quota while GapFillTriggered
// stays true.
func TestGapFillNeverFiresTwicePerDay(t *testing.T) {
	ledger := quota.New(100, 8, nil)
	server := emptyProviderServer(t)
	defer server.Close()
	s := newTestScheduler(t, ledger, server)

	s.mu.Lock()
	s.totals.JobsCollected = 100
	s.mu.Unlock()

	first := s.RunSlot(context.Background(), 21)
	assert.True(t, first.GapFillTriggered)
	used := ledger.Status().DailyUsed

	second := s.RunSlot(context.Background(), 21)
	assert.True(t, second.GapFillTriggered, "flag stays true once used for the day")
	assert.Equal(t, used, ledger.Status().DailyUsed, "no second spend")
}

// TestPaidSearchWithoutLedgerFailsClosedButSlotSurvives: a PaidSearch adapter wired to an
// unreachable ledger (nil) reports KindLedgerUnavailable per call, which
// the Scheduler records as a slot error without aborting the slot.
func TestPaidSearchWithoutLedgerFailsClosedButSlotSurvives(t *testing.T) {
	server := emptyProviderServer(t)
	defer server.Close()
	s := newTestScheduler(t, nil, server)

	result := s.RunSlot(context.Background(), 6)
	require.NotEmpty(t, result.Errors)
	assert.Equal(t, StateIdle, s.State())
}

// TestRunDailySequential confirms every fixed hour executes in order and
// the scheduler returns to idle between slots.
func TestRunDailySequential(t *testing.T) {
	ledger := quota.New(100, 8, nil)
	server := emptyProviderServer(t)
	defer server.Close()
	s := newTestScheduler(t, ledger, server)

	results, err := s.RunDaily(context.Background())
	require.NoError(t, err)
	require.Len(t, results, len(DefaultSlotTable))
	for i, plan := range DefaultSlotTable {
		assert.Equal(t, plan.Hour, results[i].Hour)
	}
	assert.Equal(t, StateIdle, s.State())
}

// TestTriggerSlotRejectsUnknownHour confirms TriggerSlot returns an
// error for an hour (03:00) that is not in the fixed slot table.
func TestTriggerSlotRejectsUnknownHour(t *testing.T) {
	s := newTestScheduler(t, quota.New(100, 8, nil), nil)
	_, err := s.TriggerSlot(context.Background(), 3)
	assert.Error(t, err)
}

const sampleRSSFeed = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Jobs</title>
<item>
  <title>Backend Engineer</title>
  <description>Join Acme as a backend engineer. R50000 - R70000 per month.</description>
  <link>https://example.com/jobs/1</link>
  <author>Acme Corp</author>
</item>
</channel></rss>`

// TestRunSlotPersistsNormalizedJobsToSink confirms the Scheduler actually
// wires the Sink Adapter into its aggregate step, not just the Deduper.
func TestRunSlotPersistsNormalizedJobsToSink(t *testing.T) {
	feedServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSSFeed))
	}))
	defer feedServer.Close()

	limiter := ratelimiter.New(time.Millisecond, 50*time.Millisecond)
	rss := sources.NewRSSAdapter(
		[]sources.FeedGroup{{Name: "general", URLs: []string{feedServer.URL}, Priority: sources.RSSPriorityHigh}},
		limiter,
		cache.New[*gofeed.Feed](0),
	)

	dst := sinkpkg.NewMemorySink()
	s := New(nil, Adapters{RSS: rss}, quota.New(100, 8, nil), normalizer.NewDeduper(), dst, model.Filter{})

	result := s.RunSlot(context.Background(), 0)
	assert.Equal(t, 1, result.JobsCollected)
	assert.Equal(t, 1, dst.Len())
}

// TestStatusReportsQuotaAndSourceHealth confirms Status() gathers the
// status() surface from spec §4.7: quota numbers, per-source health for
// every wired adapter, and the running totals, in one call.
func TestStatusReportsQuotaAndSourceHealth(t *testing.T) {
	ledger := quota.New(100, 8, nil)
	server := emptyProviderServer(t)
	defer server.Close()
	s := newTestScheduler(t, ledger, server)

	s.RunSlot(context.Background(), 6)

	status := s.Status()
	assert.Equal(t, StateIdle, status.State)
	assert.Equal(t, 8, status.Quota.DailyLimit)
	require.Contains(t, status.SourceHealth, "rss")
	require.Contains(t, status.SourceHealth, "serpapi")
	assert.False(t, status.NextSlot.IsZero())
}

// TestStatusRecentErrorsIsBoundedAndPopulated confirms the status
// surface's recent-error ring accumulates errors across slots and never
// grows past its fixed capacity.
func TestStatusRecentErrorsIsBoundedAndPopulated(t *testing.T) {
	server := emptyProviderServer(t)
	defer server.Close()
	// nil ledger: every PaidSearch call fails closed with
	// KindLedgerUnavailable, giving each slot a guaranteed error to feed
	// the ring.
	s := newTestScheduler(t, nil, server)

	for i := 0; i < recentErrorCapacity+5; i++ {
		s.RunSlot(context.Background(), 6)
	}

	status := s.Status()
	require.NotEmpty(t, status.RecentErrors)
	assert.LessOrEqual(t, len(status.RecentErrors), recentErrorCapacity)
}

func TestNextSlotAfterWrapsToNextDay(t *testing.T) {
	late := time.Date(2026, 7, 30, 22, 0, 0, 0, time.UTC)
	next := NextSlotAfter(late)
	assert.Equal(t, 31, next.Day())
	assert.Equal(t, 0, next.Hour())
}

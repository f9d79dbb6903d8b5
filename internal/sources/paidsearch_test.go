package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonesrussell/jobcore/internal/model"
	"github.com/jonesrussell/jobcore/internal/quota"
	"github.com/jonesrussell/jobcore/internal/ratelimiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const providerResponseJSON = `{"results":[
	{"title":"CTO","company":"Startup Co","location":"Remote","description":"lead engineering","url":"https://example.com/1","posted_at":"2026-07-29T00:00:00Z"},
	{"title":"","company":"Missing Title Co"}
]}`

func TestPaidSearchAdapterSpendsAndParses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(providerResponseJSON))
	}))
	defer srv.Close()

	limiter := ratelimiter.New(0, 0)
	ledger := quota.New(100, 8, nil)
	adapter := NewPaidSearchAdapter(srv.URL, "secret-token", limiter, ledger)

	result, err := adapter.ScrapeSearch(context.Background(), model.Filter{}, PaidSearchRequest{SearchType: SearchExecutive})
	require.NoError(t, err)
	require.Len(t, result.Jobs, 1) // the missing-title row is dropped
	assert.Equal(t, model.LevelCSuite, result.Jobs[0].JobLevel)
	assert.Equal(t, 1, result.APICallsSpent)

	status := ledger.Status()
	assert.Equal(t, 1, status.DailyUsed)
}

// S2 from spec.md: denied try_spend must not make an HTTP call and must
// not mutate the ledger.
func TestPaidSearchAdapterFailsClosedOnQuotaDenial(t *testing.T) {
	var called bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, _ = w.Write([]byte(providerResponseJSON))
	}))
	defer srv.Close()

	limiter := ratelimiter.New(0, 0)
	ledger := quota.New(100, 0, nil) // daily limit already exhausted
	adapter := NewPaidSearchAdapter(srv.URL, "secret-token", limiter, ledger)

	_, err := adapter.ScrapeSearch(context.Background(), model.Filter{}, PaidSearchRequest{SearchType: SearchFresh})
	require.Error(t, err)
	assert.False(t, called)
}

func TestPaidSearchAdapterRefundsOnHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	limiter := ratelimiter.New(0, 0)
	ledger := quota.New(100, 8, nil)
	adapter := NewPaidSearchAdapter(srv.URL, "secret-token", limiter, ledger)

	_, err := adapter.ScrapeSearch(context.Background(), model.Filter{}, PaidSearchRequest{SearchType: SearchFresh})
	require.Error(t, err)

	status := ledger.Status()
	assert.Equal(t, 0, status.DailyUsed) // refunded after the failed call
}

package sources

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jonesrussell/jobcore/internal/cache"
	"github.com/jonesrussell/jobcore/internal/logger"
	"github.com/jonesrussell/jobcore/internal/model"
	"github.com/jonesrussell/jobcore/internal/ratelimiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const companyListingsHTML = `
<html><body>
<div class="posting">
  <h3 class="title">Senior Go Engineer</h3>
  <p>Remote-friendly role, R45,000 - R60,000 per month.</p>
  <span class="loc">Cape Town</span>
  <a class="apply" href="/careers/42">apply</a>
</div>
</body></html>`

func TestCompanyAdapterScrape(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(companyListingsHTML))
	}))
	defer srv.Close()

	employer := Employer{
		ID: "acme", Name: "Acme Corp", CareerURL: srv.URL,
		Selectors: PortalSelectors{Listing: ".posting", Title: ".title", Location: ".loc", Link: ".apply"},
	}

	limiter := ratelimiter.New(0, 0)
	pageCache := cache.New[[]*model.Job](0)
	adapter := NewCompanyAdapter([]Employer{employer}, limiter, pageCache)

	result, err := adapter.Scrape(context.Background(), model.Filter{})
	require.NoError(t, err)
	require.Len(t, result.Jobs, 1)

	job := result.Jobs[0]
	assert.Equal(t, "Senior Go Engineer", job.Title)
	assert.Equal(t, model.CompanyPrivate, job.Company.Type)
	assert.Equal(t, "Acme Corp", job.Company.Name)
	assert.NotEmpty(t, job.SourceURL)
	require.NotNil(t, job.SalaryMin)
	assert.Equal(t, 540000.0, *job.SalaryMin) // 45000 * 12
}

func TestCompanyAdapterEmptyTitleDropped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><div class="posting"><h3 class="title"></h3></div></body></html>`))
	}))
	defer srv.Close()

	employer := Employer{ID: "x", Name: "X", CareerURL: srv.URL, Selectors: PortalSelectors{Listing: ".posting", Title: ".title"}}
	limiter := ratelimiter.New(0, 0)
	pageCache := cache.New[[]*model.Job](0)
	adapter := NewCompanyAdapter([]Employer{employer}, limiter, pageCache)

	result, err := adapter.Scrape(context.Background(), model.Filter{})
	require.NoError(t, err)
	assert.Empty(t, result.Jobs) // invariant 1: no empty-title job emitted
}

// TestCompanyAdapterWithDebugLoggerStillScrapes confirms attaching a
// debug logger wires a colly debugger onto the collector without
// altering scrape results.
func TestCompanyAdapterWithDebugLoggerStillScrapes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(companyListingsHTML))
	}))
	defer srv.Close()

	employer := Employer{
		ID: "acme", Name: "Acme Corp", CareerURL: srv.URL,
		Selectors: PortalSelectors{Listing: ".posting", Title: ".title", Location: ".loc", Link: ".apply"},
	}
	limiter := ratelimiter.New(0, 0)
	pageCache := cache.New[[]*model.Job](0)
	adapter := NewCompanyAdapter([]Employer{employer}, limiter, pageCache).WithDebugLogger(logger.NoOp{})

	result, err := adapter.Scrape(context.Background(), model.Filter{})
	require.NoError(t, err)
	require.Len(t, result.Jobs, 1)
}

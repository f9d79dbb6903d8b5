package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/jobcore/internal/config"
	"github.com/jonesrussell/jobcore/internal/disabled"
)

func baseConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Quota:       config.QuotaConfig{MonthlyLimit: 100, DailyLimit: 8},
		Cache:       config.CacheConfig{SoftBound: 10},
		RateLimiter: config.RateLimiterConfig{Floor: time.Millisecond, Ceiling: time.Second},
		Sink:        config.SinkConfig{Kind: "memory"},
	}
}

func TestNewSourceAdaptersSkipsEmptySections(t *testing.T) {
	cfg := baseConfig()
	limiter := NewLimiter(cfg)
	ledger := NewLedger(cfg)

	log, err := NewLogger(cfg)
	require.NoError(t, err)

	adapters := NewSourceAdapters(cfg, limiter, ledger, log)
	assert.Nil(t, adapters.RSS)
	assert.Nil(t, adapters.Government)
	assert.Nil(t, adapters.Company)
	assert.Nil(t, adapters.PaidSearch)
}

func TestNewSourceAdaptersBuildsConfiguredSections(t *testing.T) {
	cfg := baseConfig()
	cfg.Sources.RSS = []config.RSSFeedConfig{{Name: "general", URLs: []string{"https://example.com/feed"}, Priority: "high"}}
	cfg.Sources.PaidSearch = config.PaidSearchConfig{Endpoint: "https://example.com/search", Credential: "token"}

	limiter := NewLimiter(cfg)
	ledger := NewLedger(cfg)

	log, err := NewLogger(cfg)
	require.NoError(t, err)

	adapters := NewSourceAdapters(cfg, limiter, ledger, log)
	require.NotNil(t, adapters.RSS)
	require.NotNil(t, adapters.PaidSearch)
}

func TestNewSourceAdaptersHonorsDisabledRegistry(t *testing.T) {
	cfg := baseConfig()
	cfg.Sources.Government = []config.PortalConfig{{Name: "dept", BaseURL: "https://gov.example"}}
	cfg.DisabledSources = []string{"glassdoor"} // already in the static registry

	before := len(disabled.Registry)
	limiter := NewLimiter(cfg)
	ledger := NewLedger(cfg)
	log, err := NewLogger(cfg)
	require.NoError(t, err)
	NewSourceAdapters(cfg, limiter, ledger, log)

	assert.Len(t, disabled.Registry, before, "a source already in the registry must not be duplicated")
}

func TestNewSinkSelectsMemoryByDefault(t *testing.T) {
	cfg := baseConfig()
	log, err := NewLogger(cfg)
	require.NoError(t, err)

	s, err := NewSink(cfg, log)
	require.NoError(t, err)
	assert.NotNil(t, s)
}

func TestNewSinkBuildsElasticsearchSinkWithAddresses(t *testing.T) {
	cfg := baseConfig()
	cfg.Sink = config.SinkConfig{Kind: "elasticsearch", Elasticsearch: config.ElasticsearchConfig{Addresses: []string{"http://localhost:9200"}}}
	log, err := NewLogger(cfg)
	require.NoError(t, err)

	s, err := NewSink(cfg, log)
	require.NoError(t, err)
	assert.NotNil(t, s)
}

package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		Environment: "production",
		Quota:       QuotaConfig{MonthlyLimit: 250, DailyLimit: 8},
		RateLimiter: RateLimiterConfig{Floor: 250 * time.Millisecond, Ceiling: 60 * time.Second},
		Sink:        SinkConfig{Kind: "memory"},
	}
}

func TestValidateAcceptsWellFormedConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidateRejectsMissingEnvironment(t *testing.T) {
	c := validConfig()
	c.Environment = ""
	assert.Error(t, c.Validate())
}

func TestValidateRejectsDailyOverMonthly(t *testing.T) {
	c := validConfig()
	c.Quota.DailyLimit = 100
	c.Quota.MonthlyLimit = 50
	assert.Error(t, c.Validate())
}

func TestValidateRejectsInvertedRateLimiterBounds(t *testing.T) {
	c := validConfig()
	c.RateLimiter.Ceiling = time.Millisecond
	c.RateLimiter.Floor = time.Second
	assert.Error(t, c.Validate())
}

func TestValidateRejectsUnknownSinkKind(t *testing.T) {
	c := validConfig()
	c.Sink.Kind = "s3"
	assert.Error(t, c.Validate())
}

func TestValidateRequiresElasticsearchAddresses(t *testing.T) {
	c := validConfig()
	c.Sink.Kind = "elasticsearch"
	assert.Error(t, c.Validate())

	c.Sink.Elasticsearch.Addresses = []string{"https://localhost:9200"}
	assert.NoError(t, c.Validate())
}

func TestResolveTimezoneDefaultsToUTC(t *testing.T) {
	q := QuotaConfig{}
	assert.Equal(t, time.UTC, q.ResolveTimezone())

	q.ResetTimezone = "not-a-real-zone"
	assert.Equal(t, time.UTC, q.ResolveTimezone())

	q.ResetTimezone = "America/New_York"
	loc := q.ResolveTimezone()
	assert.Equal(t, "America/New_York", loc.String())
}

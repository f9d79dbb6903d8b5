// Package config loads and validates the core's configuration: Viper
// reads a YAML file plus environment overrides into a nested Config
// struct, one section per subsystem, matching the teacher's
// internal/config layout.
package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config is the root configuration object, one field per subsystem.
type Config struct {
	Environment     string            `yaml:"environment"`
	Logger          LoggerConfig      `yaml:"logger"`
	Scheduler       SchedulerConfig   `yaml:"scheduler"`
	Quota           QuotaConfig       `yaml:"quota"`
	Cache           CacheConfig       `yaml:"cache"`
	RateLimiter     RateLimiterConfig `yaml:"rate_limiter"`
	Sources         SourcesConfig     `yaml:"sources"`
	DisabledSources []string          `yaml:"disabled_sources"`
	Sink            SinkConfig        `yaml:"sink"`
}

// LoggerConfig mirrors logger.Params.
type LoggerConfig struct {
	Debug bool   `yaml:"debug"`
	Level string `yaml:"level"`
}

// SchedulerConfig currently only supports the fixed slot table; Slots is
// reserved for SPEC_FULL.md §6's documented override hook and is unused
// until a deployment actually needs a non-default table.
type SchedulerConfig struct {
	Slots []int `yaml:"slots"`
}

// QuotaConfig configures the Quota Ledger (C3).
type QuotaConfig struct {
	MonthlyLimit  int    `yaml:"monthly_limit"`
	DailyLimit    int    `yaml:"daily_limit"`
	ResetTimezone string `yaml:"reset_timezone"`
}

// CacheConfig configures the Result Cache (C2).
type CacheConfig struct {
	SoftBound int `yaml:"soft_bound"`
}

// RateLimiterConfig configures the adaptive limiter (C1).
type RateLimiterConfig struct {
	Floor   time.Duration `yaml:"floor"`
	Ceiling time.Duration `yaml:"ceiling"`
}

// RSSFeedConfig is one configured feed entry.
type RSSFeedConfig struct {
	Name     string   `yaml:"name"`
	URLs     []string `yaml:"urls"`
	Priority string   `yaml:"priority"` // high | medium | low
}

// PortalConfig configures one Government-Portal or Company career page.
type PortalConfig struct {
	Name        string `yaml:"name"`
	ID          string `yaml:"id"`
	BaseURL     string `yaml:"base_url"`
	ListingsURL string `yaml:"listings_url"`
	CareerURL   string `yaml:"career_url"`
	Selectors   struct {
		Listing  string `yaml:"listing"`
		Title    string `yaml:"title"`
		Level    string `yaml:"level"`
		Link     string `yaml:"link"`
		Location string `yaml:"location"`
	} `yaml:"selectors"`
}

// PaidSearchConfig configures the paid-search provider.
type PaidSearchConfig struct {
	Endpoint   string `yaml:"endpoint"`
	Credential string `yaml:"credential"`
}

// SourcesConfig groups every adapter's configuration.
type SourcesConfig struct {
	RSS        []RSSFeedConfig  `yaml:"rss"`
	Government []PortalConfig   `yaml:"government"`
	PaidSearch PaidSearchConfig `yaml:"paid_search"`
	Company    []PortalConfig   `yaml:"company"`
}

// SinkConfig selects and configures the Sink Adapter (C9).
type SinkConfig struct {
	Kind          string              `yaml:"kind"` // memory | elasticsearch
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
}

// ElasticsearchConfig mirrors the teacher's elasticsearch config shape,
// narrowed to what ElasticsearchSink actually needs.
type ElasticsearchConfig struct {
	Addresses []string `yaml:"addresses"`
	APIKey    string   `yaml:"api_key"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	Index     string   `yaml:"index"`
}

// Validate checks the configuration is internally consistent, following
// the teacher's per-section Validate-and-wrap-with-context idiom.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return errors.New("environment is required")
	}
	if c.Quota.DailyLimit <= 0 {
		return errors.New("quota.daily_limit must be positive")
	}
	if c.Quota.MonthlyLimit < c.Quota.DailyLimit {
		return errors.New("quota.monthly_limit must be at least daily_limit")
	}
	if c.RateLimiter.Floor <= 0 || c.RateLimiter.Ceiling < c.RateLimiter.Floor {
		return errors.New("rate_limiter.ceiling must be >= floor, both positive")
	}
	switch c.Sink.Kind {
	case "memory", "elasticsearch", "":
	default:
		return fmt.Errorf("sink.kind %q is not one of memory|elasticsearch", c.Sink.Kind)
	}
	if c.Sink.Kind == "elasticsearch" && len(c.Sink.Elasticsearch.Addresses) == 0 {
		return errors.New("sink.elasticsearch.addresses is required when sink.kind is elasticsearch")
	}
	return nil
}

// Load reads config.yaml from the working directory (or $HOME/.jobcore,
// /etc/jobcore), overlays environment variables, and fills in defaults,
// matching the teacher's LoadConfig sequencing.
func Load() (*Config, error) {
	v := viper.GetViper()
	v.SetConfigType("yaml")
	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.jobcore")
	v.AddConfigPath("/etc/jobcore")

	setDefaults(v)
	loadDotEnv()
	if err := bindEnvVars(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")
	v.SetDefault("quota.monthly_limit", 250)
	v.SetDefault("quota.daily_limit", 8)
	v.SetDefault("quota.reset_timezone", "UTC")
	v.SetDefault("cache.soft_bound", 10000)
	v.SetDefault("rate_limiter.floor", "250ms")
	v.SetDefault("rate_limiter.ceiling", "60s")
	v.SetDefault("sink.kind", "memory")
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}
}

func bindEnvVars(v *viper.Viper) error {
	envVars := map[string]string{
		"quota.monthly_limit":            "JOBCORE_QUOTA_MONTHLY_LIMIT",
		"quota.daily_limit":              "JOBCORE_QUOTA_DAILY_LIMIT",
		"sources.paid_search.endpoint":   "JOBCORE_PAIDSEARCH_ENDPOINT",
		"sources.paid_search.credential": "JOBCORE_PAIDSEARCH_CREDENTIAL",
		"sink.elasticsearch.addresses":   "JOBCORE_ELASTICSEARCH_HOSTS",
		"sink.elasticsearch.api_key":     "JOBCORE_ELASTICSEARCH_API_KEY",
	}
	for key, env := range envVars {
		if err := v.BindEnv(key, env); err != nil {
			return fmt.Errorf("bind env var %s: %w", env, err)
		}
	}
	return nil
}

// ResolveTimezone parses QuotaConfig.ResetTimezone, defaulting to UTC on
// an empty or invalid value (SPEC_FULL.md §9 Open Question 1).
func (q QuotaConfig) ResolveTimezone() *time.Location {
	if q.ResetTimezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(q.ResetTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

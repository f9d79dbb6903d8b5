package sources

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/jonesrussell/jobcore/internal/cache"
	"github.com/jonesrussell/jobcore/internal/logger"
	"github.com/jonesrussell/jobcore/internal/model"
	"github.com/jonesrussell/jobcore/internal/normalizer"
	"github.com/jonesrussell/jobcore/internal/ratelimiter"
)

// governmentLevelKeywords is the title-keyword mapping named in spec
// §4.4.2, distinct from the Normalizer's general job-level set.
var governmentLevelKeywords = []struct {
	level    model.JobLevel
	keywords []string
}{
	{model.LevelDirector, []string{"director general", "director"}},
	{model.LevelManager, []string{"manager"}},
	{model.LevelSenior, []string{"senior"}},
	{model.LevelEntry, []string{"junior", "assistant", "intern"}},
}

func inferGovernmentLevel(title string) model.JobLevel {
	lower := strings.ToLower(title)
	for _, band := range governmentLevelKeywords {
		for _, kw := range band.keywords {
			if strings.Contains(lower, kw) {
				return band.level
			}
		}
	}
	if strings.Contains(lower, "officer") {
		return model.LevelMid
	}
	return model.LevelMid
}

// GovernmentAdapter implements the Government-Portal Adapter (spec
// §4.4.2) over a fixed set of configured portals, walked with colly.
type GovernmentAdapter struct {
	portals     []Portal
	limiter     *ratelimiter.Limiter
	cache       *cache.Cache[[]*model.Job]
	status      statusTracker
	debugLogger logger.Interface
}

// NewGovernmentAdapter constructs a GovernmentAdapter over the given portals.
func NewGovernmentAdapter(portals []Portal, limiter *ratelimiter.Limiter, pageCache *cache.Cache[[]*model.Job]) *GovernmentAdapter {
	return &GovernmentAdapter{portals: portals, limiter: limiter, cache: pageCache}
}

// WithDebugLogger attaches a colly debugger that reports every request,
// response and error through log at debug/info level. Intended for
// cfg.Logger.Debug runs only — left unset, collectors carry no debugger.
func (a *GovernmentAdapter) WithDebugLogger(log logger.Interface) *GovernmentAdapter {
	a.debugLogger = log
	return a
}

func (a *GovernmentAdapter) Name() string { return model.SourceGovernment }

func (a *GovernmentAdapter) Scrape(ctx context.Context, filter model.Filter) (Result, error) {
	var jobs []*model.Job
	var errCount int

	for _, portal := range a.portals {
		rows, err := a.fetchPortal(ctx, portal)
		if err != nil {
			errCount++
			continue
		}
		for _, job := range rows {
			if !model.PassesFilter(job, filter) {
				continue
			}
			jobs = append(jobs, job)
		}
	}

	a.status.record(len(jobs), errCount)
	return Result{Jobs: jobs, SourceName: a.Name()}, nil
}

func (a *GovernmentAdapter) fetchPortal(ctx context.Context, portal Portal) ([]*model.Job, error) {
	if cached, ok := a.cache.Get(portal.ListingsURL); ok {
		return cached, nil
	}

	host := portal.BaseURL
	if err := a.limiter.Wait(ctx, host); err != nil {
		return nil, model.NewError(model.KindBackpressure, "government wait "+portal.Name, err)
	}

	c := colly.NewCollector(colly.Async(false))
	if a.debugLogger != nil {
		c.SetDebugger(&logger.CollyDebugger{Logger: a.debugLogger})
	}

	var jobs []*model.Job
	var scrapeErr error

	c.OnHTML(portal.Selectors.Listing, func(e *colly.HTMLElement) {
		job := projectGovernmentRow(e, portal)
		if job != nil {
			jobs = append(jobs, job)
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		scrapeErr = err
	})

	if err := c.Visit(portal.ListingsURL); err != nil {
		a.limiter.RecordFailure(host)
		return nil, model.NewError(model.KindTransientNetwork, "government visit "+portal.Name, err)
	}
	c.Wait()

	if scrapeErr != nil {
		a.limiter.RecordFailure(host)
		return nil, model.NewError(model.KindTransientNetwork, "government scrape "+portal.Name, scrapeErr)
	}
	a.limiter.RecordSuccess(host)

	a.cache.Put(portal.ListingsURL, jobs, cache.TTLGovernmentPortal)
	return jobs, nil
}

func (a *GovernmentAdapter) GetStatus() Status { return a.status.snapshot() }

func projectGovernmentRow(e *colly.HTMLElement, portal Portal) *model.Job {
	title := strings.TrimSpace(e.ChildText(portal.Selectors.Title))
	if title == "" {
		return nil
	}

	description := normalizer.StripHTML(e.DOM.Find(portal.Selectors.Listing).Text())
	location := strings.TrimSpace(e.ChildText(portal.Selectors.Location))
	if location == "" {
		location = InferLocation(title)
	}

	job := &model.Job{
		Title:       title,
		Description: normalizer.Truncate(description, 2000),
		Company:     model.Company{Name: portal.Name, Type: model.CompanyGovernment},
		Location:    location,
		PostedDate:  time.Now(),
		ScrapedAt:   time.Now(),
		JobLevel:    inferGovernmentLevel(title),
		RemoteType:  model.RemoteOnsite,
		Source:      model.SourceGovernment,
		SourceURL:   e.ChildAttr(portal.Selectors.Link, "href"),
		Skills:      append([]string(nil), governmentBenefits...),
	}

	if gradeText := strings.TrimSpace(e.ChildText(portal.Selectors.Level)); gradeText != "" {
		if grade, err := strconv.Atoi(extractDigits(gradeText)); err == nil {
			if min, max, ok := salaryForGrade(grade); ok {
				job.SalaryMin = &min
				job.SalaryMax = &max
				job.SalaryCurrency = model.DefaultCurrency
			}
		}
	}

	return job
}

func extractDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

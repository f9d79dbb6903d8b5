package sources

import (
	"context"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/jonesrussell/jobcore/internal/cache"
	"github.com/jonesrussell/jobcore/internal/logger"
	"github.com/jonesrussell/jobcore/internal/model"
	"github.com/jonesrussell/jobcore/internal/normalizer"
	"github.com/jonesrussell/jobcore/internal/ratelimiter"
)

// CompanyAdapter implements the Company-Page Adapter (spec §4.4.4): a
// fixed employer list, each with its own selector profile, rate-limited
// per host like every other adapter.
type CompanyAdapter struct {
	employers   []Employer
	limiter     *ratelimiter.Limiter
	cache       *cache.Cache[[]*model.Job]
	status      statusTracker
	debugLogger logger.Interface
}

// NewCompanyAdapter constructs a CompanyAdapter over the given employers.
func NewCompanyAdapter(employers []Employer, limiter *ratelimiter.Limiter, pageCache *cache.Cache[[]*model.Job]) *CompanyAdapter {
	return &CompanyAdapter{employers: employers, limiter: limiter, cache: pageCache}
}

// WithDebugLogger attaches a colly debugger that reports every request,
// response and error through log at debug/info level. Intended for
// cfg.Logger.Debug runs only — left unset, collectors carry no debugger.
func (a *CompanyAdapter) WithDebugLogger(log logger.Interface) *CompanyAdapter {
	a.debugLogger = log
	return a
}

func (a *CompanyAdapter) Name() string { return model.SourceCompany }

func (a *CompanyAdapter) Scrape(ctx context.Context, filter model.Filter) (Result, error) {
	var jobs []*model.Job
	var errCount int

	for _, employer := range a.employers {
		rows, err := a.fetchEmployer(ctx, employer)
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

func (a *CompanyAdapter) fetchEmployer(ctx context.Context, employer Employer) ([]*model.Job, error) {
	if cached, ok := a.cache.Get(employer.CareerURL); ok {
		return cached, nil
	}

	host := employer.CareerURL
	if err := a.limiter.Wait(ctx, host); err != nil {
		return nil, model.NewError(model.KindBackpressure, "company wait "+employer.ID, err)
	}

	c := colly.NewCollector(colly.Async(false))
	if a.debugLogger != nil {
		c.SetDebugger(&logger.CollyDebugger{Logger: a.debugLogger})
	}

	var jobs []*model.Job
	var scrapeErr error

	c.OnHTML(employer.Selectors.Listing, func(e *colly.HTMLElement) {
		job := projectCompanyRow(e, employer)
		if job != nil {
			jobs = append(jobs, job)
		}
	})
	c.OnError(func(r *colly.Response, err error) {
		scrapeErr = err
	})

	if err := c.Visit(employer.CareerURL); err != nil {
		a.limiter.RecordFailure(host)
		return nil, model.NewError(model.KindTransientNetwork, "company visit "+employer.ID, err)
	}
	c.Wait()

	if scrapeErr != nil {
		a.limiter.RecordFailure(host)
		return nil, model.NewError(model.KindTransientNetwork, "company scrape "+employer.ID, scrapeErr)
	}
	a.limiter.RecordSuccess(host)

	a.cache.Put(employer.CareerURL, jobs, cache.TTLCompanyPage)
	return jobs, nil
}

func (a *CompanyAdapter) GetStatus() Status { return a.status.snapshot() }

func projectCompanyRow(e *colly.HTMLElement, employer Employer) *model.Job {
	title := strings.TrimSpace(e.ChildText(employer.Selectors.Title))
	if title == "" {
		return nil
	}

	description := normalizer.Truncate(normalizer.StripHTML(e.Text), 2000)
	location := strings.TrimSpace(e.ChildText(employer.Selectors.Location))
	if location == "" {
		location = InferLocation(title + " " + description)
	}

	text := title + " " + description
	job := &model.Job{
		Title:       title,
		Description: description,
		Company:     model.Company{Name: employer.Name, Type: model.CompanyPrivate},
		Location:    location,
		PostedDate:  time.Now(),
		ScrapedAt:   time.Now(),
		JobLevel:    normalizer.InferJobLevel(title, description),
		RemoteType:  InferRemoteType(text),
		Source:      model.SourceCompany,
		SourceURL:   e.ChildAttr(employer.Selectors.Link, "href"),
	}

	salary := normalizer.AnnualizeSalary(normalizer.ParseSalary(text))
	if salary.Found {
		job.SalaryMin = salary.Min
		job.SalaryMax = salary.Max
		job.SalaryCurrency = model.DefaultCurrency
	}

	return job
}

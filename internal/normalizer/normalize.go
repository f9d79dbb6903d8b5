package normalizer

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/jonesrussell/jobcore/internal/model"
)

const descriptionMaxLen = 2000

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTML removes tags and decodes entities, used by adapters that
// pull descriptions out of HTML fragments (RSS summaries, portal pages).
func StripHTML(s string) string {
	stripped := htmlTagPattern.ReplaceAllString(s, " ")
	decoded := html.UnescapeString(stripped)
	return strings.Join(strings.Fields(decoded), " ")
}

// Truncate caps s at n runes, matching the RSS adapter's 2000-character
// description limit (spec §4.4.1).
func Truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}

// Normalize implements normalize(raw) -> Job from spec §4.6: trims
// strings, truncates the description, enforces the core invariants, and
// computes the identity hash. Comparison-field lowercasing happens
// on-demand via model.NormalizedTitle/Company/Location rather than
// mutating the stored (display) casing.
func Normalize(raw *model.Job) (*model.Job, error) {
	job := *raw
	job.Title = strings.TrimSpace(job.Title)
	job.Company.Name = strings.TrimSpace(job.Company.Name)
	job.Location = strings.TrimSpace(job.Location)
	job.Description = Truncate(StripHTML(job.Description), descriptionMaxLen)

	if job.SalaryCurrency == "" {
		job.SalaryCurrency = model.DefaultCurrency
	}
	if job.ScrapedAt.IsZero() {
		job.ScrapedAt = time.Now()
	}
	if job.PostedDate.IsZero() {
		job.PostedDate = job.ScrapedAt
	}
	if job.JobLevel == "" {
		job.JobLevel = InferJobLevel(job.Title, job.Description)
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}

	job.ID = Identity(&job)
	return &job, nil
}

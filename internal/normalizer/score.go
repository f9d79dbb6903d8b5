package normalizer

import (
	"strings"

	"github.com/jonesrussell/jobcore/internal/model"
)

const (
	keywordWeight  = 40.0
	locationWeight = 30.0
	levelWeight    = 30.0

	remoteLocationCredit = 20.0 / 30.0 // spec §4.6: "20/30 credit if remote_type = remote"

	// Government jobs use an entirely different formula, ported from
	// government_scraper.py's _calculate_match_score rather than the
	// generic keyword/location/level split above: a flat base, up to 30
	// points for keyword coverage, a flat 20 for a location match (no
	// remote partial credit), a flat 20 government-preference bonus, and
	// a flat 10 academic bonus. There is no job-level dimension at all.
	governmentBaseNoFilter    = 75.0
	governmentBase            = 50.0
	governmentKeywordMax      = 30.0
	governmentLocationBonus   = 20.0
	governmentPreferenceBonus = 20.0
	governmentAcademicBonus   = 10.0
)

// MatchScore implements match_score(job, filter) -> [0,100] from spec
// §4.6.
func MatchScore(job *model.Job, filter model.Filter) float64 {
	if job.Company.Type == model.CompanyGovernment {
		return governmentMatchScore(job, filter)
	}

	score := keywordCoverage(job, filter)*keywordWeight +
		locationCredit(job, filter)*locationWeight +
		levelCredit(job, filter)*levelWeight

	return clamp(score, 0, 100)
}

// governmentMatchScore ports _calculate_match_score's government-specific
// formula verbatim rather than reusing the generic weighting: an empty
// filter short-circuits to a flat 75, and a populated filter starts from
// a 50 base and adds flat bonuses instead of the generic dimensions'
// proportional credit.
//
// Keyword coverage is measured against title alone: the Python original
// matches against title+department, but this model has no per-job
// department field to draw on.
//
// The academic bonus checks job.Company.Type == model.CompanyAcademic,
// matching the original's is_government/is_academic flags, which in the
// Python source are independent booleans a job can satisfy simultaneously.
// This model's CompanyType is a single mutually-exclusive enum, so a job
// that reaches this branch is never also CompanyAcademic and the bonus is
// presently unreachable here — ported faithfully rather than worked
// around, since changing CompanyType's shape is outside this fix's scope.
func governmentMatchScore(job *model.Job, filter model.Filter) float64 {
	if isEmptyFilter(filter) {
		return governmentBaseNoFilter
	}

	score := governmentBase

	if filter.HasKeywords() {
		haystack := strings.ToLower(job.Title)
		present := 0
		for _, kw := range filter.Keywords {
			if kw == "" {
				continue
			}
			if strings.Contains(haystack, strings.ToLower(kw)) {
				present++
			}
		}
		score += (float64(present) / float64(len(filter.Keywords))) * governmentKeywordMax
	}

	if filter.Location != "" && strings.Contains(strings.ToLower(job.Location), strings.ToLower(filter.Location)) {
		score += governmentLocationBonus
	}

	// job.Company.Type == CompanyGovernment is already established by the
	// caller, so the preference bonus always applies in this branch.
	score += governmentPreferenceBonus

	if filter.AcademicOnly && job.Company.Type == model.CompanyAcademic {
		score += governmentAcademicBonus
	}

	return clamp(score, 0, 100)
}

// isEmptyFilter reports whether filter carries no constraints at all,
// mirroring the Python original's `if not filters` short-circuit.
func isEmptyFilter(f model.Filter) bool {
	return !f.HasKeywords() &&
		f.Location == "" &&
		f.JobLevel == "" &&
		f.MinSalary == nil &&
		f.Industry == "" &&
		!f.GovernmentOnly &&
		!f.AcademicOnly
}

// keywordCoverage is the fraction of filter keywords present
// (case-insensitive substring) in title+description. With no keywords
// supplied, full credit is given (there's nothing to fail to cover).
func keywordCoverage(job *model.Job, filter model.Filter) float64 {
	if !filter.HasKeywords() {
		return 1
	}
	haystack := strings.ToLower(job.Title + " " + job.Description)
	present := 0
	for _, kw := range filter.Keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(kw)) {
			present++
		}
	}
	return float64(present) / float64(len(filter.Keywords))
}

// locationCredit: full credit on substring match, partial (20/30) credit
// if the job is remote, zero otherwise. With no location filter, full
// credit is given.
func locationCredit(job *model.Job, filter model.Filter) float64 {
	if filter.Location == "" {
		return 1
	}
	if strings.Contains(strings.ToLower(job.Location), strings.ToLower(filter.Location)) {
		return 1
	}
	if job.RemoteType == model.RemoteRemote {
		return remoteLocationCredit
	}
	return 0
}

// levelCredit: full credit on exact equality, zero otherwise; with no
// level filter, full credit is given.
func levelCredit(job *model.Job, filter model.Filter) float64 {
	if filter.JobLevel == "" {
		return 1
	}
	if job.JobLevel == filter.JobLevel {
		return 1
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

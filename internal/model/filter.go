package model

import "strings"

// Filter is the optional predicate set a caller supplies to a batch, per
// spec §3. Zero-valued fields are "no constraint".
type Filter struct {
	Keywords       []string
	Location       string
	JobLevel       JobLevel
	MinSalary      *float64
	Industry       string
	GovernmentOnly bool
	AcademicOnly   bool
}

// HasKeywords reports whether the filter constrains on keywords.
func (f Filter) HasKeywords() bool { return len(f.Keywords) > 0 }

// PassesFilter implements passes_filter(job, filter): a conjunction over
// every predicate the filter actually sets.
func PassesFilter(j *Job, f Filter) bool {
	if f.HasKeywords() && !anyKeywordPresent(j, f.Keywords) {
		return false
	}
	if f.Location != "" && !locationMatches(j, f.Location) {
		return false
	}
	if f.JobLevel != "" && j.JobLevel != f.JobLevel {
		return false
	}
	if f.MinSalary != nil {
		if j.SalaryMin == nil || *j.SalaryMin < *f.MinSalary {
			return false
		}
	}
	if f.Industry != "" && !strings.Contains(strings.ToLower(j.Description), strings.ToLower(f.Industry)) {
		return false
	}
	if f.GovernmentOnly && j.Company.Type != CompanyGovernment {
		return false
	}
	if f.AcademicOnly && j.Company.Type != CompanyAcademic {
		return false
	}
	return true
}

func anyKeywordPresent(j *Job, keywords []string) bool {
	haystack := strings.ToLower(j.Title + " " + j.Description)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		if strings.Contains(haystack, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// locationMatches implements the "remote-friendly jobs satisfy location
// implicitly" rule from spec §3's Filter definition.
func locationMatches(j *Job, wanted string) bool {
	if j.RemoteType == RemoteRemote {
		return true
	}
	return strings.Contains(strings.ToLower(j.Location), strings.ToLower(wanted))
}

// Package model defines the canonical data types shared across the core:
// the Job record, the Filter predicate set, and the source/job taxonomies
// from spec §3.
package model

import (
	"strings"
	"time"
)

// CompanyType classifies the employer behind a Job.
type CompanyType string

const (
	CompanyPrivate    CompanyType = "private"
	CompanyGovernment CompanyType = "government"
	CompanyAcademic   CompanyType = "academic"
)

// JobType is the employment arrangement.
type JobType string

const (
	JobFullTime   JobType = "full-time"
	JobPartTime   JobType = "part-time"
	JobContract   JobType = "contract"
	JobInternship JobType = "internship"
	JobTemporary  JobType = "temporary"
)

// JobLevel is the seniority band. See the job-level keyword set in the
// glossary — Normalize maps free text onto this closed set.
type JobLevel string

const (
	LevelEntry    JobLevel = "entry"
	LevelMid      JobLevel = "mid"
	LevelSenior   JobLevel = "senior"
	LevelManager  JobLevel = "manager"
	LevelDirector JobLevel = "director"
	LevelCSuite   JobLevel = "c_suite"
)

// RemoteType describes the work arrangement.
type RemoteType string

const (
	RemoteRemote RemoteType = "remote"
	RemoteHybrid RemoteType = "hybrid"
	RemoteOnsite RemoteType = "onsite"
)

// Source tags identify which adapter produced a raw record.
const (
	SourceRSS        = "rss"
	SourceGovernment = "government"
	SourcePaidSearch = "serpapi"
	SourceCompany    = "company"
)

// DefaultCurrency is used when a listing gives no explicit currency.
const DefaultCurrency = "ZAR"

// Company is the employer attached to a Job.
type Company struct {
	Name string
	Type CompanyType
}

// Job is the canonical, immutable-after-emission record described in
// spec §3. Raw adapter output is projected into a Job by the Normalizer;
// after that no field is mutated except by the Normalizer's own merge
// step (identity, match score, merged fields).
type Job struct {
	ID          string
	Title       string
	Description string
	Company     Company
	Location    string

	PostedDate time.Time
	ScrapedAt  time.Time

	SalaryMin      *float64
	SalaryMax      *float64
	SalaryCurrency string

	JobType    JobType
	JobLevel   JobLevel
	RemoteType RemoteType

	Source    string
	SourceURL string
	Skills    []string

	MatchScore *float64
}

// Validate enforces the invariants of spec §3 that every emitted Job
// must satisfy regardless of which adapter produced it.
func (j *Job) Validate() error {
	if strings.TrimSpace(j.Title) == "" {
		return &InvariantError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(j.Company.Name) == "" {
		return &InvariantError{Field: "company.name", Reason: "must not be empty"}
	}
	if strings.TrimSpace(j.Source) == "" {
		return &InvariantError{Field: "source", Reason: "must not be empty"}
	}
	if j.PostedDate.After(j.ScrapedAt) {
		return &InvariantError{Field: "posted_date", Reason: "must not be after scraped_at"}
	}
	if j.SalaryMin != nil && j.SalaryMax != nil && *j.SalaryMin > *j.SalaryMax {
		return &InvariantError{Field: "salary_min", Reason: "must not exceed salary_max"}
	}
	return nil
}

// NormalizedTitle, NormalizedCompany and NormalizedLocation are the
// comparison-fields used for identity and merge: trimmed and lowercased.
func NormalizedTitle(j *Job) string    { return normalizeField(j.Title) }
func NormalizedCompany(j *Job) string  { return normalizeField(j.Company.Name) }
func NormalizedLocation(j *Job) string { return normalizeField(j.Location) }

func normalizeField(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

package normalizer

import "github.com/jonesrussell/jobcore/internal/model"

// sourcePriority orders sources for conflict resolution during merge,
// per spec §4.6: "prefer (in order) paid-search, government, RSS,
// company for source attribution when conflicts arise".
var sourcePriority = map[string]int{
	model.SourcePaidSearch: 0,
	model.SourceGovernment: 1,
	model.SourceRSS:        2,
	model.SourceCompany:    3,
}

func rank(source string) int {
	if r, ok := sourcePriority[source]; ok {
		return r
	}
	return len(sourcePriority) // unknown sources sort last
}

// Merge combines two Jobs known to share an identity into one record,
// taking the most specific non-empty value for each field and resolving
// `source` by priority, except `source_url` which comes from whichever
// side has a non-empty URL (spec §4.6).
func Merge(a, b *model.Job) *model.Job {
	primary, secondary := a, b
	if rank(b.Source) < rank(a.Source) {
		primary, secondary = b, a
	}

	merged := *primary
	merged.Source = primary.Source

	if merged.Description == "" {
		merged.Description = secondary.Description
	}
	if merged.Company.Type == "" {
		merged.Company.Type = secondary.Company.Type
	}
	if merged.SalaryMin == nil {
		merged.SalaryMin = secondary.SalaryMin
	}
	if merged.SalaryMax == nil {
		merged.SalaryMax = secondary.SalaryMax
	}
	if merged.JobType == "" {
		merged.JobType = secondary.JobType
	}
	if merged.RemoteType == "" {
		merged.RemoteType = secondary.RemoteType
	}
	merged.Skills = mergeSkills(primary.Skills, secondary.Skills)

	merged.SourceURL = primary.SourceURL
	if merged.SourceURL == "" {
		merged.SourceURL = secondary.SourceURL
	}

	if secondary.ScrapedAt.After(merged.ScrapedAt) {
		merged.ScrapedAt = secondary.ScrapedAt
	}

	return &merged
}

func mergeSkills(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	out := make([]string, 0, len(a)+len(b))
	for _, list := range [][]string{a, b} {
		for _, s := range list {
			if _, ok := seen[s]; ok {
				continue
			}
			seen[s] = struct{}{}
			out = append(out, s)
		}
	}
	return out
}

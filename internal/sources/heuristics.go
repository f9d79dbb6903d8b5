package sources

import (
	"regexp"
	"strings"

	"github.com/jonesrussell/jobcore/internal/model"
)

// saLocations is the closed set of South African cities/provinces used
// to recognize a location mention in free text, per spec §4.4.1.
var saLocations = []string{
	"johannesburg", "cape town", "durban", "pretoria", "port elizabeth",
	"gqeberha", "bloemfontein", "east london", "polokwane", "nelspruit",
	"mbombela", "kimberley", "pietermaritzburg", "rustenburg", "george",
	"gauteng", "western cape", "kwazulu-natal", "eastern cape",
	"free state", "limpopo", "mpumalanga", "north west", "northern cape",
}

const defaultLocation = "South Africa"

// InferLocation matches text against the closed SA location set,
// falling back to "South Africa" when nothing matches.
func InferLocation(text string) string {
	lower := strings.ToLower(text)
	for _, loc := range saLocations {
		if strings.Contains(lower, loc) {
			return loc
		}
	}
	return defaultLocation
}

var remotePattern = regexp.MustCompile(`(?i)\b(remote|work from home|wfh)\b`)
var hybridPattern = regexp.MustCompile(`(?i)\bhybrid\b`)

// InferRemoteType applies spec §4.4.1's remote/hybrid keyword rules.
func InferRemoteType(text string) model.RemoteType {
	if hybridPattern.MatchString(text) {
		return model.RemoteHybrid
	}
	if remotePattern.MatchString(text) {
		return model.RemoteRemote
	}
	return model.RemoteOnsite
}

// companyPatterns recognizes the "… at COMPANY", "COMPANY is hiring",
// and "COMPANY – Title" phrasings named in spec §4.4.1, in order of
// preference. Matches of length 4-49 are accepted; anything else is
// treated as not found.
var companyPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bat\s+([A-Z][\w&.,' -]{2,47})\s*$`),
	regexp.MustCompile(`(?i)^([A-Z][\w&.,' -]{2,47})\s+is hiring\b`),
	regexp.MustCompile(`(?i)^([A-Z][\w&.,' -]{2,47})\s*[-–]\s*\S`),
}

// InferCompany applies the title/summary company heuristic used when an
// RSS feed item carries no explicit author/company field.
func InferCompany(text string) (string, bool) {
	for _, pat := range companyPatterns {
		m := pat.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		if len(candidate) >= 4 && len(candidate) <= 49 {
			return candidate, true
		}
	}
	return "", false
}

package normalizer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jonesrussell/jobcore/internal/model"
)

// jobLevelKeywords is the closed mapping from the glossary's "Job level
// keyword set". Order matters: more specific bands are checked first so
// e.g. "ceo" doesn't fall through to a later, broader match.
var jobLevelKeywords = []struct {
	level    model.JobLevel
	keywords []string
}{
	{model.LevelCSuite, []string{"ceo", "cto", "cfo", "chief"}},
	{model.LevelDirector, []string{"director", "vp", "vice president"}},
	{model.LevelManager, []string{"manager", "head of", "lead"}},
	{model.LevelSenior, []string{"senior", "sr.", "principal"}},
	{model.LevelEntry, []string{"junior", "jr.", "entry", "graduate", "intern"}},
}

// InferJobLevel applies the closed keyword mapping to title+description
// text, defaulting to mid when nothing matches.
func InferJobLevel(title, description string) model.JobLevel {
	haystack := strings.ToLower(title + " " + description)
	for _, band := range jobLevelKeywords {
		for _, kw := range band.keywords {
			// A keyword counts only at the start of a word, so "cto" does
			// not match inside "director".
			for from := 0; ; {
				i := strings.Index(haystack[from:], kw)
				if i < 0 {
					break
				}
				i += from
				prev, _ := utf8.DecodeLastRuneInString(haystack[:i])
				if i == 0 || !unicode.IsLetter(prev) && !unicode.IsDigit(prev) {
					return band.level
				}
				from = i + 1
			}
		}
	}
	return model.LevelMid
}

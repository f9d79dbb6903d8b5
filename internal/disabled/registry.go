// Package disabled holds the static Disabled-Source Registry (C8, spec
// §4.8): sources that must never be instantiated or wired, even if a
// deployment's configuration accidentally asks for them.
package disabled

// Entry is one disabled-source record.
type Entry struct {
	SourceID    string
	Reason      string
	Alternative string
}

// Registry is the compile-time-like list of sources that MUST NOT run,
// mirroring the teacher's package-level constant-table style
// (internal/crawler/constants.go) applied to entries instead of
// durations. The entry shape and the four sources it names come from
// legal_scraper_manager.py's disconnected_scrapers dict (linkedin,
// indeed, glassdoor, jobspy, each with a reason and an alternative) —
// that table is the direct source for what "disabled" means here, not
// just the constant-table style. Extend this list, never bypass it
// from config.
var Registry = []Entry{
	{
		SourceID:    "linkedin",
		Reason:      "LinkedIn's terms of service and anti-bot defenses prohibit automated scraping",
		Alternative: "use the paid-search adapter's provider, which has a commercial agreement with LinkedIn",
	},
	{
		SourceID:    "indeed-scrape",
		Reason:      "Indeed blocks scraping at the infrastructure level and requires a commercial partner API",
		Alternative: "use the paid-search adapter configured against a provider with Indeed coverage",
	},
	{
		SourceID:    "glassdoor",
		Reason:      "Glassdoor requires authenticated sessions and actively blocks headless scraping",
		Alternative: "none at this time",
	},
	{
		SourceID:    "jobspy",
		Reason:      "running a scrape-every-board aggregator library server-side carries the same legal exposure as scraping those boards directly",
		Alternative: "none at this time; a user-run-locally-and-upload flow is out of scope for this core",
	},
}

// IsDisabled reports whether sourceID must never be activated.
func IsDisabled(sourceID string) (Entry, bool) {
	for _, e := range Registry {
		if e.SourceID == sourceID {
			return e, true
		}
	}
	return Entry{}, false
}

// Filter removes every disabled id from sourceIDs, returning the
// survivors and the entries that were removed (for status reporting).
func Filter(sourceIDs []string) (allowed []string, removed []Entry) {
	for _, id := range sourceIDs {
		if e, ok := IsDisabled(id); ok {
			removed = append(removed, e)
			continue
		}
		allowed = append(allowed, id)
	}
	return allowed, removed
}

package disabled

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDisabledSourceRefusesActivation is scenario S4.
func TestDisabledSourceRefusesActivation(t *testing.T) {
	_, ok := IsDisabled("linkedin")
	assert.True(t, ok)

	allowed, removed := Filter([]string{"rss", "linkedin", "government"})
	assert.Equal(t, []string{"rss", "government"}, allowed)
	assert.Len(t, removed, 1)
	assert.Equal(t, "linkedin", removed[0].SourceID)
}

func TestUnknownSourceIsNotDisabled(t *testing.T) {
	_, ok := IsDisabled("rss")
	assert.False(t, ok)
}

// TestRegistryCoversEveryLegallyDisconnectedScraper confirms the
// registry names every source the legal review disconnected, not just
// the two with a paid-search alternative.
func TestRegistryCoversEveryLegallyDisconnectedScraper(t *testing.T) {
	for _, id := range []string{"linkedin", "indeed-scrape", "glassdoor", "jobspy"} {
		entry, ok := IsDisabled(id)
		assert.True(t, ok, "expected %s to be disabled", id)
		assert.NotEmpty(t, entry.Reason)
		assert.NotEmpty(t, entry.Alternative)
	}
}

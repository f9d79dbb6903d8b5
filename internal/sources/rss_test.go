package sources

import (
	"testing"
	"time"

	"github.com/mmcdole/gofeed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectFeedItemWithExplicitAuthor(t *testing.T) {
	posted := time.Now().Add(-time.Hour)
	item := &gofeed.Item{
		Title:           "Backend Engineer",
		Description:     "<p>Build APIs in Go. Remote, R50,000 per month.</p>",
		Author:          &gofeed.Person{Name: "Yoco"},
		Link:            "https://example.com/jobs/9",
		PublishedParsed: &posted,
	}

	job, ok := projectFeedItem(item, "https://feed.example.com/jobs.xml")
	require.True(t, ok)
	assert.Equal(t, "Backend Engineer", job.Title)
	assert.Equal(t, "Yoco", job.Company.Name)
	assert.Equal(t, "https://example.com/jobs/9", job.SourceURL)
	require.NotNil(t, job.SalaryMin)
	assert.Equal(t, 600000.0, *job.SalaryMin) // 50000 * 12
}

func TestProjectFeedItemFallsBackToHeuristicCompany(t *testing.T) {
	item := &gofeed.Item{
		Title:       "Data Analyst at Discovery Limited",
		Description: "Analyse data for our Sandton office.",
	}

	job, ok := projectFeedItem(item, "https://feed.example.com/jobs.xml")
	require.True(t, ok)
	assert.Equal(t, "Discovery Limited", job.Company.Name)
}

func TestProjectFeedItemRejectsEmptyTitle(t *testing.T) {
	item := &gofeed.Item{Title: "", Description: "no title here"}
	_, ok := projectFeedItem(item, "https://feed.example.com/jobs.xml")
	assert.False(t, ok)
}

func TestProjectFeedItemDropsWhenNoCompanyFound(t *testing.T) {
	item := &gofeed.Item{Title: "Mystery Role", Description: "no identifiable employer mentioned"}
	_, ok := projectFeedItem(item, "https://feed.example.com/jobs.xml")
	assert.False(t, ok)
}

func TestHostOf(t *testing.T) {
	assert.Equal(t, "example.com", hostOf("https://example.com/feed.xml"))
	assert.Equal(t, "example.com", hostOf("http://example.com"))
}

package sources

import (
	"testing"

	"github.com/jonesrussell/jobcore/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestInferLocationMatchesClosedSet(t *testing.T) {
	assert.Equal(t, "cape town", InferLocation("Software Engineer, Cape Town"))
	assert.Equal(t, "gauteng", InferLocation("Based in Gauteng region"))
	assert.Equal(t, defaultLocation, InferLocation("Somewhere unspecified"))
}

func TestInferRemoteType(t *testing.T) {
	assert.Equal(t, model.RemoteRemote, InferRemoteType("Fully remote, work from home"))
	assert.Equal(t, model.RemoteHybrid, InferRemoteType("Hybrid role, 3 days in office"))
	assert.Equal(t, model.RemoteOnsite, InferRemoteType("On-site only"))
}

func TestInferRemoteTypeHybridOverridesRemoteMention(t *testing.T) {
	// spec §4.4.1: "hybrid" flips a remote mention to hybrid.
	assert.Equal(t, model.RemoteHybrid, InferRemoteType("remote-friendly but hybrid preferred"))
}

func TestInferCompanyPatterns(t *testing.T) {
	company, ok := InferCompany("Senior Backend Engineer at Nedbank Group")
	assert.True(t, ok)
	assert.Equal(t, "Nedbank Group", company)

	company, ok = InferCompany("Takealot is hiring a Data Analyst")
	assert.True(t, ok)
	assert.Equal(t, "Takealot", company)

	_, ok = InferCompany("no company mention here at all")
	assert.False(t, ok)
}

func TestInferCompanyRejectsOutOfRangeLength(t *testing.T) {
	_, ok := InferCompany("Engineer at AB")
	assert.False(t, ok)
}

func TestInferGovernmentLevel(t *testing.T) {
	assert.Equal(t, model.LevelDirector, inferGovernmentLevel("Director General: Health"))
	assert.Equal(t, model.LevelManager, inferGovernmentLevel("Regional Manager"))
	assert.Equal(t, model.LevelEntry, inferGovernmentLevel("Junior Administrative Assistant"))
	assert.Equal(t, model.LevelMid, inferGovernmentLevel("Compliance Officer"))
}

func TestSalaryForGrade(t *testing.T) {
	min, max, ok := salaryForGrade(12)
	assert.True(t, ok)
	assert.Equal(t, 700000.0, min)
	assert.Equal(t, 1200000.0, max)

	_, _, ok = salaryForGrade(99)
	assert.False(t, ok)
}

package sink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/jobcore/internal/model"
)

func TestMemorySinkUpsertIsIdempotentByID(t *testing.T) {
	s := NewMemorySink()
	job := &model.Job{ID: "abc123", Title: "Engineer", Company: model.Company{Name: "ACME"}}

	require.NoError(t, s.Upsert(context.Background(), job))
	require.NoError(t, s.Upsert(context.Background(), job))

	assert.Equal(t, 1, s.Len())
	stored, ok := s.Get("abc123")
	require.True(t, ok)
	assert.Equal(t, "Engineer", stored.Title)
}

func TestMemorySinkDistinctIDs(t *testing.T) {
	s := NewMemorySink()
	require.NoError(t, s.Upsert(context.Background(), &model.Job{ID: "a"}))
	require.NoError(t, s.Upsert(context.Background(), &model.Job{ID: "b"}))
	assert.Equal(t, 2, s.Len())
}

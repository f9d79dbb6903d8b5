package sink

import (
	"context"
	"sync"

	"github.com/jonesrussell/jobcore/internal/model"
)

// MemorySink is an in-process Sink backed by a map, used for dry runs
// and tests — the test double every example repo's storage package also
// ships alongside its real client (e.g. the teacher's mock_storage.go).
type MemorySink struct {
	mu   sync.Mutex
	jobs map[string]*model.Job
}

// NewMemorySink returns an empty MemorySink.
func NewMemorySink() *MemorySink {
	return &MemorySink{jobs: make(map[string]*model.Job)}
}

func (m *MemorySink) Upsert(_ context.Context, job *model.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.jobs[job.ID] = job
	return nil
}

// Get returns the stored job for id, if any — test/inspection helper.
func (m *MemorySink) Get(id string) (*model.Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	j, ok := m.jobs[id]
	return j, ok
}

// Len reports how many distinct job identities have been upserted.
func (m *MemorySink) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.jobs)
}

var _ Sink = (*MemorySink)(nil)

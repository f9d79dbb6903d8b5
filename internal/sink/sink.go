// Package sink implements the Sink Adapter (C9, EXPANSION): the opaque
// upsert boundary spec.md treats persistence as, narrowed from the
// teacher's fuller storage interface to just what a job-aggregation
// consumer needs.
package sink

import (
	"context"

	"github.com/jonesrussell/jobcore/internal/model"
)

// Sink persists normalized Jobs, upserting by Job.ID so re-ingesting the
// same identity never duplicates a record.
type Sink interface {
	Upsert(ctx context.Context, job *model.Job) error
}

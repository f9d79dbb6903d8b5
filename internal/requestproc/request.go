// Package requestproc implements the Request Processor (C5, spec §4.5):
// cache-check, batch-or-enqueue, a strict-priority worker pool with
// retries and cooperative cancellation.
package requestproc

import (
	"context"
	"time"
)

// Status is the terminal or interim outcome of a Request.
type Status string

const (
	StatusQueued    Status = "queued"
	StatusCached    Status = "cached"
	StatusBatched   Status = "batched"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Handler invokes an endpoint's business logic for a request's payload,
// returning the response data or an error.
type Handler func(ctx context.Context, payload any) (any, error)

// Request is the unit of work accepted by the processor, per spec §4.5.
type Request struct {
	ID         string
	Endpoint   string
	Payload    any
	Priority   int // lower = more urgent
	CacheKey   string
	BatchKey   string
	Timeout    time.Duration
	MaxRetries int
	Callback   func(Result)

	submittedAt time.Time
	seq         uint64
}

// Result is the RequestResult contract from spec §4.5.
type Result struct {
	Status         Status
	Data           any
	Err            error
	ProcessingTime time.Duration
}

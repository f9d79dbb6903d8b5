package requestproc

import (
	"sync"
	"time"
)

// defaultBatchSize and defaultBatchTimeout are spec §4.5's defaults
// ("10 items / 100 ms").
const (
	defaultBatchSize    = 10
	defaultBatchTimeout = 100 * time.Millisecond
)

// BatchHandler processes a released batch of payloads for one endpoint,
// returning one result per request in the same order.
type BatchHandler func(payloads []any) ([]Result, error)

// batch accumulates requests sharing a batch_key until it reaches the
// configured size or its timeout fires, then releases all at once.
type batch struct {
	mu      sync.Mutex
	reqs    []*Request
	timer   *time.Timer
	size    int
	timeout time.Duration
	release func([]*Request)
}

func newBatch(size int, timeout time.Duration, release func([]*Request)) *batch {
	if size <= 0 {
		size = defaultBatchSize
	}
	if timeout <= 0 {
		timeout = defaultBatchTimeout
	}
	return &batch{size: size, timeout: timeout, release: release}
}

// add appends req to the batch, releasing it if the size threshold is
// reached; otherwise starts the batch timeout timer if it is not already
// running (a later add does not restart it).
func (b *batch) add(req *Request) {
	b.mu.Lock()
	b.reqs = append(b.reqs, req)
	full := len(b.reqs) >= b.size

	if full {
		reqs := b.reqs
		b.reqs = nil
		if b.timer != nil {
			b.timer.Stop()
			b.timer = nil
		}
		b.mu.Unlock()
		b.release(reqs)
		return
	}

	if b.timer == nil {
		b.timer = time.AfterFunc(b.timeout, b.flush)
	}
	b.mu.Unlock()
}

func (b *batch) flush() {
	b.mu.Lock()
	reqs := b.reqs
	b.reqs = nil
	b.timer = nil
	b.mu.Unlock()

	if len(reqs) > 0 {
		b.release(reqs)
	}
}

// batchRegistry holds one batch accumulator per (endpoint, batch_key).
type batchRegistry struct {
	mu      sync.Mutex
	batches map[string]*batch
	size    int
	timeout time.Duration
	release func(endpoint string, reqs []*Request)
}

func newBatchRegistry(size int, timeout time.Duration, release func(endpoint string, reqs []*Request)) *batchRegistry {
	return &batchRegistry{
		batches: make(map[string]*batch),
		size:    size,
		timeout: timeout,
		release: release,
	}
}

func (r *batchRegistry) add(req *Request) {
	key := req.Endpoint + "\x00" + req.BatchKey

	r.mu.Lock()
	b, ok := r.batches[key]
	if !ok {
		endpoint := req.Endpoint
		b = newBatch(r.size, r.timeout, func(reqs []*Request) { r.release(endpoint, reqs) })
		r.batches[key] = b
	}
	r.mu.Unlock()

	b.add(req)
}

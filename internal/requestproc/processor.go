package requestproc

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonesrussell/jobcore/internal/cache"
	"github.com/jonesrussell/jobcore/internal/model"
)

const (
	retryBaseDelay = 2 * time.Second
	retryMaxDelay  = 30 * time.Second

	// defaultQueueCapacity bounds the priority queue; Submit blocks up to
	// enqueueBlockTimeout against a full queue before failing with
	// backpressure, per spec §5.
	defaultQueueCapacity = 1000
	enqueueBlockTimeout  = 5 * time.Second
)

// Processor implements the Request Processor (C5): cache-check,
// batch-or-enqueue, strict-priority worker pool with retries and
// cooperative cancellation, per spec §4.5.
type Processor struct {
	handlers map[string]Handler
	cache    *cache.Cache[any]
	batches  *batchRegistry

	mu     sync.Mutex
	cond   *sync.Cond
	queue  *PriorityQueue
	seq    uint64
	closed bool

	// slots bounds the queue: Push acquires one, dequeue releases one.
	// A full channel means a full queue, giving Submit a natural blocking
	// point to implement spec §5's "block then fail" backpressure policy.
	slots chan struct{}

	// enqueueTimeout overrides enqueueBlockTimeout; tests shrink this to
	// keep backpressure assertions fast.
	enqueueTimeout time.Duration

	workerCount int
	group       *errgroup.Group
	ctx         context.Context
	cancel      context.CancelFunc
}

// NewProcessor constructs a Processor with the given worker-pool width,
// queue capacity, and the caller's Result Cache for lookups. Handlers are
// registered via RegisterHandler before Start. capacity<=0 uses
// defaultQueueCapacity.
func NewProcessor(workerCount, capacity int, resultCache *cache.Cache[any]) *Processor {
	if workerCount <= 0 {
		workerCount = 4
	}
	if capacity <= 0 {
		capacity = defaultQueueCapacity
	}
	p := &Processor{
		handlers:       make(map[string]Handler),
		cache:          resultCache,
		queue:          NewPriorityQueue(),
		slots:          make(chan struct{}, capacity),
		workerCount:    workerCount,
		enqueueTimeout: enqueueBlockTimeout,
	}
	p.cond = sync.NewCond(&p.mu)
	p.batches = newBatchRegistry(defaultBatchSize, defaultBatchTimeout, p.releaseBatch)
	return p
}

// RegisterHandler binds an endpoint name to its Handler.
func (p *Processor) RegisterHandler(endpoint string, h Handler) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.handlers[endpoint] = h
}

// Start launches the worker pool; Stop cancels it and waits for workers
// to drain, matching the teacher's Start/Stop + done-channel shape
// generalized onto an errgroup-managed pool.
func (p *Processor) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)
	group, gctx := errgroup.WithContext(p.ctx)
	p.group = group

	for i := 0; i < p.workerCount; i++ {
		group.Go(func() error {
			p.workerLoop(gctx)
			return nil
		})
	}
}

// Stop cancels the worker pool and waits for in-flight handlers to
// return cooperatively.
func (p *Processor) Stop() error {
	if p.cancel != nil {
		p.cancel()
	}
	p.mu.Lock()
	p.closed = true
	p.cond.Broadcast()
	p.mu.Unlock()
	if p.group != nil {
		return p.group.Wait()
	}
	return nil
}

// Submit implements the pipeline of spec §4.5: cache-check, then
// batch-or-enqueue.
func (p *Processor) Submit(req *Request) Result {
	start := time.Now()

	if req.CacheKey != "" {
		if v, ok := p.cache.Get(req.CacheKey); ok {
			return Result{Status: StatusCached, Data: v, ProcessingTime: time.Since(start)}
		}
	}

	if req.BatchKey != "" {
		p.mu.Lock()
		_, hasHandler := p.handlers[req.Endpoint]
		p.mu.Unlock()
		if hasHandler {
			p.batches.add(req)
			return Result{Status: StatusBatched, ProcessingTime: time.Since(start)}
		}
	}

	req.submittedAt = time.Now()
	if !p.enqueue(req) {
		return Result{
			Status:         StatusFailed,
			Err:            model.NewError(model.KindBackpressure, "request queue full", nil),
			ProcessingTime: time.Since(start),
		}
	}
	return Result{Status: StatusQueued, ProcessingTime: time.Since(start)}
}

// enqueue acquires a queue slot, blocking up to enqueueBlockTimeout if
// the queue is full, then pushes req. Returns false (backpressure) if
// no slot freed up in time, per spec §5's bounded-queue policy.
func (p *Processor) enqueue(req *Request) bool {
	timer := time.NewTimer(p.enqueueTimeout)
	defer timer.Stop()

	select {
	case p.slots <- struct{}{}:
	case <-timer.C:
		return false
	}

	p.mu.Lock()
	p.seq++
	req.seq = p.seq
	p.queue.Push(req)
	p.cond.Signal()
	p.mu.Unlock()
	return true
}

func (p *Processor) workerLoop(ctx context.Context) {
	for {
		req := p.dequeue(ctx)
		if req == nil {
			return
		}
		p.handle(ctx, req)
	}
}

func (p *Processor) dequeue(ctx context.Context) *Request {
	p.mu.Lock()
	defer p.mu.Unlock()

	for p.queue.Len() == 0 && !p.closed {
		if ctx.Err() != nil {
			return nil
		}
		p.cond.Wait()
	}
	if p.closed && p.queue.Len() == 0 {
		return nil
	}
	req, _ := p.queue.Pop()
	<-p.slots // release the slot this request held since enqueue
	return req
}

func (p *Processor) handle(ctx context.Context, req *Request) {
	start := time.Now()

	p.mu.Lock()
	h, ok := p.handlers[req.Endpoint]
	p.mu.Unlock()
	if !ok {
		p.complete(req, Result{
			Status:         StatusFailed,
			Err:            model.NewError(model.KindAdapterFailure, "no handler for "+req.Endpoint, nil),
			ProcessingTime: time.Since(start),
		})
		return
	}

	reqCtx := ctx
	var cancel context.CancelFunc
	if req.Timeout > 0 {
		reqCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	data, err := p.runWithRetries(reqCtx, h, req)
	elapsed := time.Since(start)

	if err != nil {
		result := Result{Status: StatusFailed, Err: err, ProcessingTime: elapsed}
		p.complete(req, result)
		return
	}

	if req.CacheKey != "" {
		p.cache.Put(req.CacheKey, data, cache.TTLNormalizedDerived)
	}
	p.complete(req, Result{Status: StatusCompleted, Data: data, ProcessingTime: elapsed})
}

// runWithRetries applies spec §4.5's backoff: up to max_retries, 2s
// doubling, capped at 30s.
func (p *Processor) runWithRetries(ctx context.Context, h Handler, req *Request) (any, error) {
	delay := retryBaseDelay
	var lastErr error

	for attempt := 0; attempt <= req.MaxRetries; attempt++ {
		if ctx.Err() != nil {
			return nil, model.NewError(model.KindBackpressure, "request cancelled", ctx.Err())
		}

		data, err := h(ctx, req.Payload)
		if err == nil {
			return data, nil
		}
		lastErr = err

		if attempt == req.MaxRetries {
			break
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, model.NewError(model.KindBackpressure, "request cancelled during retry", ctx.Err())
		case <-timer.C:
		}

		delay *= 2
		if delay > retryMaxDelay {
			delay = retryMaxDelay
		}
	}

	return nil, model.NewError(model.KindAdapterFailure, "request failed after retries", lastErr)
}

func (p *Processor) complete(req *Request, result Result) {
	if req.Callback != nil {
		req.Callback(result)
	}
}

func (p *Processor) releaseBatch(endpoint string, reqs []*Request) {
	p.mu.Lock()
	h, ok := p.handlers[endpoint]
	p.mu.Unlock()
	if !ok {
		return
	}

	for _, req := range reqs {
		r := req
		go func() {
			ctx := p.ctx
			if ctx == nil {
				ctx = context.Background()
			}
			data, err := h(ctx, r.Payload)
			if err != nil {
				p.complete(r, Result{Status: StatusFailed, Err: err})
				return
			}
			p.complete(r, Result{Status: StatusCompleted, Data: data})
		}()
	}
}

// PendingCount exposes the current queue depth for status reporting.
func (p *Processor) PendingCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.queue.Len()
}

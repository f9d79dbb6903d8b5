package requestproc

import "container/heap"

// queueItem wraps a Request with its heap index for container/heap's
// bookkeeping.
type queueItem struct {
	req   *Request
	index int
}

// priorityQueue orders by numeric priority (lower = more urgent), then
// by submission sequence (FIFO within a priority level), per spec §4.5's
// ordering guarantees.
type priorityQueue []*queueItem

func (pq priorityQueue) Len() int { return len(pq) }

func (pq priorityQueue) Less(i, j int) bool {
	if pq[i].req.Priority != pq[j].req.Priority {
		return pq[i].req.Priority < pq[j].req.Priority
	}
	return pq[i].req.seq < pq[j].req.seq
}

func (pq priorityQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *priorityQueue) Push(x any) {
	item := x.(*queueItem)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *priorityQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*pq = old[:n-1]
	return item
}

// PriorityQueue is a concurrency-unsafe wrapper around container/heap;
// the Processor guards all access with its own mutex.
type PriorityQueue struct {
	items priorityQueue
}

// NewPriorityQueue returns an initialized, empty queue.
func NewPriorityQueue() *PriorityQueue {
	pq := &PriorityQueue{}
	heap.Init(&pq.items)
	return pq
}

func (q *PriorityQueue) Push(req *Request) {
	heap.Push(&q.items, &queueItem{req: req})
}

func (q *PriorityQueue) Pop() (*Request, bool) {
	if q.items.Len() == 0 {
		return nil, false
	}
	item := heap.Pop(&q.items).(*queueItem)
	return item.req, true
}

func (q *PriorityQueue) Len() int { return q.items.Len() }

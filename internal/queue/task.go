package queue

import (
	"container/heap"
	"context"
	"time"
)

// Priority ranks pending tasks. Lower values dispatch first.
type Priority int

const (
	PriorityCritical   Priority = 0
	PriorityHigh       Priority = 1
	PriorityNormal     Priority = 2
	PriorityLow        Priority = 3
	PriorityBackground Priority = 4
)

var priorityNames = map[Priority]string{
	PriorityCritical:   "critical",
	PriorityHigh:       "high",
	PriorityNormal:     "normal",
	PriorityLow:        "low",
	PriorityBackground: "background",
}

// String returns the priority name.
func (p Priority) String() string {
	if name, ok := priorityNames[p]; ok {
		return name
	}
	return "unknown"
}

// TaskFunc is the unit of work a task executes. The context carries the
// task's execution deadline; the function must honor it.
type TaskFunc func(ctx context.Context) (interface{}, error)

// task is one queued execution request.
type task struct {
	id        string
	priority  Priority
	fn        TaskFunc
	timeout   time.Duration
	createdAt time.Time
	seq       uint64 // submission order, tie-breaks equal priorities
}

// TaskResult records a task's terminal outcome and timing.
type TaskResult struct {
	TaskID        string
	Success       bool
	TimedOut      bool
	Value         interface{}
	Err           string
	ExecutionTime time.Duration
	QueuedTime    time.Duration
}

// taskHeap is a binary heap keyed by (priority, sequence number) so that
// dispatch order is deterministic: highest priority first, FIFO within a
// priority.
type taskHeap []*task

func (h taskHeap) Len() int { return len(h) }

func (h taskHeap) Less(i, j int) bool {
	if h[i].priority != h[j].priority {
		return h[i].priority < h[j].priority
	}
	return h[i].seq < h[j].seq
}

func (h taskHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *taskHeap) Push(x interface{}) {
	*h = append(*h, x.(*task))
}

func (h *taskHeap) Pop() interface{} {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return t
}

func (h *taskHeap) push(t *task) {
	heap.Push(h, t)
}

func (h *taskHeap) pop() *task {
	if h.Len() == 0 {
		return nil
	}
	return heap.Pop(h).(*task)
}

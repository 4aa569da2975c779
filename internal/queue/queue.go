// Package queue provides the admission-controlled execution queue:
// priority scheduling with FIFO tie-break, concurrency limiting through a
// resource limiter, per-task timeouts, and synchronous or asynchronous
// result retrieval.
package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	appErr "checkrun/pkg/errors"
	"checkrun/pkg/utils/logger"
)

const (
	// acquirePollInterval paces the dispatcher's wait for a free slot. The
	// wait polls instead of blocking so a stop request is observed promptly.
	acquirePollInterval = 100 * time.Millisecond

	// dispatchIdleWait bounds how long the dispatcher sleeps when the heap
	// is empty before re-checking.
	dispatchIdleWait = 500 * time.Millisecond

	// DefaultPollInterval paces WaitForResult's result checks.
	DefaultPollInterval = 100 * time.Millisecond

	// stopJoinTimeout bounds how long Stop waits for the dispatcher to
	// exit before abandoning in-flight work.
	stopJoinTimeout = 5 * time.Second
)

// Config holds execution queue settings.
type Config struct {
	MaxWorkers     int
	MaxQueueSize   int
	DefaultTimeout time.Duration
}

// Stats is a non-blocking snapshot of queue state.
type Stats struct {
	Running        bool
	QueueDepth     int
	MaxQueueSize   int
	PendingCount   int
	CompletedCount int
	TotalSubmitted int
	TotalCompleted int
	TotalFailed    int
	TotalTimeouts  int
	Resources      LimiterStats
}

// ExecutionQueue accepts prioritized execution requests and dispatches
// them to a bounded worker pool gated by a ResourceLimiter. One instance
// is constructed per process and passed by reference to its users; there
// is no package-level singleton.
type ExecutionQueue struct {
	maxQueueSize   int
	defaultTimeout time.Duration
	limiter        *ResourceLimiter

	mu      sync.Mutex
	heap    taskHeap
	pending map[string]*task
	results map[string]*TaskResult
	nextSeq uint64
	running bool

	totalSubmitted int
	totalCompleted int
	totalFailed    int
	totalTimeouts  int

	notify chan struct{}
	stop   chan struct{}
	done   chan struct{}
}

// New creates a stopped queue; call Start before submitting work that
// should run.
func New(cfg Config) *ExecutionQueue {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.DefaultTimeout <= 0 {
		cfg.DefaultTimeout = 30 * time.Second
	}
	return &ExecutionQueue{
		maxQueueSize:   cfg.MaxQueueSize,
		defaultTimeout: cfg.DefaultTimeout,
		limiter:        NewResourceLimiter(cfg.MaxWorkers),
		pending:        make(map[string]*task),
		results:        make(map[string]*TaskResult),
		notify:         make(chan struct{}, 1),
	}
}

// Start launches the dispatcher. Starting a running queue is a no-op.
func (q *ExecutionQueue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return
	}
	q.running = true
	q.stop = make(chan struct{})
	q.done = make(chan struct{})
	go q.dispatchLoop(q.stop, q.done)
	logger.Info(context.Background(), "execution queue started")
}

// Stop halts the dispatcher with a bounded join. Already-dispatched tasks
// are abandoned without waiting for them.
func (q *ExecutionQueue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	stop, done := q.stop, q.done
	q.mu.Unlock()

	close(stop)
	select {
	case <-done:
	case <-time.After(stopJoinTimeout):
	}
	logger.Info(context.Background(), "execution queue stopped")
}

// Submit enqueues a unit of work and returns its task ID. A zero timeout
// uses the queue default. Fails with QueueFull when the pending queue is
// at capacity.
func (q *ExecutionQueue) Submit(fn TaskFunc, priority Priority, timeout time.Duration) (string, error) {
	if fn == nil {
		return "", appErr.ValidationError("fn", "required")
	}
	if timeout <= 0 {
		timeout = q.defaultTimeout
	}

	q.mu.Lock()
	if q.heap.Len() >= q.maxQueueSize {
		q.mu.Unlock()
		return "", appErr.New(appErr.QueueFull).
			WithDetail("max_queue_size", q.maxQueueSize)
	}
	t := &task{
		id:        uuid.NewString(),
		priority:  priority,
		fn:        fn,
		timeout:   timeout,
		createdAt: time.Now(),
		seq:       q.nextSeq,
	}
	q.nextSeq++
	q.heap.push(t)
	q.pending[t.id] = t
	q.totalSubmitted++
	q.mu.Unlock()

	select {
	case q.notify <- struct{}{}:
	default:
	}
	logger.Debug(context.Background(), "task submitted",
		zap.String("task_id", t.id),
		zap.String("priority", priority.String()))
	return t.id, nil
}

// SubmitSync submits at high priority and waits for the result.
func (q *ExecutionQueue) SubmitSync(fn TaskFunc, timeout time.Duration) (interface{}, error) {
	if timeout <= 0 {
		timeout = q.defaultTimeout
	}
	taskID, err := q.Submit(fn, PriorityHigh, timeout)
	if err != nil {
		return nil, err
	}
	// The wait budget covers queueing on top of the execution timeout.
	return q.WaitForResult(taskID, 2*timeout, DefaultPollInterval)
}

// GetResult returns the completed result for a task, or nil if the task
// is still pending, running, or unknown.
func (q *ExecutionQueue) GetResult(taskID string) *TaskResult {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.results[taskID]
}

// WaitForResult polls until the task completes or the wait budget runs
// out. A wait timeout yields a QueueTimeout error, distinct from the
// task's own execution timeout (TaskTimeout).
func (q *ExecutionQueue) WaitForResult(taskID string, timeout, pollInterval time.Duration) (interface{}, error) {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	deadline := time.Now().Add(timeout)
	for {
		if res := q.GetResult(taskID); res != nil {
			if res.Success {
				return res.Value, nil
			}
			if res.TimedOut {
				return nil, appErr.Newf(appErr.TaskTimeout, "task %s timed out after %s", taskID, res.ExecutionTime).
					WithDetail("task_id", taskID)
			}
			return nil, appErr.Newf(appErr.TaskFailed, "task %s failed: %s", taskID, res.Err).
				WithDetail("task_id", taskID)
		}
		if time.Now().After(deadline) {
			return nil, appErr.Newf(appErr.QueueTimeout, "task %s did not complete within %s", taskID, timeout).
				WithDetail("task_id", taskID)
		}
		time.Sleep(pollInterval)
	}
}

// Cancel removes a task that has not been dispatched yet. Once dispatch
// begins the task's own timeout is the only cancellation mechanism.
func (q *ExecutionQueue) Cancel(taskID string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.pending[taskID]; ok {
		delete(q.pending, taskID)
		logger.Info(context.Background(), "task cancelled", zap.String("task_id", taskID))
		return true
	}
	return false
}

// Reset drops all completed results. Long-lived queues that never drain
// results must call this (or read each result) to bound memory.
func (q *ExecutionQueue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.results = make(map[string]*TaskResult)
}

// GetStats returns a snapshot without blocking the dispatcher.
func (q *ExecutionQueue) GetStats() Stats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return Stats{
		Running:        q.running,
		QueueDepth:     q.heap.Len(),
		MaxQueueSize:   q.maxQueueSize,
		PendingCount:   len(q.pending),
		CompletedCount: len(q.results),
		TotalSubmitted: q.totalSubmitted,
		TotalCompleted: q.totalCompleted,
		TotalFailed:    q.totalFailed,
		TotalTimeouts:  q.totalTimeouts,
		Resources:      q.limiter.Stats(),
	}
}

// dispatchLoop pulls the highest-priority task, waits for a resource
// slot, and hands the task to a worker goroutine. Dispatch start order is
// strictly priority-then-submission; completion order is not guaranteed.
func (q *ExecutionQueue) dispatchLoop(stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	for {
		t := q.nextPending(stop)
		if t == nil {
			return
		}
		if !q.waitForSlot(stop) {
			return
		}
		go q.runTask(t)
	}
}

// nextPending pops the next non-cancelled task, sleeping while the heap
// is empty. Returns nil when stop is requested.
func (q *ExecutionQueue) nextPending(stop <-chan struct{}) *task {
	for {
		q.mu.Lock()
		for q.heap.Len() > 0 {
			t := q.heap.pop()
			if _, ok := q.pending[t.id]; !ok {
				continue // cancelled before dispatch
			}
			delete(q.pending, t.id)
			q.mu.Unlock()
			return t
		}
		q.mu.Unlock()

		select {
		case <-stop:
			return nil
		case <-q.notify:
		case <-time.After(dispatchIdleWait):
		}
	}
}

// waitForSlot polls the limiter, re-checking the stop signal between
// attempts rather than blocking indefinitely.
func (q *ExecutionQueue) waitForSlot(stop <-chan struct{}) bool {
	for !q.limiter.TryAcquire() {
		select {
		case <-stop:
			return false
		case <-time.After(acquirePollInterval):
		}
	}
	return true
}

// runTask executes one task under its timeout and records the terminal
// outcome. The resource slot is always released.
func (q *ExecutionQueue) runTask(t *task) {
	defer q.limiter.Release()

	start := time.Now()
	queued := start.Sub(t.createdAt)
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	type outcome struct {
		value interface{}
		err   error
	}
	outcomeCh := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				outcomeCh <- outcome{err: appErr.Newf(appErr.TaskFailed, "task panicked: %v", r)}
			}
		}()
		value, err := t.fn(ctx)
		outcomeCh <- outcome{value: value, err: err}
	}()

	res := &TaskResult{TaskID: t.id, QueuedTime: queued}
	select {
	case o := <-outcomeCh:
		res.ExecutionTime = time.Since(start)
		if o.err != nil {
			res.Err = o.err.Error()
		} else {
			res.Success = true
			res.Value = o.value
		}
	case <-ctx.Done():
		res.ExecutionTime = time.Since(start)
		res.TimedOut = true
		res.Err = fmt.Sprintf("task execution timed out after %s", t.timeout)
	}

	q.mu.Lock()
	q.results[t.id] = res
	switch {
	case res.Success:
		q.totalCompleted++
	case res.TimedOut:
		q.totalTimeouts++
	default:
		q.totalFailed++
	}
	q.mu.Unlock()

	switch {
	case res.Success:
		logger.Debug(context.Background(), "task completed",
			zap.String("task_id", t.id),
			zap.Duration("queued", res.QueuedTime),
			zap.Duration("elapsed", res.ExecutionTime))
	case res.TimedOut:
		logger.Warn(context.Background(), "task timed out",
			zap.String("task_id", t.id),
			zap.Duration("timeout", t.timeout))
	default:
		logger.Error(context.Background(), "task failed",
			zap.String("task_id", t.id),
			zap.String("error", res.Err))
	}
}

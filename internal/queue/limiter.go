package queue

import "sync"

// ResourceLimiter bounds how many test executions run at once. Acquisition
// is non-blocking so the dispatch loop can keep observing shutdown while
// it waits for a slot.
type ResourceLimiter struct {
	maxConcurrent int

	mu          sync.Mutex
	activeCount int
}

// LimiterStats is a snapshot of limiter occupancy.
type LimiterStats struct {
	MaxConcurrent  int
	ActiveCount    int
	AvailableSlots int
}

// NewResourceLimiter creates a limiter with the given slot count.
func NewResourceLimiter(maxConcurrent int) *ResourceLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &ResourceLimiter{maxConcurrent: maxConcurrent}
}

// TryAcquire takes a slot if one is free. It never blocks.
func (l *ResourceLimiter) TryAcquire() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.activeCount < l.maxConcurrent {
		l.activeCount++
		return true
	}
	return false
}

// Release returns a slot. The count is clamped at zero to tolerate a
// double release.
func (l *ResourceLimiter) Release() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.activeCount > 0 {
		l.activeCount--
	}
}

// AvailableSlots returns the number of free slots.
func (l *ResourceLimiter) AvailableSlots() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.maxConcurrent - l.activeCount
}

// ActiveCount returns the number of held slots.
func (l *ResourceLimiter) ActiveCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.activeCount
}

// Stats returns a consistent snapshot of the limiter.
func (l *ResourceLimiter) Stats() LimiterStats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return LimiterStats{
		MaxConcurrent:  l.maxConcurrent,
		ActiveCount:    l.activeCount,
		AvailableSlots: l.maxConcurrent - l.activeCount,
	}
}

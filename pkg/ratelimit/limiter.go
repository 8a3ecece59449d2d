package ratelimit

import (
	"sync"
	"time"
)

// Limiter defines the interface for request pacing
type Limiter interface {
	// Wait blocks until the pacing policy allows another request
	Wait()
	// Reset resets the limiter state
	Reset()
}

// FixedInterval enforces a minimum gap between successive requests. The
// first request never blocks; each later request waits out whatever remains
// of the interval since the previous one.
type FixedInterval struct {
	interval time.Duration
	last     time.Time
	mu       sync.Mutex

	// sleep is swappable for tests
	sleep func(time.Duration)
}

// NewFixedInterval creates a fixed-interval limiter
func NewFixedInterval(interval time.Duration) *FixedInterval {
	return &FixedInterval{
		interval: interval,
		sleep:    time.Sleep,
	}
}

// Wait blocks until the interval since the last request has elapsed
func (f *FixedInterval) Wait() {
	f.mu.Lock()
	remaining := time.Duration(0)
	if !f.last.IsZero() {
		remaining = f.interval - time.Since(f.last)
	}
	f.mu.Unlock()

	if remaining > 0 {
		f.sleep(remaining)
	}

	f.mu.Lock()
	f.last = time.Now()
	f.mu.Unlock()
}

// Reset clears the last-request timestamp so the next Wait does not block
func (f *FixedInterval) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.last = time.Time{}
}

package ratelimit

import (
	"context"
	"sync"
	"time"
)

// bucket implements a token bucket.
type bucket struct {
	capacity   int
	available  int
	window     time.Duration
	lastRefill time.Time
	reason     string
}

// refill adds tokens based on elapsed time since last refill.
func (b *bucket) refill(now time.Time) {
	elapsed := now.Sub(b.lastRefill)
	if elapsed <= 0 {
		return
	}
	// rate = capacity / window
	tokens := int(float64(b.capacity) * float64(elapsed) / float64(b.window))
	if tokens > 0 {
		b.available += tokens
		if b.available > b.capacity {
			b.available = b.capacity
		}
		b.lastRefill = now
	}
}

// nextToken is how long until refill can add at least one token.
func (b *bucket) nextToken(now time.Time) time.Duration {
	per := b.window / time.Duration(b.capacity)
	wait := per - now.Sub(b.lastRefill)
	if wait < time.Millisecond {
		wait = time.Millisecond
	}
	return wait
}

// MemoryLimiter provides per-process rate limiting using token buckets.
// It is safe for concurrent use.
type MemoryLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	closed  bool
	done    chan struct{}
	nowFunc func() time.Time // for testing
}

// NewMemoryLimiter creates a new in-memory rate limiter.
func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{
		buckets: make(map[string]*bucket),
		done:    make(chan struct{}),
		nowFunc: time.Now,
	}
}

// SetCapacity configures the rate limit for a resource.
func (m *MemoryLimiter) SetCapacity(resource string, capacity int, window time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}

	if capacity <= 0 || window <= 0 {
		delete(m.buckets, resource)
		return
	}

	if b, exists := m.buckets[resource]; exists {
		b.capacity = capacity
		b.window = window
		if b.available > capacity {
			b.available = capacity
		}
		return
	}
	m.buckets[resource] = &bucket{
		capacity:   capacity,
		available:  capacity, // start full
		window:     window,
		lastRefill: m.nowFunc(),
	}
}

// GetCapacity returns the current capacity info for a resource.
func (m *MemoryLimiter) GetCapacity(resource string) *Capacity {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, exists := m.buckets[resource]
	if !exists {
		return nil
	}
	b.refill(m.nowFunc())

	return &Capacity{
		Resource:   resource,
		Available:  b.available,
		Total:      b.capacity,
		Window:     b.window,
		LastReason: b.reason,
	}
}

// take refills and takes a token. It returns the wait until the next token
// when none is available. Caller holds m.mu.
func (m *MemoryLimiter) take(resource string) (bool, time.Duration, error) {
	if m.closed {
		return false, 0, ErrClosed
	}
	b, exists := m.buckets[resource]
	if !exists {
		return false, 0, ErrResourceUnknown
	}
	now := m.nowFunc()
	b.refill(now)
	if b.available > 0 {
		b.available--
		return true, 0, nil
	}
	return false, b.nextToken(now), nil
}

// Acquire blocks until a token is available for the resource.
func (m *MemoryLimiter) Acquire(ctx context.Context, resource string) error {
	for {
		m.mu.Lock()
		ok, wait, err := m.take(resource)
		m.mu.Unlock()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-m.done:
			timer.Stop()
			return ErrClosed
		case <-timer.C:
		}
	}
}

// TryAcquire attempts to acquire a token without blocking.
func (m *MemoryLimiter) TryAcquire(resource string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	ok, _, _ := m.take(resource)
	return ok
}

// Reduce cuts the resource's capacity by a quarter, never below one.
func (m *MemoryLimiter) Reduce(resource string, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	b, exists := m.buckets[resource]
	if !exists {
		return
	}

	newCapacity := int(float64(b.capacity) * 0.75)
	if newCapacity < 1 {
		newCapacity = 1
	}
	b.capacity = newCapacity
	if b.available > newCapacity {
		b.available = newCapacity
	}
	b.reason = reason
}

// Close shuts down the limiter.
func (m *MemoryLimiter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.closed = true
	close(m.done)
	return nil
}

var _ RateLimiter = (*MemoryLimiter)(nil)

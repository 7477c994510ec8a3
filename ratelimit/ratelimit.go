package ratelimit

import (
	"context"
	"errors"
	"time"
)

// Common errors.
var (
	ErrClosed          = errors.New("limiter closed")
	ErrResourceUnknown = errors.New("unknown resource")
)

// RateLimiter throttles calls to named resources, typically one per
// embedding provider.
type RateLimiter interface {
	// Acquire blocks until a token is available for the resource.
	// Returns the context error if ctx ends first.
	// Returns ErrResourceUnknown if the resource has no configured capacity.
	Acquire(ctx context.Context, resource string) error

	// TryAcquire takes a token without blocking and reports success.
	TryAcquire(resource string) bool

	// SetCapacity configures capacity tokens per window for a resource.
	// A non-positive capacity or window removes the limit.
	SetCapacity(resource string, capacity int, window time.Duration)

	// Reduce lowers the resource's capacity after the remote side pushed
	// back (e.g. an HTTP 429). reason is informational.
	Reduce(resource string, reason string)

	// GetCapacity returns the current capacity info, or nil if unknown.
	GetCapacity(resource string) *Capacity

	// Close shuts down the limiter and wakes any waiters.
	Close() error
}

// Capacity describes the rate limit configuration for a resource.
type Capacity struct {
	Resource  string
	Available int
	Total     int
	Window    time.Duration
	// LastReason is the reason passed to the most recent Reduce call.
	LastReason string
}

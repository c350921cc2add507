package provider

import (
	"context"
	"sync"
	"time"
)

// RateLimiter is a token bucket guarding the upstream API quota. Each call
// costs one token; the bucket refills one token per interval up to capacity.
type RateLimiter struct {
	mu        sync.Mutex
	available int
	capacity  int
	interval  time.Duration
	last      time.Time
	now       func() time.Time
}

// NewRateLimiter allows capacity calls in a burst and one more per interval
// afterwards.
func NewRateLimiter(capacity int, interval time.Duration) *RateLimiter {
	return &RateLimiter{
		available: capacity,
		capacity:  capacity,
		interval:  interval,
		last:      time.Now(),
		now:       time.Now,
	}
}

// Wait blocks until a token is available or ctx is done.
func (r *RateLimiter) Wait(ctx context.Context) error {
	for {
		if r.take() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.interval):
		}
	}
}

func (r *RateLimiter) take() bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed := r.now().Sub(r.last)
	if refilled := int(elapsed / r.interval); refilled > 0 {
		r.available += refilled
		if r.available > r.capacity {
			r.available = r.capacity
		}
		r.last = r.last.Add(time.Duration(refilled) * r.interval)
	}

	if r.available == 0 {
		return false
	}
	r.available--
	return true
}

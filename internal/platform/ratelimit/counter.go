// Package ratelimit counts hits per key in fixed windows. The in-memory
// counter serves a single process; RedisCounter shares windows across
// instances.
package ratelimit

import (
	"context"
	"sync"
	"time"
)

type Counter interface {
	// Hit records one request for key and returns the count within the
	// current window and the time left until the window resets.
	Hit(ctx context.Context, key string, window time.Duration) (int, time.Duration, error)
}

type bucket struct {
	count int
	reset time.Time
}

type MemoryCounter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
	hits    int
	now     func() time.Time
}

func NewMemory() *MemoryCounter {
	return &MemoryCounter{buckets: map[string]*bucket{}, now: time.Now}
}

const pruneEvery = 1024

func (m *MemoryCounter) Hit(_ context.Context, key string, window time.Duration) (int, time.Duration, error) {
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()

	m.hits++
	if m.hits%pruneEvery == 0 {
		m.prune(now)
	}
	b, ok := m.buckets[key]
	if !ok || !now.Before(b.reset) {
		b = &bucket{reset: now.Add(window)}
		m.buckets[key] = b
	}
	b.count++
	return b.count, b.reset.Sub(now), nil
}

func (m *MemoryCounter) prune(now time.Time) {
	for key, b := range m.buckets {
		if !now.Before(b.reset) {
			delete(m.buckets, key)
		}
	}
}

func (m *MemoryCounter) size() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.buckets)
}

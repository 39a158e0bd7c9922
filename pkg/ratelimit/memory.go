package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Memory is an in-process Limiter backed by a size bounded LRU whose
// entries expire one window after they were created.
//
// When more than capacity keys are active the least recently used key is
// evicted and its count is forgotten. An attacker rotating through many
// keys can therefore reset the counter of a key they care about.
type Memory struct {
	mu     sync.Mutex
	counts *expirable.LRU[string, *counter]
}

type counter struct {
	n int
}

// NewMemory returns a Memory limiter. Non-positive arguments select the
// defaults.
func NewMemory(capacity int, window time.Duration) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if window <= 0 {
		window = DefaultWindow
	}
	return &Memory{counts: expirable.NewLRU[string, *counter](capacity, nil, window)}
}

// Check implements Limiter. It never returns an error.
func (m *Memory) Check(_ context.Context, limit int, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	// Get refreshes recency but not expiry; Add restarts the window, so it is
	// only called for keys without a live entry.
	c, ok := m.counts.Get(key)
	if !ok {
		c = &counter{}
		m.counts.Add(key, c)
	}
	c.n++

	return c.n < limit, nil
}

// Len returns the number of keys currently tracked.
func (m *Memory) Len() int {
	return m.counts.Len()
}

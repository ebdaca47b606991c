package cache

import (
	"context"
	"sync"
	"time"
)

type entry struct {
	response  string
	createdAt time.Time
}

// Memory is the in-process store. Entries expire lazily on read; there is no
// background sweep. The injected clock keeps expiry deterministic in tests.
type Memory struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]entry
}

// NewMemory builds a memory store. A zero ttl falls back to DefaultTTL and a
// nil clock to time.Now.
func NewMemory(ttl time.Duration, now func() time.Time) *Memory {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Memory{
		ttl:     ttl,
		now:     now,
		entries: make(map[string]entry),
	}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if m.now().Sub(e.createdAt) > m.ttl {
		m.mu.Lock()
		// re-check under the write lock; a fresher entry may have landed
		if cur, ok := m.entries[key]; ok && m.now().Sub(cur.createdAt) > m.ttl {
			delete(m.entries, key)
		}
		m.mu.Unlock()
		return "", false, nil
	}
	return e.response, true, nil
}

func (m *Memory) Put(_ context.Context, key, response string) error {
	m.mu.Lock()
	m.entries[key] = entry{response: response, createdAt: m.now()}
	m.mu.Unlock()
	return nil
}

// Len reports the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}

// Package cache provides the expiring caches the gateways consult before
// calling upstream APIs. Three backends share one interface: a bounded
// in-memory LRU, Redis, and a persistent sqlite store.
package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// TTLs applied by the gateways per data class.
const (
	PriceTTL   = 5 * time.Minute
	BalanceTTL = 5 * time.Minute
	TVLTTL     = 15 * time.Minute
)

// DefaultCapacity bounds the in-memory backend.
const DefaultCapacity = 512

// Cache is the expiring key-value store injected into every gateway.
// A Get miss and a Get error are treated the same by callers: fetch fresh.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type memEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// Memory is a TTL cache with LRU eviction once capacity is reached.
type Memory struct {
	mu       sync.Mutex
	capacity int
	order    *list.List
	entries  map[string]*list.Element
	now      func() time.Time
}

// NewMemory builds a bounded in-memory cache. A non-positive capacity
// falls back to DefaultCapacity.
func NewMemory(capacity int) *Memory {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Memory{
		capacity: capacity,
		order:    list.New(),
		entries:  make(map[string]*list.Element),
		now:      time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	el, ok := m.entries[key]
	if !ok {
		return nil, false, nil
	}
	ent := el.Value.(*memEntry)
	if !m.now().Before(ent.expiresAt) {
		m.order.Remove(el)
		delete(m.entries, key)
		return nil, false, nil
	}
	m.order.MoveToFront(el)
	return ent.value, true, nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = time.Second
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if el, ok := m.entries[key]; ok {
		ent := el.Value.(*memEntry)
		ent.value = value
		ent.expiresAt = m.now().Add(ttl)
		m.order.MoveToFront(el)
		return nil
	}
	el := m.order.PushFront(&memEntry{key: key, value: value, expiresAt: m.now().Add(ttl)})
	m.entries[key] = el
	if m.order.Len() > m.capacity {
		oldest := m.order.Back()
		if oldest != nil {
			m.order.Remove(oldest)
			delete(m.entries, oldest.Value.(*memEntry).key)
		}
	}
	return nil
}

// Len reports the number of live entries, expired ones included until read.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.order.Len()
}

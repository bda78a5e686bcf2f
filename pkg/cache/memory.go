package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/shashiranjanraj/inventory/pkg/metrics"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is an in-process store. Values are stored as JSON, like the redis driver.
type Memory struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{items: map[string]memoryEntry{}, now: time.Now}
}

func (m *Memory) Driver() string { return "memory" }

func (m *Memory) Get(_ context.Context, key string, dest interface{}) bool {
	m.mu.RLock()
	e, ok := m.items[key]
	m.mu.RUnlock()

	if !ok || (!e.expiresAt.IsZero() && !m.now().Before(e.expiresAt)) {
		metrics.CacheLookup(m.Driver(), false)
		return false
	}
	if err := json.Unmarshal(e.data, dest); err != nil {
		metrics.CacheLookup(m.Driver(), false)
		return false
	}
	metrics.CacheLookup(m.Driver(), true)
	return true
}

// Set stores value; a ttl of zero never expires.
func (m *Memory) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	e := memoryEntry{data: data}
	if ttl > 0 {
		e.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.items[key] = e
	m.mu.Unlock()
	return nil
}

func (m *Memory) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *Memory) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			delete(m.items, k)
		}
	}
	return nil
}

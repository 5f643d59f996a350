package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemoryKV is a process-local KV. It backs tab-scoped session storage and
// ephemeral or test runs of durable storage.
type MemoryKV struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// Compile-time check that *MemoryKV satisfies KV.
var _ KV = (*MemoryKV)(nil)

// NewMemoryKV creates an empty in-memory KV.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: make(map[string]string)}
}

// Get returns the value stored under key.
func (m *MemoryKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return "", false, fmt.Errorf("get %s: %w", key, ErrUnavailable)
	}
	v, ok := m.values[key]
	return v, ok, nil
}

// Set stores value under key.
func (m *MemoryKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("set %s: %w", key, ErrUnavailable)
	}
	m.values[key] = value
	return nil
}

// Remove deletes key.
func (m *MemoryKV) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("remove %s: %w", key, ErrUnavailable)
	}
	delete(m.values, key)
	return nil
}

// Close makes every later operation fail with ErrUnavailable.
func (m *MemoryKV) Close() error {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
	return nil
}

package storage

import (
	"context"
	"sync"
)

// MemoryAdapter keeps values in process memory. Nothing survives a restart.
type MemoryAdapter struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{data: make(map[string]string)}
}

func (m *MemoryAdapter) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.data[key]
	return value, ok, nil
}

func (m *MemoryAdapter) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *MemoryAdapter) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

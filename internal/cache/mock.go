package cache

import (
	"context"
	"sync"
	"time"
)

// MockCache provides an in-memory Cache for tests and for running
// without Redis.
type MockCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]byte)}
}

func (m *MockCache) Close() error {
	return nil
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.data[key]
	return data, ok, nil
}

func (m *MockCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = data
	return nil
}

func (m *MockCache) Invalidate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data = make(map[string][]byte)
	return nil
}

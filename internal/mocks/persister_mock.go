package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/ports"
)

// MockPersister is an in-memory ClientStatePersister.
type MockPersister struct {
	mu   sync.RWMutex
	data map[string][]byte

	SaveCalls int

	LoadError   error
	SaveError   error
	DeleteError error
}

var _ ports.ClientStatePersister = (*MockPersister)(nil)

func NewMockPersister() *MockPersister {
	return &MockPersister{data: make(map[string][]byte)}
}

func (m *MockPersister) Load(ctx context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MockPersister) Save(ctx context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	if m.SaveError != nil {
		return m.SaveError
	}
	m.data[key] = append([]byte(nil), data...)
	return nil
}

func (m *MockPersister) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.data, key)
	return nil
}

// Raw returns the stored bytes for key (for test assertions).
func (m *MockPersister) Raw(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return string(v), ok
}

package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/ports"
)

// MockPushPublisher captures published notifications instead of talking to RabbitMQ.
type MockPushPublisher struct {
	mu sync.RWMutex

	Published        []domain.PushNotification
	PublishError     error
	PublishCallCount int
}

var _ ports.PushPublisher = (*MockPushPublisher)(nil)

func NewMockPushPublisher() *MockPushPublisher {
	return &MockPushPublisher{}
}

func (m *MockPushPublisher) PublishPush(ctx context.Context, n domain.PushNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.PublishCallCount++
	if m.PublishError != nil {
		return m.PublishError
	}
	m.Published = append(m.Published, n)
	return nil
}

func (m *MockPushPublisher) GetPublished() []domain.PushNotification {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.PushNotification, len(m.Published))
	copy(out, m.Published)
	return out
}

// MockPushOutbox records enqueued notifications.
type MockPushOutbox struct {
	mu sync.Mutex

	Enqueued     []domain.PushNotification
	EnqueueError error
}

var _ ports.PushOutbox = (*MockPushOutbox)(nil)

func NewMockPushOutbox() *MockPushOutbox {
	return &MockPushOutbox{}
}

func (m *MockPushOutbox) Enqueue(ctx context.Context, n domain.PushNotification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.EnqueueError != nil {
		return m.EnqueueError
	}
	m.Enqueued = append(m.Enqueued, n)
	return nil
}

func (m *MockPushOutbox) GetEnqueued() []domain.PushNotification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.PushNotification, len(m.Enqueued))
	copy(out, m.Enqueued)
	return out
}

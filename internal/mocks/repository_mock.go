// Package mocks provides in-memory implementations of the port interfaces for
// tests. Each mock records its calls and supports error injection.
package mocks

import (
	"context"
	"sync"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/ports"
)

// MockStatusRepository keeps status rows in maps keyed by user or role record id.
type MockStatusRepository struct {
	mu sync.RWMutex

	profiles    map[string]*domain.Profile
	roles       map[domain.App]map[string]*domain.RoleRecord
	activations map[domain.App]map[string]*domain.ActivationStatus
	pending     map[string]int
	unread      map[string]int

	// Call tracking
	FindProfileCalls    []string
	FindRoleCalls       []string
	FindActivationCalls []string
	UnreadApps          []domain.App

	// Error injection
	FindProfileError    error
	FindRoleError       error
	FindActivationError error
	CountPendingError   error
	CountUnreadError    error
}

var _ ports.StatusRepository = (*MockStatusRepository)(nil)

func NewMockStatusRepository() *MockStatusRepository {
	return &MockStatusRepository{
		profiles:    make(map[string]*domain.Profile),
		roles:       make(map[domain.App]map[string]*domain.RoleRecord),
		activations: make(map[domain.App]map[string]*domain.ActivationStatus),
		pending:     make(map[string]int),
		unread:      make(map[string]int),
	}
}

func (m *MockStatusRepository) SeedProfile(p domain.Profile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.profiles[p.ID] = &p
}

func (m *MockStatusRepository) SeedRoleRecord(app domain.App, r domain.RoleRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.roles[app] == nil {
		m.roles[app] = make(map[string]*domain.RoleRecord)
	}
	m.roles[app][r.ProfileID] = &r
}

func (m *MockStatusRepository) SeedActivation(app domain.App, a domain.ActivationStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.activations[app] == nil {
		m.activations[app] = make(map[string]*domain.ActivationStatus)
	}
	m.activations[app][a.RoleRecordID] = &a
}

func (m *MockStatusRepository) SeedCounts(roleRecordID string, pending int, profileID string, unread int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[roleRecordID] = pending
	m.unread[profileID] = unread
}

func (m *MockStatusRepository) FindProfile(ctx context.Context, app domain.App, userID string) (*domain.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindProfileCalls = append(m.FindProfileCalls, string(app)+":"+userID)

	if m.FindProfileError != nil {
		return nil, m.FindProfileError
	}
	p, ok := m.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockStatusRepository) FindRoleRecord(ctx context.Context, app domain.App, profileID string) (*domain.RoleRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindRoleCalls = append(m.FindRoleCalls, profileID)

	if m.FindRoleError != nil {
		return nil, m.FindRoleError
	}
	r, ok := m.roles[app][profileID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *MockStatusRepository) FindActivation(ctx context.Context, app domain.App, roleRecordID string) (*domain.ActivationStatus, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FindActivationCalls = append(m.FindActivationCalls, roleRecordID)

	if m.FindActivationError != nil {
		return nil, m.FindActivationError
	}
	a, ok := m.activations[app][roleRecordID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *MockStatusRepository) CountPendingItems(ctx context.Context, app domain.App, roleRecordID string) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.CountPendingError != nil {
		return 0, m.CountPendingError
	}
	return m.pending[roleRecordID], nil
}

func (m *MockStatusRepository) CountUnreadNotifications(ctx context.Context, app domain.App, profileID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UnreadApps = append(m.UnreadApps, app)
	if m.CountUnreadError != nil {
		return 0, m.CountUnreadError
	}
	return m.unread[profileID], nil
}

// ActivationCallCount returns how often FindActivation ran.
func (m *MockStatusRepository) ActivationCallCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.FindActivationCalls)
}

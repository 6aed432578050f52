package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/ports"
)

// MockAuthProvider maps access tokens to sessions and users.
type MockAuthProvider struct {
	mu       sync.RWMutex
	sessions map[string]*domain.Session
	users    map[string]*domain.User

	GetSessionError error
	GetUserError    error
}

var _ ports.AuthProvider = (*MockAuthProvider)(nil)

func NewMockAuthProvider() *MockAuthProvider {
	return &MockAuthProvider{
		sessions: make(map[string]*domain.Session),
		users:    make(map[string]*domain.User),
	}
}

// SeedIdentity registers token as a live session for user, valid for ttl.
// The returned session is the stored one; tests may adjust its Role.
func (m *MockAuthProvider) SeedIdentity(token string, user domain.User, ttl time.Duration) *domain.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &domain.Session{
		ID:          "sess-" + user.ID,
		UserID:      user.ID,
		Role:        "authenticated",
		AccessToken: token,
		ExpiresAt:   time.Now().Add(ttl),
	}
	m.sessions[token] = s
	m.users[token] = &user
	return s
}

func (m *MockAuthProvider) GetSession(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetSessionError != nil {
		return nil, m.GetSessionError
	}
	s, ok := m.sessions[creds.AccessToken]
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	cp := *s
	cp.RefreshToken = creds.RefreshToken
	return &cp, nil
}

func (m *MockAuthProvider) GetUser(ctx context.Context, accessToken string) (*domain.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetUserError != nil {
		return nil, m.GetUserError
	}
	u, ok := m.users[accessToken]
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	cp := *u
	return &cp, nil
}

// MockRevocations is an in-memory revocation list.
type MockRevocations struct {
	mu      sync.Mutex
	revoked map[string]time.Duration

	IsRevokedError error
	RevokeError    error
}

var _ ports.SessionRevocations = (*MockRevocations)(nil)

func NewMockRevocations() *MockRevocations {
	return &MockRevocations{revoked: make(map[string]time.Duration)}
}

func (m *MockRevocations) IsRevoked(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.IsRevokedError != nil {
		return false, m.IsRevokedError
	}
	_, ok := m.revoked[key]
	return ok, nil
}

func (m *MockRevocations) Revoke(ctx context.Context, key string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RevokeError != nil {
		return m.RevokeError
	}
	m.revoked[key] = ttl
	return nil
}

// TTL returns the ttl a key was revoked with, and whether it was revoked.
func (m *MockRevocations) TTL(key string) (time.Duration, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ttl, ok := m.revoked[key]
	return ttl, ok
}

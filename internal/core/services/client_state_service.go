package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/ports"
)

const clientStateKeyPrefix = "auth-storage:"

// AuthStateStore is the auth mirror for one user. Only the partial state
// (the onboarded flag) is written to the persister.
type AuthStateStore struct {
	mu        sync.RWMutex
	key       string
	state     domain.AuthState
	persister ports.ClientStatePersister
}

func NewAuthStateStore(key string, persister ports.ClientStatePersister) *AuthStateStore {
	return &AuthStateStore{
		key:       key,
		persister: persister,
		state:     domain.AuthState{IsLoading: true},
	}
}

// Hydrate loads the persisted partial state. A key that was never written
// leaves the defaults in place.
func (s *AuthStateStore) Hydrate(ctx context.Context) error {
	data, err := s.persister.Load(ctx, s.key)
	if errors.Is(err, domain.ErrNotFound) {
		s.mu.Lock()
		s.state.IsLoading = false
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("load client state: %w", err)
	}

	var persisted domain.PersistedAuthState
	if err := json.Unmarshal(data, &persisted); err != nil {
		return fmt.Errorf("%w: client state: %v", domain.ErrInvalidPayload, err)
	}

	s.mu.Lock()
	s.state.IsOnboarded = persisted.IsOnboarded
	s.state.IsLoading = false
	s.mu.Unlock()
	return nil
}

func (s *AuthStateStore) Snapshot() domain.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Mirror copies a live identity into the in-memory state. It is never persisted.
func (s *AuthStateStore) Mirror(identity *domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if identity == nil {
		s.state.User, s.state.Session = nil, nil
		return
	}
	s.state.User, s.state.Session = identity.User, identity.Session
}

func (s *AuthStateStore) SetOnboarded(ctx context.Context, onboarded bool) error {
	s.mu.Lock()
	s.state.IsOnboarded = onboarded
	partial := s.state.Partial()
	s.mu.Unlock()
	return s.persist(ctx, partial)
}

// Clear resets the state and drops the persisted copy, as on logout.
func (s *AuthStateStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.state = domain.AuthState{}
	s.mu.Unlock()
	if err := s.persister.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("clear client state: %w", err)
	}
	return nil
}

func (s *AuthStateStore) persist(ctx context.Context, partial domain.PersistedAuthState) error {
	data, err := json.Marshal(partial)
	if err != nil {
		return err
	}
	if err := s.persister.Save(ctx, s.key, data); err != nil {
		return fmt.Errorf("save client state: %w", err)
	}
	return nil
}

// ClientStateService hands out per-user state stores over a shared persister.
type ClientStateService struct {
	persister ports.ClientStatePersister
}

func NewClientStateService(persister ports.ClientStatePersister) *ClientStateService {
	return &ClientStateService{persister: persister}
}

func (s *ClientStateService) For(userID string) *AuthStateStore {
	return NewAuthStateStore(clientStateKeyPrefix+userID, s.persister)
}

// Load returns the user's state, hydrated from storage and mirrored from the
// live identity.
func (s *ClientStateService) Load(ctx context.Context, identity *domain.Identity) (domain.AuthState, error) {
	store := s.For(identity.User.ID)
	if err := store.Hydrate(ctx); err != nil {
		return domain.AuthState{}, err
	}
	store.Mirror(identity)
	return store.Snapshot(), nil
}

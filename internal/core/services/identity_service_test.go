package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/services"
	"github.com/AchilleasB/assignx/access-gate-service/internal/mocks"
)

func TestIdentity_Resolve(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	provider.SeedIdentity("live", domain.User{ID: "u1", Email: "ann@example.com"}, time.Hour)
	provider.SeedIdentity("stale", domain.User{ID: "u2"}, -time.Minute)
	svc := services.NewIdentityService(provider, mocks.NewMockRevocations(), zap.NewNop())

	tests := []struct {
		name   string
		creds  domain.Credentials
		wantID string
	}{
		{name: "live session", creds: domain.Credentials{AccessToken: "live", RefreshToken: "r"}, wantID: "u1"},
		{name: "no credentials"},
		{name: "unknown token", creds: domain.Credentials{AccessToken: "forged"}},
		{name: "expired session", creds: domain.Credentials{AccessToken: "stale"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identity, err := svc.Resolve(context.Background(), tt.creds)
			require.NoError(t, err)
			if tt.wantID == "" {
				assert.Nil(t, identity)
				return
			}
			require.NotNil(t, identity)
			assert.Equal(t, tt.wantID, identity.User.ID)
			assert.Equal(t, tt.wantID, identity.Session.UserID)
		})
	}
}

func TestIdentity_AuthOutageIsAnError(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	provider.SeedIdentity("live", domain.User{ID: "u1"}, time.Hour)
	provider.GetUserError = errors.Join(domain.ErrAuthUnavailable, errors.New("dial tcp: i/o timeout"))
	svc := services.NewIdentityService(provider, nil, zap.NewNop())

	identity, err := svc.Resolve(context.Background(), domain.Credentials{AccessToken: "live"})

	assert.Nil(t, identity)
	assert.ErrorIs(t, err, domain.ErrAuthUnavailable)
}

func TestIdentity_RevocationStoreDown(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	provider.SeedIdentity("live", domain.User{ID: "u1"}, time.Hour)
	revocations := mocks.NewMockRevocations()
	revocations.IsRevokedError = errors.New("redis: connection refused")
	svc := services.NewIdentityService(provider, revocations, zap.NewNop())

	_, err := svc.Resolve(context.Background(), domain.Credentials{AccessToken: "live"})

	assert.ErrorIs(t, err, domain.ErrAuthUnavailable)
}

func TestIdentity_RevokeThenResolve(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	session := provider.SeedIdentity("live", domain.User{ID: "u1"}, time.Hour)
	revocations := mocks.NewMockRevocations()
	svc := services.NewIdentityService(provider, revocations, zap.NewNop())

	require.NoError(t, svc.Revoke(context.Background(), session))

	ttl, ok := revocations.TTL(services.RevocationKey(session))
	require.True(t, ok)
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)

	identity, err := svc.Resolve(context.Background(), domain.Credentials{AccessToken: "live"})
	require.NoError(t, err)
	assert.Nil(t, identity)
}

func TestIdentity_RevokeExpiredSessionIsNoop(t *testing.T) {
	revocations := mocks.NewMockRevocations()
	svc := services.NewIdentityService(mocks.NewMockAuthProvider(), revocations, zap.NewNop())
	session := &domain.Session{ID: "s1", ExpiresAt: time.Now().Add(-time.Minute)}

	require.NoError(t, svc.Revoke(context.Background(), session))

	_, ok := revocations.TTL(services.RevocationKey(session))
	assert.False(t, ok)
}

func TestRevocationKey(t *testing.T) {
	assert.Equal(t, "session:abc", services.RevocationKey(&domain.Session{ID: "abc", AccessToken: "tok"}))

	hashed := services.RevocationKey(&domain.Session{AccessToken: "tok"})
	assert.Regexp(t, `^token:[0-9a-f]{64}$`, hashed)
	assert.Equal(t, hashed, services.RevocationKey(&domain.Session{AccessToken: "tok"}))
}

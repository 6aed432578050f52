package cache_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/assignx/access-gate-service/internal/adapters/cache"
	"github.com/AchilleasB/assignx/access-gate-service/internal/config"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/mocks"
)

var _ cache.Client = (*mocks.MockRedisClient)(nil)

func TestRevocationStore_RevokeThenCheck(t *testing.T) {
	ctx := context.Background()
	client := mocks.NewMockRedisClient()
	store := cache.NewRevocationStore(client, config.NewCircuitBreaker(config.BreakerRedis, nil))

	revoked, err := store.IsRevoked(ctx, "session:abc")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "session:abc", time.Hour))

	revoked, err = store.IsRevoked(ctx, "session:abc")
	require.NoError(t, err)
	assert.True(t, revoked)

	_, ttl, ok := client.Value("revoked:session:abc")
	require.True(t, ok)
	assert.InDelta(t, time.Hour.Seconds(), ttl.Seconds(), 5)
}

func TestRevocationStore_RedisDown(t *testing.T) {
	client := mocks.NewMockRedisClient()
	client.ExistsError = errors.New("connection refused")
	store := cache.NewRevocationStore(client, config.NewCircuitBreaker(config.BreakerRedis, nil))

	_, err := store.IsRevoked(context.Background(), "session:abc")
	assert.Error(t, err)
}

func TestClientStateStore_MissingKey(t *testing.T) {
	store := cache.NewClientStateStore(mocks.NewMockRedisClient(), config.NewCircuitBreaker(config.BreakerRedis, nil), 0)

	_, err := store.Load(context.Background(), "auth-storage:nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClientStateStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	client := mocks.NewMockRedisClient()
	store := cache.NewClientStateStore(client, config.NewCircuitBreaker(config.BreakerRedis, nil), 24*time.Hour)

	require.NoError(t, store.Save(ctx, "auth-storage:u1", []byte(`{"isOnboarded":true}`)))

	data, err := store.Load(ctx, "auth-storage:u1")
	require.NoError(t, err)
	assert.JSONEq(t, `{"isOnboarded":true}`, string(data))

	require.NoError(t, store.Delete(ctx, "auth-storage:u1"))
	_, err = store.Load(ctx, "auth-storage:u1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClientStateStore_MissingKeysDoNotTripBreaker(t *testing.T) {
	ctx := context.Background()
	cb := config.NewCircuitBreaker(config.BreakerRedis, nil)
	store := cache.NewClientStateStore(mocks.NewMockRedisClient(), cb, 0)

	for i := 0; i < 5; i++ {
		_, err := store.Load(ctx, "auth-storage:none")
		require.ErrorIs(t, err, domain.ErrNotFound)
	}
	assert.Equal(t, "closed", cb.State().String())
}

func TestClientStateStore_BreakerOpensOnFailures(t *testing.T) {
	ctx := context.Background()
	client := mocks.NewMockRedisClient()
	client.GetError = errors.New("i/o timeout")
	cb := config.NewCircuitBreaker(config.BreakerRedis, nil)
	store := cache.NewClientStateStore(client, cb, 0)

	for i := 0; i < 3; i++ {
		_, err := store.Load(ctx, "auth-storage:u1")
		require.Error(t, err)
	}
	assert.Equal(t, "open", cb.State().String())
}

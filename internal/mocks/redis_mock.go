package mocks

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// MockRedisClient implements the handful of Redis commands used by the cache
// stores, with expiry and error injection.
type MockRedisClient struct {
	mu   sync.RWMutex
	data map[string]redisEntry

	SetError    error
	GetError    error
	DelError    error
	ExistsError error
	PingError   error
}

type redisEntry struct {
	value     string
	expiresAt time.Time
}

func (e redisEntry) live(now time.Time) bool {
	return e.expiresAt.IsZero() || now.Before(e.expiresAt)
}

func NewMockRedisClient() *MockRedisClient {
	return &MockRedisClient{data: make(map[string]redisEntry)}
}

func (m *MockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewStatusCmd(ctx)
	if m.SetError != nil {
		cmd.SetErr(m.SetError)
		return cmd
	}

	entry := redisEntry{value: value.(string)}
	if expiration > 0 {
		entry.expiresAt = time.Now().Add(expiration)
	}
	m.data[key] = entry

	cmd.SetVal("OK")
	return cmd
}

func (m *MockRedisClient) Get(ctx context.Context, key string) *redis.StringCmd {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cmd := redis.NewStringCmd(ctx)
	if m.GetError != nil {
		cmd.SetErr(m.GetError)
		return cmd
	}

	entry, ok := m.data[key]
	if !ok || !entry.live(time.Now()) {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	cmd.SetVal(entry.value)
	return cmd
}

func (m *MockRedisClient) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := redis.NewIntCmd(ctx)
	if m.DelError != nil {
		cmd.SetErr(m.DelError)
		return cmd
	}

	var deleted int64
	for _, key := range keys {
		if _, ok := m.data[key]; ok {
			delete(m.data, key)
			deleted++
		}
	}
	cmd.SetVal(deleted)
	return cmd
}

func (m *MockRedisClient) Exists(ctx context.Context, keys ...string) *redis.IntCmd {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cmd := redis.NewIntCmd(ctx)
	if m.ExistsError != nil {
		cmd.SetErr(m.ExistsError)
		return cmd
	}

	var count int64
	now := time.Now()
	for _, key := range keys {
		if entry, ok := m.data[key]; ok && entry.live(now) {
			count++
		}
	}
	cmd.SetVal(count)
	return cmd
}

func (m *MockRedisClient) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	if m.PingError != nil {
		cmd.SetErr(m.PingError)
		return cmd
	}
	cmd.SetVal("PONG")
	return cmd
}

// Value returns the raw stored value and remaining ttl (zero for no expiry).
func (m *MockRedisClient) Value(key string) (string, time.Duration, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.data[key]
	if !ok || !entry.live(time.Now()) {
		return "", 0, false
	}
	var ttl time.Duration
	if !entry.expiresAt.IsZero() {
		ttl = time.Until(entry.expiresAt)
	}
	return entry.value, ttl, true
}

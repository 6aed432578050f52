package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/ports"
)

// ClientStateStore persists client auth state as JSON strings in Redis.
type ClientStateStore struct {
	client Client
	cb     *gobreaker.CircuitBreaker
	ttl    time.Duration
}

var _ ports.ClientStatePersister = (*ClientStateStore)(nil)

// NewClientStateStore returns a persister whose entries live for ttl after
// the last write. A zero ttl keeps them forever.
func NewClientStateStore(client Client, cb *gobreaker.CircuitBreaker, ttl time.Duration) *ClientStateStore {
	return &ClientStateStore{client: client, cb: cb, ttl: ttl}
}

func (s *ClientStateStore) Load(ctx context.Context, key string) ([]byte, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		val, err := s.client.Get(ctx, key).Result()
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrNotFound
		}
		return val, err
	})
	if errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return []byte(res.(string)), nil
}

func (s *ClientStateStore) Save(ctx context.Context, key string, data []byte) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, key, string(data), s.ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (s *ClientStateStore) Delete(ctx context.Context, key string) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Del(ctx, key).Err()
	})
	if err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/ports"
)

const revocationPrefix = "revoked:"

// RevocationStore keeps revoked sessions in Redis until they would have
// expired anyway.
type RevocationStore struct {
	client Client
	cb     *gobreaker.CircuitBreaker
}

var _ ports.SessionRevocations = (*RevocationStore)(nil)

func NewRevocationStore(client Client, cb *gobreaker.CircuitBreaker) *RevocationStore {
	return &RevocationStore{client: client, cb: cb}
}

func (s *RevocationStore) IsRevoked(ctx context.Context, key string) (bool, error) {
	res, err := s.cb.Execute(func() (interface{}, error) {
		return s.client.Exists(ctx, revocationPrefix+key).Result()
	})
	if err != nil {
		return false, fmt.Errorf("redis exists: %w", err)
	}
	return res.(int64) > 0, nil
}

func (s *RevocationStore) Revoke(ctx context.Context, key string, ttl time.Duration) error {
	_, err := s.cb.Execute(func() (interface{}, error) {
		return nil, s.client.Set(ctx, revocationPrefix+key, "1", ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

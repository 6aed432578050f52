package config

import (
	"errors"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
)

const (
	BreakerPostgres = "PostgreSQL"
	BreakerRedis    = "Redis"
	BreakerGoTrue   = "Supabase-Auth"
	BreakerRabbitMQ = "RabbitMQ-Publisher"
	BreakerRelayDB  = "Relay-PostgreSQL"
)

// NewCircuitBreaker creates a circuit breaker with standard settings.
// Missing rows and rejected credentials are answers, not failures, and do not
// count towards tripping.
func NewCircuitBreaker(name string, logger *zap.Logger) *gobreaker.CircuitBreaker {
	var timeout time.Duration

	switch name {
	case BreakerRedis, BreakerGoTrue:
		timeout = 5 * time.Second
	case BreakerPostgres, BreakerRelayDB:
		timeout = 10 * time.Second
	default:
		timeout = 30 * time.Second
	}

	if logger == nil {
		logger = zap.NewNop()
	}

	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    10 * time.Second,
		Timeout:     timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		IsSuccessful: func(err error) bool {
			return err == nil ||
				errors.Is(err, domain.ErrNotFound) ||
				errors.Is(err, domain.ErrUnauthenticated)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Error("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
		},
	})
}

package ports

import (
	"context"
	"time"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
)

// AuthProvider wraps the external auth backend. Invalid or expired
// credentials are reported as domain.ErrUnauthenticated; transport failures
// as domain.ErrAuthUnavailable.
type AuthProvider interface {
	GetSession(ctx context.Context, creds domain.Credentials) (*domain.Session, error)
	GetUser(ctx context.Context, accessToken string) (*domain.User, error)
}

type SessionRevocations interface {
	IsRevoked(ctx context.Context, key string) (bool, error)
	Revoke(ctx context.Context, key string, ttl time.Duration) error
}

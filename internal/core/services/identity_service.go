package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/ports"
)

type IdentityService struct {
	provider    ports.AuthProvider
	revocations ports.SessionRevocations
	logger      *zap.Logger
	now         func() time.Time
}

var _ ports.IdentityResolver = (*IdentityService)(nil)

// NewIdentityService builds the identity resolver. revocations may be nil, in
// which case logout only clears client state.
func NewIdentityService(
	provider ports.AuthProvider,
	revocations ports.SessionRevocations,
	logger *zap.Logger,
) *IdentityService {
	return &IdentityService{
		provider:    provider,
		revocations: revocations,
		logger:      logger.Named("identity"),
		now:         time.Now,
	}
}

// Resolve returns the current identity, or nil when the credentials do not
// describe a live session. Only an unreachable auth layer is an error.
// There are no retries.
func (s *IdentityService) Resolve(ctx context.Context, creds domain.Credentials) (*domain.Identity, error) {
	if creds.Empty() {
		return nil, nil
	}

	session, err := s.provider.GetSession(ctx, creds)
	if err != nil {
		return s.unauthenticatedOr(err, "session")
	}
	if session == nil || session.Expired(s.now()) {
		s.logger.Debug("session expired or missing")
		return nil, nil
	}

	if s.revocations != nil {
		revoked, err := s.revocations.IsRevoked(ctx, RevocationKey(session))
		if err != nil {
			return nil, fmt.Errorf("check revocation: %w", errors.Join(domain.ErrAuthUnavailable, err))
		}
		if revoked {
			s.logger.Debug("session revoked", zap.String("user_id", session.UserID))
			return nil, nil
		}
	}

	user, err := s.provider.GetUser(ctx, creds.AccessToken)
	if err != nil {
		return s.unauthenticatedOr(err, "user")
	}
	if user == nil || user.ID != session.UserID {
		s.logger.Debug("user does not match session", zap.String("user_id", session.UserID))
		return nil, nil
	}

	return &domain.Identity{Session: session, User: user}, nil
}

// Revoke blocks the session until its own expiry.
func (s *IdentityService) Revoke(ctx context.Context, session *domain.Session) error {
	if s.revocations == nil || session == nil {
		return nil
	}
	ttl := session.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return nil
	}
	if err := s.revocations.Revoke(ctx, RevocationKey(session), ttl); err != nil {
		return fmt.Errorf("revoke session: %w", err)
	}
	s.logger.Info("session revoked", zap.String("user_id", session.UserID))
	return nil
}

func (s *IdentityService) unauthenticatedOr(err error, what string) (*domain.Identity, error) {
	if errors.Is(err, domain.ErrUnauthenticated) {
		s.logger.Debug("unauthenticated", zap.String("stage", what), zap.Error(err))
		return nil, nil
	}
	return nil, fmt.Errorf("resolve %s: %w", what, err)
}

// RevocationKey identifies a session in the revocation list: the provider's
// session id when present, otherwise a hash of the access token.
func RevocationKey(session *domain.Session) string {
	if session.ID != "" {
		return "session:" + session.ID
	}
	sum := sha256.Sum256([]byte(session.AccessToken))
	return "token:" + hex.EncodeToString(sum[:])
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/ports"
)

type AuthMiddleware struct {
	identity      ports.IdentityResolver
	accessCookie  string
	refreshCookie string
	logger        *zap.Logger
}

func NewAuthMiddleware(identity ports.IdentityResolver, accessCookie, refreshCookie string, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		identity:      identity,
		accessCookie:  accessCookie,
		refreshCookie: refreshCookie,
		logger:        logger.Named("auth"),
	}
}

type contextKey string

const (
	identityKey    contextKey = "identity"
	credentialsKey contextKey = "credentials"
)

// Credentials reads the bearer header first and falls back to the auth cookies.
func (m *AuthMiddleware) Credentials(r *http.Request) domain.Credentials {
	var creds domain.Credentials

	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			creds.AccessToken = strings.TrimSpace(token)
		}
	}
	if creds.AccessToken == "" {
		if c, err := r.Cookie(m.accessCookie); err == nil {
			creds.AccessToken = c.Value
		}
	}
	if c, err := r.Cookie(m.refreshCookie); err == nil {
		creds.RefreshToken = c.Value
	}
	return creds
}

// WithCredentials stores the request credentials for handlers that run the
// identity check themselves (the layout gate).
func (m *AuthMiddleware) WithCredentials(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), credentialsKey, m.Credentials(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth rejects requests without a live identity.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return m.RequireRole(nil, next)
}

// RequireRole rejects requests whose session role is not listed. A nil list
// accepts any authenticated session.
func (m *AuthMiddleware) RequireRole(roles []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		creds := m.Credentials(r)

		identity, err := m.identity.Resolve(r.Context(), creds)
		if err != nil {
			m.logger.Error("identity check failed", zap.Error(err))
			WriteError(w, http.StatusServiceUnavailable, "auth_unavailable")
			return
		}
		if identity == nil {
			WriteError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}

		if roles != nil && !contains(roles, identity.Session.Role) {
			m.logger.Debug("role mismatch",
				zap.Strings("required", roles),
				zap.String("role", identity.Session.Role))
			WriteError(w, http.StatusForbidden, "forbidden")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, identity)
		ctx = context.WithValue(ctx, credentialsKey, creds)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func IdentityFromContext(ctx context.Context) *domain.Identity {
	identity, _ := ctx.Value(identityKey).(*domain.Identity)
	return identity
}

func CredentialsFromContext(ctx context.Context) domain.Credentials {
	creds, _ := ctx.Value(credentialsKey).(domain.Credentials)
	return creds
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/services"
	"github.com/AchilleasB/assignx/access-gate-service/internal/mocks"
)

func newTestMiddleware(provider *mocks.MockAuthProvider) *AuthMiddleware {
	identity := services.NewIdentityService(provider, mocks.NewMockRevocations(), zap.NewNop())
	return NewAuthMiddleware(identity, "sb-access-token", "sb-refresh-token", zap.NewNop())
}

func okHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IdentityFromContext(r.Context()) == nil {
			t.Errorf("expected identity in context")
		}
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuth_NoCredentials(t *testing.T) {
	m := newTestMiddleware(mocks.NewMockAuthProvider())

	rec := httptest.NewRecorder()
	m.RequireAuth(okHandler(t)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/client-state", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuth_InvalidHeaderFormat(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	provider.SeedIdentity("good-token", domain.User{ID: "user-1"}, time.Hour)
	m := newTestMiddleware(provider)

	req := httptest.NewRequest(http.MethodGet, "/client-state", nil)
	req.Header.Set("Authorization", "Token good-token")
	rec := httptest.NewRecorder()
	m.RequireAuth(okHandler(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestRequireAuth_BearerToken(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	provider.SeedIdentity("good-token", domain.User{ID: "user-1"}, time.Hour)
	m := newTestMiddleware(provider)

	req := httptest.NewRequest(http.MethodGet, "/client-state", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	m.RequireAuth(okHandler(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

func TestRequireAuth_Cookie(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	provider.SeedIdentity("cookie-token", domain.User{ID: "user-1"}, time.Hour)
	m := newTestMiddleware(provider)

	req := httptest.NewRequest(http.MethodGet, "/client-state", nil)
	req.AddCookie(&http.Cookie{Name: "sb-access-token", Value: "cookie-token"})
	req.AddCookie(&http.Cookie{Name: "sb-refresh-token", Value: "refresh"})
	rec := httptest.NewRecorder()

	var got domain.Credentials
	m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = CredentialsFromContext(r.Context())
	})).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got.AccessToken != "cookie-token" || got.RefreshToken != "refresh" {
		t.Errorf("unexpected credentials: %+v", got)
	}
}

func TestRequireAuth_AuthLayerDown(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	provider.GetSessionError = errors.Join(domain.ErrAuthUnavailable, errors.New("dial tcp: refused"))
	m := newTestMiddleware(provider)

	req := httptest.NewRequest(http.MethodGet, "/client-state", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	rec := httptest.NewRecorder()
	m.RequireAuth(okHandler(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", rec.Code)
	}
}

func TestRequireRole_Mismatch(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	provider.SeedIdentity("user-token", domain.User{ID: "user-1"}, time.Hour)
	m := newTestMiddleware(provider)

	req := httptest.NewRequest(http.MethodPost, "/notifications", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	rec := httptest.NewRecorder()
	m.RequireRole([]string{"service_role"}, okHandler(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", rec.Code)
	}
}

func TestRequireRole_Match(t *testing.T) {
	provider := mocks.NewMockAuthProvider()
	session := provider.SeedIdentity("service-token", domain.User{ID: "svc"}, time.Hour)
	session.Role = "service_role"
	m := newTestMiddleware(provider)

	req := httptest.NewRequest(http.MethodPost, "/notifications", nil)
	req.Header.Set("Authorization", "Bearer service-token")
	rec := httptest.NewRecorder()
	m.RequireRole([]string{"service_role"}, okHandler(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}
}

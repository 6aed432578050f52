package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AchilleasB/assignx/access-gate-service/internal/config"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
)

var testSecret = []byte("super-secret-jwt-token-with-at-least-32-characters")

func signToken(t *testing.T, secret []byte, sub string, exp time.Time, aud string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":        sub,
		"email":      "jane@example.com",
		"role":       "authenticated",
		"session_id": "sess-1",
		"aud":        aud,
		"exp":        exp.Unix(),
		"user_metadata": map[string]any{
			"full_name":  "Jane Doe",
			"avatar_url": "https://cdn.example.com/jane.png",
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return signed
}

func newProvider(opts SupabaseOptions) *SupabaseProvider {
	if opts.JWTSecret == nil {
		opts.JWTSecret = testSecret
	}
	if opts.Audience == "" {
		opts.Audience = "authenticated"
	}
	return NewSupabaseProvider(opts, config.NewCircuitBreaker(config.BreakerGoTrue, nil))
}

func TestGetSession_ValidToken(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signToken(t, testSecret, "user-1", exp, "authenticated")

	session, err := newProvider(SupabaseOptions{}).GetSession(context.Background(), domain.Credentials{AccessToken: token, RefreshToken: "r1"})
	require.NoError(t, err)
	assert.Equal(t, "user-1", session.UserID)
	assert.Equal(t, "sess-1", session.ID)
	assert.Equal(t, "authenticated", session.Role)
	assert.Equal(t, "r1", session.RefreshToken)
	assert.True(t, session.ExpiresAt.Equal(exp))
}

func TestGetSession_Rejected(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-jwt"},
		{"expired", signToken(t, testSecret, "user-1", time.Now().Add(-time.Minute), "authenticated")},
		{"wrong secret", signToken(t, []byte("another-secret-another-secret-another"), "user-1", time.Now().Add(time.Hour), "authenticated")},
		{"wrong audience", signToken(t, testSecret, "user-1", time.Now().Add(time.Hour), "anon")},
		{"no subject", signToken(t, testSecret, "", time.Now().Add(time.Hour), "authenticated")},
	}

	p := newProvider(SupabaseOptions{})
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := p.GetSession(context.Background(), domain.Credentials{AccessToken: tc.token})
			assert.ErrorIs(t, err, domain.ErrUnauthenticated)
		})
	}
}

func TestGetUser_FromClaims(t *testing.T) {
	token := signToken(t, testSecret, "user-1", time.Now().Add(time.Hour), "authenticated")

	user, err := newProvider(SupabaseOptions{}).GetUser(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", user.ID)
	assert.Equal(t, "jane@example.com", user.Email)
	assert.Equal(t, "Jane Doe", user.Metadata.FullName)
}

func TestGetUser_Remote(t *testing.T) {
	token := signToken(t, testSecret, "user-1", time.Now().Add(time.Hour), "authenticated")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/user", r.URL.Path)
		assert.Equal(t, "Bearer "+token, r.Header.Get("Authorization"))
		assert.Equal(t, "anon-key", r.Header.Get("apikey"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"user-1","email":"jane@live.example.com","user_metadata":{"full_name":"Jane Live"}}`))
	}))
	defer srv.Close()

	p := newProvider(SupabaseOptions{BaseURL: srv.URL, AnonKey: "anon-key", RemoteUser: true})
	user, err := p.GetUser(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "jane@live.example.com", user.Email)
	assert.Equal(t, "Jane Live", user.Metadata.FullName)
}

func TestGetUser_RemoteRejects(t *testing.T) {
	token := signToken(t, testSecret, "user-1", time.Now().Add(time.Hour), "authenticated")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := newProvider(SupabaseOptions{BaseURL: srv.URL, RemoteUser: true})
	_, err := p.GetUser(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestGetUser_RemoteDown(t *testing.T) {
	token := signToken(t, testSecret, "user-1", time.Now().Add(time.Hour), "authenticated")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	p := newProvider(SupabaseOptions{BaseURL: srv.URL, RemoteUser: true})
	_, err := p.GetUser(context.Background(), token)
	assert.ErrorIs(t, err, domain.ErrAuthUnavailable)
	assert.NotErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestGetSession_ServiceKey(t *testing.T) {
	claims := jwt.MapClaims{
		"iss":  "supabase",
		"role": ServiceRole,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	p := newProvider(SupabaseOptions{RemoteUser: true, BaseURL: "http://127.0.0.1:1"})

	session, err := p.GetSession(context.Background(), domain.Credentials{AccessToken: token})
	require.NoError(t, err)
	assert.Equal(t, ServiceRole, session.Role)
	assert.Equal(t, ServiceRole, session.UserID)

	user, err := p.GetUser(context.Background(), token)
	require.NoError(t, err, "service keys are never checked against GoTrue")
	assert.Equal(t, session.UserID, user.ID)
}

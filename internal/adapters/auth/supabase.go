package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/ports"
)

// SupabaseProvider verifies Supabase (GoTrue) access tokens locally and can
// optionally confirm the user against the GoTrue API.
type SupabaseProvider struct {
	baseURL    string
	anonKey    string
	jwtSecret  []byte
	audience   string
	remoteUser bool
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

var _ ports.AuthProvider = (*SupabaseProvider)(nil)

// ServiceRole is the role claim of Supabase service keys.
const ServiceRole = "service_role"

type SupabaseOptions struct {
	BaseURL    string
	AnonKey    string
	JWTSecret  []byte
	Audience   string
	RemoteUser bool
	HTTPClient *http.Client
}

type supabaseClaims struct {
	Email        string              `json:"email"`
	Role         string              `json:"role"`
	SessionID    string              `json:"session_id"`
	UserMetadata domain.UserMetadata `json:"user_metadata"`
	jwt.RegisteredClaims
}

type goTrueUser struct {
	ID           string              `json:"id"`
	Email        string              `json:"email"`
	UserMetadata domain.UserMetadata `json:"user_metadata"`
}

func NewSupabaseProvider(opts SupabaseOptions, cb *gobreaker.CircuitBreaker) *SupabaseProvider {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &SupabaseProvider{
		baseURL:    opts.BaseURL,
		anonKey:    opts.AnonKey,
		jwtSecret:  opts.JWTSecret,
		audience:   opts.Audience,
		remoteUser: opts.RemoteUser,
		httpClient: client,
		cb:         cb,
	}
}

func (p *SupabaseProvider) GetSession(ctx context.Context, creds domain.Credentials) (*domain.Session, error) {
	claims, err := p.parse(creds.AccessToken)
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		ID:           claims.SessionID,
		UserID:       claims.Subject,
		Role:         claims.Role,
		AccessToken:  creds.AccessToken,
		RefreshToken: creds.RefreshToken,
		ExpiresAt:    claims.ExpiresAt.Time,
	}, nil
}

func (p *SupabaseProvider) GetUser(ctx context.Context, accessToken string) (*domain.User, error) {
	claims, err := p.parse(accessToken)
	if err != nil {
		return nil, err
	}
	if !p.remoteUser || claims.Role == ServiceRole {
		return &domain.User{ID: claims.Subject, Email: claims.Email, Metadata: claims.UserMetadata}, nil
	}

	res, err := p.cb.Execute(func() (interface{}, error) {
		return p.fetchUser(ctx, accessToken)
	})
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			return nil, err
		}
		return nil, errors.Join(domain.ErrAuthUnavailable, err)
	}
	u := res.(*goTrueUser)
	return &domain.User{ID: u.ID, Email: u.Email, Metadata: u.UserMetadata}, nil
}

func (p *SupabaseProvider) parse(accessToken string) (*supabaseClaims, error) {
	if accessToken == "" {
		return nil, domain.ErrUnauthenticated
	}

	token, err := jwt.ParseWithClaims(accessToken, &supabaseClaims{}, func(t *jwt.Token) (any, error) {
		return p.jwtSecret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}

	claims, ok := token.Claims.(*supabaseClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: invalid claims", domain.ErrUnauthenticated)
	}

	// Service keys carry neither a subject nor the user audience.
	if claims.Role == ServiceRole {
		if claims.Subject == "" {
			claims.Subject = ServiceRole
		}
		return claims, nil
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: missing subject", domain.ErrUnauthenticated)
	}
	if p.audience != "" && !slices.Contains(claims.Audience, p.audience) {
		return nil, fmt.Errorf("%w: audience %v", domain.ErrUnauthenticated, claims.Audience)
	}
	return claims, nil
}

func (p *SupabaseProvider) fetchUser(ctx context.Context, accessToken string) (*goTrueUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("apikey", p.anonKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%w: gotrue returned %d", domain.ErrUnauthenticated, resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("gotrue returned %d", resp.StatusCode)
	}

	var user goTrueUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode gotrue user: %w", err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("%w: gotrue user without id", domain.ErrUnauthenticated)
	}
	return &user, nil
}

package ports

import (
	"context"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
)

type IdentityResolver interface {
	Resolve(ctx context.Context, creds domain.Credentials) (*domain.Identity, error)
	Revoke(ctx context.Context, session *domain.Session) error
}

// LayoutResult is what a protected layout needs before rendering.
type LayoutResult struct {
	Outcome    domain.Outcome        `json:"outcome"`
	RedirectTo string                `json:"redirect_to,omitempty"`
	Display    *domain.DisplayBundle `json:"display,omitempty"`
}

type LayoutService interface {
	Resolve(ctx context.Context, app domain.App, scope domain.Scope, creds domain.Credentials) (*LayoutResult, error)
}

type NotificationService interface {
	Send(ctx context.Context, app domain.App, recipientID string, payload domain.PushPayload) (*domain.PushNotification, error)
}

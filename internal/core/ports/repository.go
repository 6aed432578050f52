package ports

import (
	"context"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
)

// StatusRepository reads the onboarding/activation rows of a user. Absent rows
// are returned as domain.ErrNotFound.
type StatusRepository interface {
	FindProfile(ctx context.Context, app domain.App, userID string) (*domain.Profile, error)
	FindRoleRecord(ctx context.Context, app domain.App, profileID string) (*domain.RoleRecord, error)
	FindActivation(ctx context.Context, app domain.App, roleRecordID string) (*domain.ActivationStatus, error)
	CountPendingItems(ctx context.Context, app domain.App, roleRecordID string) (int, error)
	CountUnreadNotifications(ctx context.Context, app domain.App, profileID string) (int, error)
}

type PushOutbox interface {
	Enqueue(ctx context.Context, n domain.PushNotification) error
}

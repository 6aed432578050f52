package ports

import (
	"context"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
)

type PushPublisher interface {
	PublishPush(ctx context.Context, n domain.PushNotification) error
}

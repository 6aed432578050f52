package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/ports"
)

type PushNotificationService struct {
	outbox ports.PushOutbox
	logger *zap.Logger
	now    func() time.Time
}

var _ ports.NotificationService = (*PushNotificationService)(nil)

func NewPushNotificationService(outbox ports.PushOutbox, logger *zap.Logger) *PushNotificationService {
	return &PushNotificationService{
		outbox: outbox,
		logger: logger.Named("push"),
		now:    time.Now,
	}
}

// Send validates a payload and stores it in the outbox; the relay delivers it.
func (s *PushNotificationService) Send(ctx context.Context, app domain.App, recipientID string, payload domain.PushPayload) (*domain.PushNotification, error) {
	if !app.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownApp, app)
	}
	if strings.TrimSpace(recipientID) == "" {
		return nil, fmt.Errorf("%w: recipient is required", domain.ErrInvalidPayload)
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	n := domain.PushNotification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		App:         app,
		Payload:     payload.WithDefaults(),
		CreatedAt:   s.now().UTC(),
	}
	if err := s.outbox.Enqueue(ctx, n); err != nil {
		return nil, fmt.Errorf("enqueue push: %w", err)
	}

	s.logger.Info("push queued",
		zap.String("id", n.ID),
		zap.String("app", string(app)),
		zap.String("recipient_id", recipientID))
	return &n, nil
}

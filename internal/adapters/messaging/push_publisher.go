package messaging

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/ports"
)

var _ ports.PushPublisher = (*RabbitMQBroker)(nil)

// PushMessage is the queue body consumed by the web-push sender.
type PushMessage struct {
	ID          string             `json:"id"`
	App         domain.App         `json:"app"`
	RecipientID string             `json:"recipient_id"`
	Payload     domain.PushPayload `json:"payload"`
}

func (rmq *RabbitMQBroker) PublishPush(ctx context.Context, n domain.PushNotification) error {
	msg, err := newPushPublishing(n)
	if err != nil {
		return err
	}

	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) <= 0 {
		return ctx.Err()
	}

	_, err = rmq.cb.Execute(func() (interface{}, error) {
		return nil, rmq.ch.PublishWithContext(
			ctx,
			"",            // default exchange
			rmq.queueName, // routing key == queue name
			false,         // mandatory
			false,         // immediate
			msg,
		)
	})
	return err
}

func newPushPublishing(n domain.PushNotification) (amqp.Publishing, error) {
	body, err := json.Marshal(PushMessage{
		ID:          n.ID,
		App:         n.App,
		RecipientID: n.RecipientID,
		Payload:     n.Payload,
	})
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    n.ID,
		Timestamp:    n.CreatedAt,
		Body:         body,
	}, nil
}

package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/sony/gobreaker"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/ports"
)

// OutboxChannel is the LISTEN/NOTIFY channel the relay waits on.
const OutboxChannel = "push_outbox_channel"

type OutboxRepository struct {
	db *sql.DB
	cb *gobreaker.CircuitBreaker
}

var _ ports.PushOutbox = (*OutboxRepository)(nil)

func NewOutboxRepository(db *sql.DB, cb *gobreaker.CircuitBreaker) *OutboxRepository {
	return &OutboxRepository{db: db, cb: cb}
}

// Enqueue stores the notification and signals the relay in one transaction.
func (r *OutboxRepository) Enqueue(ctx context.Context, n domain.PushNotification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return err
	}

	_, err = r.cb.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		_, err = tx.ExecContext(ctx,
			`INSERT INTO push_outbox (id, app, recipient_id, payload, created_at) VALUES ($1, $2, $3, $4, $5)`,
			n.ID,
			string(n.App),
			n.RecipientID,
			payload,
			n.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if _, err := tx.ExecContext(ctx, `SELECT pg_notify($1, $2)`, OutboxChannel, n.ID); err != nil {
			return nil, err
		}
		return nil, tx.Commit()
	})
	return err
}

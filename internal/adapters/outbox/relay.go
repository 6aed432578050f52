package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/lib/pq"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/AchilleasB/assignx/access-gate-service/internal/adapters/repository"
	"github.com/AchilleasB/assignx/access-gate-service/internal/config"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/ports"
	"github.com/AchilleasB/assignx/access-gate-service/internal/metrics"
)

const (
	listenerMinReconnectInterval = 10 * time.Second
	listenerMaxReconnectInterval = time.Minute

	eventProcessTimeout     = 30 * time.Second
	batchProcessTimeout     = 60 * time.Second
	periodicProcessInterval = 90 * time.Second

	healthCheckStaleThreshold = 5 * time.Minute

	maxEventsPerBatch = 100
)

// Relay waits for NOTIFY signals on the push outbox channel and hands each
// pending notification to the publisher.
type Relay struct {
	db        *sql.DB
	dbURL     string
	publisher ports.PushPublisher
	dbCB      *gobreaker.CircuitBreaker
	logger    *zap.Logger

	lastProcessed atomic.Int64
	healthy       atomic.Bool
}

func NewRelay(db *sql.DB, dbURL string, publisher ports.PushPublisher, logger *zap.Logger) *Relay {
	logger = logger.Named("relay")
	r := &Relay{
		db:        db,
		dbURL:     dbURL,
		publisher: publisher,
		dbCB:      config.NewCircuitBreaker(config.BreakerRelayDB, logger),
		logger:    logger,
	}
	r.markProcessed()
	r.healthy.Store(true)
	return r
}

// IsHealthy is the liveness signal: the process is running its loop.
func (r *Relay) IsHealthy() bool {
	return r.healthy.Load()
}

// IsReady additionally requires a closed breaker and recent progress.
func (r *Relay) IsReady() bool {
	if r.dbCB.State() == gobreaker.StateOpen {
		return false
	}
	last := time.Unix(0, r.lastProcessed.Load())
	if time.Since(last) > healthCheckStaleThreshold {
		return false
	}
	return r.IsHealthy()
}

// Start blocks until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	reportProblem := func(ev pq.ListenerEventType, err error) {
		if err != nil {
			r.logger.Warn("listener error", zap.Error(err))
		}
	}

	listener := pq.NewListener(r.dbURL, listenerMinReconnectInterval, listenerMaxReconnectInterval, reportProblem)
	defer listener.Close()

	if err := listener.Listen(repository.OutboxChannel); err != nil {
		return err
	}
	r.logger.Info("listening for notifications", zap.String("channel", repository.OutboxChannel))

	if err := r.processUnprocessed(ctx); err != nil {
		r.logger.Error("startup backlog failed", zap.Error(err))
	}

	ticker := time.NewTicker(periodicProcessInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("shutting down")
			return ctx.Err()

		case n := <-listener.Notify:
			if n == nil {
				r.listenerLost()
				continue
			}
			if err := r.processByID(ctx, n.Extra); err != nil {
				r.logger.Error("processing notification failed", zap.String("id", n.Extra), zap.Error(err))
				continue
			}
			r.markProcessed()
			r.healthy.Store(true)

		case <-ticker.C:
			go func() { _ = listener.Ping() }()
			r.caughtUp(r.processUnprocessed(ctx))
		}
	}
}

func (r *Relay) markProcessed() {
	r.lastProcessed.Store(time.Now().UnixNano())
}

// listenerLost flags the relay unhealthy until a later pass succeeds.
func (r *Relay) listenerLost() {
	r.logger.Warn("nil notification, listener reconnecting")
	r.healthy.Store(false)
}

// caughtUp records the outcome of a periodic backlog pass.
func (r *Relay) caughtUp(err error) {
	if err != nil {
		r.logger.Error("periodic processing failed", zap.Error(err))
		return
	}
	r.markProcessed()
	r.healthy.Store(true)
}

// execDB runs op behind the database breaker. A publish failure op stores in
// publishErr is returned to the caller but never counted by the breaker.
func (r *Relay) execDB(op func(publishErr *error) error) error {
	var publishErr error
	_, err := r.dbCB.Execute(func() (interface{}, error) {
		return nil, op(&publishErr)
	})
	if err != nil {
		return err
	}
	return publishErr
}

func (r *Relay) processByID(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, eventProcessTimeout)
	defer cancel()

	return r.execDB(func(publishErr *error) error {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer tx.Rollback()

		var payload []byte
		err = tx.QueryRowContext(ctx, `
			SELECT payload
			FROM push_outbox
			WHERE id = $1 AND processed_at IS NULL
			FOR UPDATE SKIP LOCKED`, id).Scan(&payload)
		if err == sql.ErrNoRows {
			return nil
		}
		if err != nil {
			return err
		}

		done, err := r.deliver(ctx, id, payload)
		if err != nil {
			*publishErr = err
			return nil
		}
		if done {
			if _, err := tx.ExecContext(ctx, `UPDATE push_outbox SET processed_at = NOW() WHERE id = $1`, id); err != nil {
				return err
			}
		}
		return tx.Commit()
	})
}

func (r *Relay) processUnprocessed(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, batchProcessTimeout)
	defer cancel()

	_, err := r.dbCB.Execute(func() (interface{}, error) {
		tx, err := r.db.BeginTx(ctx, nil)
		if err != nil {
			return nil, err
		}
		defer tx.Rollback()

		rows, err := tx.QueryContext(ctx, `
			SELECT id, payload
			FROM push_outbox
			WHERE processed_at IS NULL
			ORDER BY created_at
			LIMIT $1
			FOR UPDATE SKIP LOCKED`, maxEventsPerBatch)
		if err != nil {
			return nil, err
		}

		type record struct {
			ID      string
			Payload []byte
		}
		var records []record
		for rows.Next() {
			var rec record
			if err := rows.Scan(&rec.ID, &rec.Payload); err != nil {
				rows.Close()
				return nil, err
			}
			records = append(records, rec)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return nil, err
		}

		for _, rec := range records {
			done, err := r.deliver(ctx, rec.ID, rec.Payload)
			if err != nil {
				r.logger.Warn("publish failed, will retry", zap.String("id", rec.ID), zap.Error(err))
				continue
			}
			if !done {
				continue
			}
			if _, err := tx.ExecContext(ctx, `UPDATE push_outbox SET processed_at = NOW() WHERE id = $1`, rec.ID); err != nil {
				return nil, err
			}
		}
		return nil, tx.Commit()
	})
	return err
}

// deliver publishes one stored notification. It reports whether the row can
// be marked processed: true after a publish, and also for payloads that will
// never decode.
func (r *Relay) deliver(ctx context.Context, id string, payload []byte) (bool, error) {
	var n domain.PushNotification
	if err := json.Unmarshal(payload, &n); err != nil {
		r.logger.Error("invalid outbox payload, dropping", zap.String("id", id), zap.Error(err))
		metrics.PushPublished.WithLabelValues("invalid").Inc()
		return true, nil
	}
	if n.ID == "" {
		n.ID = id
	}

	if err := r.publisher.PublishPush(ctx, n); err != nil {
		metrics.PushPublished.WithLabelValues("error").Inc()
		return false, err
	}
	metrics.PushPublished.WithLabelValues("ok").Inc()
	r.logger.Info("push published", zap.String("id", id), zap.String("recipient_id", n.RecipientID))
	return true, nil
}

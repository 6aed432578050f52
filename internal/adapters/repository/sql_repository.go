package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/sony/gobreaker"

	"github.com/AchilleasB/assignx/access-gate-service/internal/config"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/ports"
)

// SQLRepository reads status rows from the Supabase Postgres schema.
type SQLRepository struct {
	db      *sql.DB
	cb      *gobreaker.CircuitBreaker
	queries map[domain.App]appQueries
}

var _ ports.StatusRepository = (*SQLRepository)(nil)

type appQueries struct {
	profile         string
	roleRecord      string
	activation      string
	pendingItems    string
	pendingStatuses []string
	unread          string
}

func NewSQLRepository(db *sql.DB, tables map[domain.App]config.TableConfig, cb *gobreaker.CircuitBreaker) *SQLRepository {
	r := &SQLRepository{db: db, cb: cb, queries: make(map[domain.App]appQueries, len(tables))}
	for app, t := range tables {
		r.queries[app] = buildQueries(t)
	}
	return r
}

func buildQueries(t config.TableConfig) appQueries {
	q := pq.QuoteIdentifier
	return appQueries{
		profile: fmt.Sprintf(
			"SELECT id, COALESCE(full_name, ''), COALESCE(email, ''), COALESCE(avatar_url, '') FROM %s WHERE id = $1",
			q(t.Profiles)),
		roleRecord: fmt.Sprintf(
			"SELECT id, profile_id, status FROM %s WHERE profile_id = $1 LIMIT 1",
			q(t.RoleRecords)),
		activation: fmt.Sprintf(
			"SELECT %s, training_completed, quiz_passed, is_activated FROM %s WHERE %s = $1 LIMIT 1",
			q(t.ActivationKey), q(t.Activation), q(t.ActivationKey)),
		pendingItems: fmt.Sprintf(
			"SELECT COUNT(*) FROM %s WHERE %s = $1 AND status = ANY($2)",
			q(t.PendingItems), q(t.PendingOwnerColumn)),
		pendingStatuses: t.PendingStatuses,
		unread: fmt.Sprintf(
			"SELECT COUNT(*) FROM %s WHERE profile_id = $1 AND is_read = false",
			q(t.Notifications)),
	}
}

func (r *SQLRepository) app(app domain.App) (appQueries, error) {
	q, ok := r.queries[app]
	if !ok {
		return appQueries{}, fmt.Errorf("%w: %q", domain.ErrUnknownApp, app)
	}
	return q, nil
}

func (r *SQLRepository) FindProfile(ctx context.Context, app domain.App, userID string) (*domain.Profile, error) {
	q, err := r.app(app)
	if err != nil {
		return nil, err
	}

	var p domain.Profile
	err = r.queryRow(ctx, q.profile, []any{userID}, &p.ID, &p.FullName, &p.Email, &p.AvatarURL)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *SQLRepository) FindRoleRecord(ctx context.Context, app domain.App, profileID string) (*domain.RoleRecord, error) {
	q, err := r.app(app)
	if err != nil {
		return nil, err
	}

	var rec domain.RoleRecord
	var status string
	if err := r.queryRow(ctx, q.roleRecord, []any{profileID}, &rec.ID, &rec.ProfileID, &status); err != nil {
		return nil, err
	}
	rec.Status = domain.RoleStatus(strings.ToLower(status))
	return &rec, nil
}

func (r *SQLRepository) FindActivation(ctx context.Context, app domain.App, roleRecordID string) (*domain.ActivationStatus, error) {
	q, err := r.app(app)
	if err != nil {
		return nil, err
	}

	var a domain.ActivationStatus
	var training, quiz, activated sql.NullBool
	if err := r.queryRow(ctx, q.activation, []any{roleRecordID}, &a.RoleRecordID, &training, &quiz, &activated); err != nil {
		return nil, err
	}
	a.TrainingCompleted = training.Bool
	a.QuizPassed = quiz.Bool
	a.IsActivated = activated.Bool
	return &a, nil
}

func (r *SQLRepository) CountPendingItems(ctx context.Context, app domain.App, roleRecordID string) (int, error) {
	q, err := r.app(app)
	if err != nil {
		return 0, err
	}
	var n int
	err = r.queryRow(ctx, q.pendingItems, []any{roleRecordID, pq.Array(q.pendingStatuses)}, &n)
	return n, err
}

func (r *SQLRepository) CountUnreadNotifications(ctx context.Context, app domain.App, profileID string) (int, error) {
	q, err := r.app(app)
	if err != nil {
		return 0, err
	}
	var n int
	err = r.queryRow(ctx, q.unread, []any{profileID}, &n)
	return n, err
}

// queryRow runs a single-row query behind the circuit breaker and maps
// sql.ErrNoRows to domain.ErrNotFound.
func (r *SQLRepository) queryRow(ctx context.Context, query string, args []any, dest ...any) error {
	_, err := r.cb.Execute(func() (interface{}, error) {
		err := r.db.QueryRowContext(ctx, query, args...).Scan(dest...)
		return nil, classify(err)
	})
	return err
}

func classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, sql.ErrNoRows):
		return domain.ErrNotFound
	}

	// undefined_table: the relation has not been provisioned for this deployment.
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "42P01" {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, pqErr.Message)
	}
	return fmt.Errorf("query failed: %w", err)
}

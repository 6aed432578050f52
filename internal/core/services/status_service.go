package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/ports"
	"github.com/AchilleasB/assignx/access-gate-service/internal/metrics"
)

// StatusService gathers the rows describing a user's onboarding and
// activation progress.
type StatusService struct {
	repo   ports.StatusRepository
	logger *zap.Logger
}

func NewStatusService(repo ports.StatusRepository, logger *zap.Logger) *StatusService {
	return &StatusService{
		repo:   repo,
		logger: logger.Named("status"),
	}
}

// Aggregate runs the lookups in two parallel phases: profile, role record and
// unread count first, then activation and pending count, which are keyed by
// the role record. Branches never return an error so that one failed lookup
// does not cancel its siblings; the outcome of each is kept in the snapshot.
func (s *StatusService) Aggregate(ctx context.Context, app domain.App, userID string) domain.StatusSnapshot {
	var snap domain.StatusSnapshot

	var g errgroup.Group
	g.Go(func() error {
		profile, err := s.repo.FindProfile(ctx, app, userID)
		snap.Profile = domain.LookupOf(profile, err)
		return nil
	})
	g.Go(func() error {
		record, err := s.repo.FindRoleRecord(ctx, app, userID)
		snap.RoleRecord = domain.LookupOf(record, err)
		return nil
	})
	g.Go(func() error {
		snap.UnreadNotifications = countLookup(s.repo.CountUnreadNotifications(ctx, app, userID))
		return nil
	})
	_ = g.Wait()

	role := snap.RoleRecord.Value
	if role == nil {
		snap.Activation = domain.Missing[domain.ActivationStatus]()
		snap.PendingItems = domain.Missing[int]()
		s.report(app, userID, snap)
		return snap
	}

	var keyed errgroup.Group
	keyed.Go(func() error {
		activation, err := s.repo.FindActivation(ctx, app, role.ID)
		snap.Activation = domain.LookupOf(activation, err)
		return nil
	})
	keyed.Go(func() error {
		snap.PendingItems = countLookup(s.repo.CountPendingItems(ctx, app, role.ID))
		return nil
	})
	_ = keyed.Wait()

	s.report(app, userID, snap)
	return snap
}

func (s *StatusService) report(app domain.App, userID string, snap domain.StatusSnapshot) {
	failures := map[string]error{
		"profile":              snap.Profile.Err,
		"role_record":          snap.RoleRecord.Err,
		"activation":           snap.Activation.Err,
		"pending_items":        snap.PendingItems.Err,
		"unread_notifications": snap.UnreadNotifications.Err,
	}
	for record, err := range failures {
		if err == nil {
			continue
		}
		metrics.LookupFailures.WithLabelValues(record).Inc()
		s.logger.Warn("status lookup failed",
			zap.String("app", string(app)),
			zap.String("user_id", userID),
			zap.String("record", record),
			zap.Error(err))
	}
}

func countLookup(n int, err error) domain.Lookup[int] {
	if err != nil {
		return domain.LookupOf[int](nil, err)
	}
	return domain.Found(&n)
}

package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"
	"github.com/AchilleasB/assignx/access-gate-service/internal/core/ports"
	"github.com/AchilleasB/assignx/access-gate-service/internal/metrics"
)

type Aggregator interface {
	Aggregate(ctx context.Context, app domain.App, userID string) domain.StatusSnapshot
}

// LayoutService runs the gate for a protected layout: identity, status
// records, decision, then either a redirect path or a display bundle.
type LayoutService struct {
	identity ports.IdentityResolver
	status   Aggregator
	display  DisplayBuilder
	routes   map[domain.App]domain.AppRoutes
	logger   *zap.Logger
}

var _ ports.LayoutService = (*LayoutService)(nil)

func NewLayoutService(
	identity ports.IdentityResolver,
	status Aggregator,
	display DisplayBuilder,
	routes map[domain.App]domain.AppRoutes,
	logger *zap.Logger,
) *LayoutService {
	return &LayoutService{
		identity: identity,
		status:   status,
		display:  display,
		routes:   routes,
		logger:   logger.Named("layout"),
	}
}

func (s *LayoutService) Resolve(ctx context.Context, app domain.App, scope domain.Scope, creds domain.Credentials) (*ports.LayoutResult, error) {
	routes, ok := s.routes[app]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownApp, app)
	}
	if !scope.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownScope, scope)
	}

	start := time.Now()
	defer func() {
		metrics.LayoutDuration.WithLabelValues(string(app), string(scope)).Observe(time.Since(start).Seconds())
	}()

	identity, err := s.identity.Resolve(ctx, creds)
	if err != nil {
		s.logger.Error("identity resolution failed", zap.String("app", string(app)), zap.Error(err))
		return nil, err
	}
	if identity == nil {
		return s.redirect(app, scope, routes, domain.OutcomeRedirectLogin), nil
	}

	snap := s.status.Aggregate(ctx, app, identity.User.ID)
	if err := snap.GateError(); err != nil {
		// A failed role or activation query must not read as "not onboarded yet".
		return nil, fmt.Errorf("%w: %w", domain.ErrStatusUnavailable, err)
	}

	outcome := DecideFor(scope, identity.Session, snap.RoleRecord.Value, snap.Activation.Value)
	if outcome.IsRedirect() {
		return s.redirect(app, scope, routes, outcome), nil
	}

	metrics.GateOutcomes.WithLabelValues(string(app), string(scope), string(outcome)).Inc()
	bundle := s.display.Build(snap.Profile.Value, identity.User, snap.Counts())
	return &ports.LayoutResult{Outcome: outcome, Display: &bundle}, nil
}

func (s *LayoutService) redirect(app domain.App, scope domain.Scope, routes domain.AppRoutes, outcome domain.Outcome) *ports.LayoutResult {
	metrics.GateOutcomes.WithLabelValues(string(app), string(scope), string(outcome)).Inc()
	return &ports.LayoutResult{Outcome: outcome, RedirectTo: routes.PathFor(outcome)}
}

// IsUnavailable reports whether err came from an unreachable dependency
// rather than from bad input.
func IsUnavailable(err error) bool {
	return errors.Is(err, domain.ErrAuthUnavailable) || errors.Is(err, domain.ErrStatusUnavailable)
}

package services

import "github.com/AchilleasB/assignx/access-gate-service/internal/core/domain"

// Decide is the gate for the activation flow. Rules are evaluated in order
// and the first match wins; the onboarding check always precedes the
// activation check.
func Decide(session *domain.Session, role *domain.RoleRecord, activation *domain.ActivationStatus) domain.Outcome {
	switch {
	case session == nil:
		return domain.OutcomeRedirectLogin
	case !role.Active():
		return domain.OutcomeRedirectOnboarding
	case activation.Activated():
		return domain.OutcomeRedirectDashboard
	default:
		return domain.OutcomeRender
	}
}

// DecideFor applies the gate table of the given route group.
func DecideFor(scope domain.Scope, session *domain.Session, role *domain.RoleRecord, activation *domain.ActivationStatus) domain.Outcome {
	switch scope {
	case domain.ScopeActivation:
		return Decide(session, role, activation)

	case domain.ScopeDashboard:
		switch {
		case session == nil:
			return domain.OutcomeRedirectLogin
		case !role.Active():
			return domain.OutcomeRedirectOnboarding
		case !activation.Activated():
			return domain.OutcomeRedirectActivation
		default:
			return domain.OutcomeRender
		}

	case domain.ScopeOnboarding:
		switch {
		case session == nil:
			return domain.OutcomeRedirectLogin
		case role.Active() && activation.Activated():
			return domain.OutcomeRedirectDashboard
		case role.Active():
			return domain.OutcomeRedirectActivation
		default:
			return domain.OutcomeRender
		}
	}
	return domain.OutcomeRedirectLogin
}

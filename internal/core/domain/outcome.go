package domain

type Outcome string

const (
	OutcomeRender             Outcome = "render"
	OutcomeRedirectLogin      Outcome = "redirect_login"
	OutcomeRedirectOnboarding Outcome = "redirect_onboarding"
	OutcomeRedirectActivation Outcome = "redirect_activation"
	OutcomeRedirectDashboard  Outcome = "redirect_dashboard"
)

func (o Outcome) IsRedirect() bool {
	return o != OutcomeRender
}

// Scope is the protected route group a layout belongs to.
type Scope string

const (
	ScopeOnboarding Scope = "onboarding"
	ScopeActivation Scope = "activation"
	ScopeDashboard  Scope = "dashboard"
)

func (s Scope) Valid() bool {
	switch s {
	case ScopeOnboarding, ScopeActivation, ScopeDashboard:
		return true
	}
	return false
}

// AppRoutes are the paths a redirect outcome resolves to.
type AppRoutes struct {
	Login      string `yaml:"login" json:"login"`
	Onboarding string `yaml:"onboarding" json:"onboarding"`
	Activation string `yaml:"activation" json:"activation"`
	Dashboard  string `yaml:"dashboard" json:"dashboard"`
}

func (r AppRoutes) PathFor(o Outcome) string {
	switch o {
	case OutcomeRedirectLogin:
		return r.Login
	case OutcomeRedirectOnboarding:
		return r.Onboarding
	case OutcomeRedirectActivation:
		return r.Activation
	case OutcomeRedirectDashboard:
		return r.Dashboard
	}
	return ""
}

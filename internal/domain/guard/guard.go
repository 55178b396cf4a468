// Package guard implements the navigation gate: a pure decision function
// mapping session state and requested page to the page the user may see.
// It is re-evaluated on every navigation and on every session state change.
package guard

import "gatehouse/internal/domain/entity"

// Page identifies one of the application's pages.
type Page int

const (
	// PageAuth is the combined signup/login page.
	PageAuth Page = iota
	// PageProfileSetup is the mandatory post-signup profile step.
	PageProfileSetup
	// PageDashboard is the profile-gated landing page.
	PageDashboard
)

// String returns the string representation of the Page.
func (p Page) String() string {
	switch p {
	case PageProfileSetup:
		return "profile-setup"
	case PageDashboard:
		return "dashboard"
	default:
		return "auth"
	}
}

// Decision is the outcome of evaluating a navigation request.
type Decision struct {
	Allow    bool
	Redirect Page // The target page when Allow is false.
}

// Home returns the single page a session state is allowed to occupy:
// anonymous sessions live on the auth page, authenticated sessions without a
// profile on the profile-setup page, completed sessions on the dashboard.
func Home(state entity.SessionState) Page {
	switch state {
	case entity.StateAuthenticated:
		return PageProfileSetup
	case entity.StateProfileComplete:
		return PageDashboard
	default:
		return PageAuth
	}
}

// Evaluate applies the gate table to a requested page. Requests for the
// state's home page are allowed; everything else redirects there.
func Evaluate(state entity.SessionState, requested Page) Decision {
	home := Home(state)
	if requested == home {
		return Decision{Allow: true}
	}

	return Decision{Allow: false, Redirect: home}
}

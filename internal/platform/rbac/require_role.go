// Package rbac decides whether a guarded view may render for the current session.
package rbac

import (
	"github.com/prabhakarsharma95/Nexus-Frontend/internal/nav"
	sessiondomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/session/domain"
	userdomain "github.com/prabhakarsharma95/Nexus-Frontend/internal/user/domain"
)

// Kind is the outcome of a guard check.
type Kind int

const (
	// Loading means the session is not settled yet; show a neutral indicator and decide later.
	Loading Kind = iota
	// RedirectLanding sends a signed-out visitor to the landing route; From carries the requested path.
	RedirectLanding
	// RedirectDashboard sends a signed-in user of the wrong role to their own dashboard.
	RedirectDashboard
	// Render lets the guarded view render.
	Render
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case RedirectLanding:
		return "redirect-landing"
	case RedirectDashboard:
		return "redirect-dashboard"
	case Render:
		return "render"
	}
	return "unknown"
}

// Decision is what the guard wants done. Target is empty for Loading and Render.
type Decision struct {
	Kind   Kind
	Target string
	From   string
}

// DashboardFor returns the dashboard route for role: employers get the employer dashboard, everyone else the job-seeker one.
func DashboardFor(role userdomain.Role) string {
	if role == userdomain.RoleEmployer {
		return nav.EmployerDashboard
	}
	return nav.SeekerDashboard
}

// RequireRole decides access to requestedPath. requiredRole "" means any signed-in user.
// It is pure; callers apply the decision (see Apply).
func RequireRole(state sessiondomain.State, requiredRole userdomain.Role, requestedPath string) Decision {
	if state.Loading {
		return Decision{Kind: Loading}
	}
	if !state.IsAuthenticated || state.CurrentUser == nil {
		return Decision{Kind: RedirectLanding, Target: nav.Landing, From: requestedPath}
	}
	if requiredRole != "" && state.CurrentUser.Role != requiredRole {
		return Decision{Kind: RedirectDashboard, Target: DashboardFor(state.CurrentUser.Role), From: requestedPath}
	}
	return Decision{Kind: Render}
}

// Apply performs the navigation for redirect decisions and reports whether the view may render.
func Apply(d Decision, n nav.Navigator) bool {
	switch d.Kind {
	case RedirectLanding, RedirectDashboard:
		n.Navigate(d.Target, d.From)
		return false
	case Render:
		return true
	}
	return false
}

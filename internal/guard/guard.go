// Package guard decides, on every route entry, whether the visitor may proceed.
package guard

import (
	"fmt"

	"github.com/jonathan/talentfit/internal/auth"
	"github.com/jonathan/talentfit/internal/routes"
	"github.com/jonathan/talentfit/internal/types"
)

// Outcome is the guard's verdict.
type Outcome int

// Guard outcomes.
const (
	Loading Outcome = iota
	Allow
	RedirectToLogin
	RedirectToRoleHome
	NotFound
)

func (o Outcome) String() string {
	switch o {
	case Loading:
		return "loading"
	case Allow:
		return "allow"
	case RedirectToLogin:
		return "redirect_to_login"
	case RedirectToRoleHome:
		return "redirect_to_role_home"
	case NotFound:
		return "not_found"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Decision is an outcome plus the redirect target, when there is one.
type Decision struct {
	Outcome Outcome
	Target  string
}

// Redirects reports whether the decision moves the visitor elsewhere.
func (d Decision) Redirects() bool {
	return d.Target != ""
}

// Decide applies the role policy. It is the only place that policy lives.
// A nil required set admits any logged-in role; a non-nil empty set admits none.
func Decide(state auth.State, required []types.Role) Decision {
	switch state.Status {
	case auth.Unknown:
		return Decision{Outcome: Loading}
	case auth.LoggedOut:
		return Decision{Outcome: RedirectToLogin, Target: routes.Login}
	}
	if !state.Allowed(required) {
		return Decision{Outcome: RedirectToRoleHome, Target: routes.LandingFor(state.Role)}
	}
	return Decision{Outcome: Allow}
}

// Rule describes who may enter a route.
type Rule struct {
	Public bool
	// Roles is nil when the route has no role requirement.
	Roles []types.Role
	// Landing sends an allowed visitor on to the role's landing route.
	Landing bool
}

var userOnly = []types.Role{types.RoleUser}

// Table is the route access table.
var Table = map[string]Rule{
	routes.Login:         {Public: true},
	routes.Root:          {Landing: true},
	routes.AdminJDs:      {Roles: []types.Role{types.RoleAdmin}},
	routes.Dashboard:     {Roles: userOnly},
	routes.UploadResume:  {Roles: userOnly},
	routes.UploadJD:      {Roles: userOnly},
	routes.Matching:      {Roles: userOnly},
	routes.SkillGap:      {Roles: userOnly},
	routes.Assessment:    {Roles: userOnly},
	routes.Interview:     {Roles: userOnly},
	routes.InterviewDone: {Roles: userOnly},
}

// Resolve looks up path in the route table and decides.
func Resolve(state auth.State, path string) Decision {
	rule, ok := Table[path]
	if !ok {
		return Decision{Outcome: NotFound}
	}
	if rule.Public {
		return Decision{Outcome: Allow}
	}

	d := Decide(state, rule.Roles)
	if d.Outcome == Allow && rule.Landing {
		return Decision{Outcome: RedirectToRoleHome, Target: routes.LandingFor(state.Role)}
	}
	return d
}

// Enter resolves path and performs any redirect through nav.
func Enter(state auth.State, path string, nav routes.Navigator) Decision {
	d := Resolve(state, path)
	if d.Redirects() && nav != nil {
		nav.Navigate(d.Target)
	}
	return d
}

package session

import "github.com/trezcool/masomo/core/user"

// LoginPath is where anonymous visitors are sent.
const LoginPath = "/login"

// State is a snapshot of a session. A nil User means anonymous.
type State struct {
	User *user.User
}

func (s State) IsAuthenticated() bool {
	return s.User != nil
}

// Decision is the outcome of a role gate.
type Decision struct {
	Allowed  bool
	Redirect string
}

// Authorize gates state on allowed; no roles means any authenticated user.
// Anonymous sessions are sent to LoginPath and mismatched roles to their own home.
func Authorize(state State, allowed ...user.Role) Decision {
	if !state.IsAuthenticated() {
		return Decision{Redirect: LoginPath}
	}
	if !state.User.HasAnyRole(allowed...) {
		return Decision{Redirect: state.User.Role.Home()}
	}
	return Decision{Allowed: true}
}

package entity

// Session is the process-local, non-durable representation of the currently
// authenticated identity. A zero Session is anonymous.
type Session struct {
	Email   string   // The authenticated email, or empty when anonymous.
	Profile *Profile // The last-fetched profile for that email, or nil.
}

// SessionState is the tri-state gate the route guard is computed from.
type SessionState int

const (
	// StateAnonymous means no identity is established.
	StateAnonymous SessionState = iota
	// StateAuthenticated means an identity is established but the profile
	// step has not been completed.
	StateAuthenticated
	// StateProfileComplete means an identity is established and the account
	// carries a profile.
	StateProfileComplete
)

// String returns the string representation of the SessionState.
func (s SessionState) String() string {
	switch s {
	case StateAuthenticated:
		return "authenticated"
	case StateProfileComplete:
		return "profileComplete"
	default:
		return "anonymous"
	}
}

// State derives the gate state from the session contents. The profile field
// mirrors the store's view of the account as of the last fetch; it may be
// stale until the next refresh.
func (s Session) State() SessionState {
	switch {
	case s.Email == "":
		return StateAnonymous
	case s.Profile == nil:
		return StateAuthenticated
	default:
		return StateProfileComplete
	}
}

// IsAnonymous reports whether no identity is established.
func (s Session) IsAnonymous() bool {
	return s.Email == ""
}

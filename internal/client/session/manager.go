// Package session owns the process-local session and its state machine.
//
// A session is in exactly one of three states: anonymous, authenticated
// without a profile, or authenticated with a completed profile. The manager
// is the only writer; every transition goes through it, updates the durable
// marker, and notifies subscribers.
package session

import (
	"context"
	"log/slog"
	"sync"

	"gatehouse/internal/domain/entity"
	domainerrors "gatehouse/internal/domain/errors"
	"gatehouse/internal/domain/guard"

	"github.com/pkg/errors"
)

// StoreClient is the account store surface the manager needs.
type StoreClient interface {
	Signup(ctx context.Context, email string, password string) error
	Login(ctx context.Context, email string, password string) (*entity.Profile, error)
	GoogleLogin(ctx context.Context, credential string) (string, *entity.Profile, error)
	SaveProfile(ctx context.Context, email string, fields entity.ProfileFields) (*entity.Profile, error)
	Lookup(ctx context.Context, email string) (*entity.Profile, error)
}

// Marker persists the signed-in email across restarts.
type Marker interface {
	Read() (string, error)
	Write(email string) error
	Clear() error
}

// Manager holds the current session and coordinates all transitions.
type Manager struct {
	store  StoreClient
	marker Marker
	logger *slog.Logger

	mu          sync.Mutex
	session     entity.Session
	subscribers []func(entity.Session)
}

func NewManager(store StoreClient, marker Marker, logger *slog.Logger) *Manager {
	return &Manager{
		store:  store,
		marker: marker,
		logger: logger,
	}
}

// Current returns a snapshot of the session.
func (m *Manager) Current() entity.Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.session
}

// State returns the current session state.
func (m *Manager) State() entity.SessionState {
	return m.Current().State()
}

// Subscribe registers a callback invoked with the new session on every
// state change. Callbacks run synchronously while the transition lock is
// held, so they must not call back into the manager.
func (m *Manager) Subscribe(fn func(entity.Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.subscribers = append(m.subscribers, fn)
}

// Navigate applies the route gate to a requested page against the current
// session state.
func (m *Manager) Navigate(requested guard.Page) guard.Decision {
	return guard.Evaluate(m.State(), requested)
}

// Home returns the page the current session state belongs on.
func (m *Manager) Home() guard.Page {
	return guard.Home(m.State())
}

// Signup registers a new account and signs it in.
func (m *Manager) Signup(ctx context.Context, email string, password string) error {
	if err := m.store.Signup(ctx, email, password); err != nil {
		return err
	}

	return m.transition(entity.Session{Email: email})
}

// Login signs in with a password credential.
func (m *Manager) Login(ctx context.Context, email string, password string) error {
	profile, err := m.store.Login(ctx, email, password)
	if err != nil {
		return err
	}

	return m.transition(entity.Session{Email: email, Profile: profile})
}

// ExternalLogin signs in with a third-party identity token, provisioning
// an account on first use.
func (m *Manager) ExternalLogin(ctx context.Context, credential string) error {
	email, profile, err := m.store.GoogleLogin(ctx, credential)
	if err != nil {
		return err
	}

	return m.transition(entity.Session{Email: email, Profile: profile})
}

// SaveProfile stores the profile for the signed-in account. Any store
// failure is returned to the caller; a failed save never advances the
// session state.
func (m *Manager) SaveProfile(ctx context.Context, fields entity.ProfileFields) error {
	current := m.Current()
	if current.IsAnonymous() {
		return errors.WithStack(domainerrors.ErrNotAuthenticated)
	}

	profile, err := m.store.SaveProfile(ctx, current.Email, fields)
	if err != nil {
		return err
	}

	return m.transition(entity.Session{Email: current.Email, Profile: profile})
}

// Logout clears the session and the durable marker. Logging out while
// already anonymous is a no-op.
func (m *Manager) Logout() error {
	if err := m.marker.Clear(); err != nil {
		return err
	}

	return m.transition(entity.Session{})
}

// Restore rehydrates the session from the durable marker at process start.
// A stale marker whose account no longer exists yields an anonymous
// session and clears the marker; a store outage is surfaced so the caller
// can retry rather than silently dropping a valid session.
func (m *Manager) Restore(ctx context.Context) error {
	email, err := m.marker.Read()
	if err != nil {
		return err
	}
	if email == "" {
		return m.transition(entity.Session{})
	}

	profile, err := m.store.Lookup(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrAccountNotFound) {
			m.logger.Info("stale session marker, account gone",
				slog.String("email", email))
			if clearErr := m.marker.Clear(); clearErr != nil {
				return clearErr
			}

			return m.transition(entity.Session{})
		}

		return err
	}

	return m.transition(entity.Session{Email: email, Profile: profile})
}

// transition installs the new session, persists the marker for signed-in
// sessions, and notifies subscribers when the state changed.
func (m *Manager) transition(next entity.Session) error {
	if !next.IsAnonymous() {
		if err := m.marker.Write(next.Email); err != nil {
			return err
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	changed := m.session.State() != next.State() || m.session.Email != next.Email
	m.session = next
	if !changed {
		return nil
	}

	for _, fn := range m.subscribers {
		fn(next)
	}

	return nil
}

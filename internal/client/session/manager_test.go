package session

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"gatehouse/internal/domain/entity"
	domainerrors "gatehouse/internal/domain/errors"
	"gatehouse/internal/domain/guard"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	accounts map[string]*entity.Profile
	failWith error
}

func newFakeStore() *fakeStore {
	return &fakeStore{accounts: map[string]*entity.Profile{}}
}

func (f *fakeStore) Signup(_ context.Context, email string, _ string) error {
	if f.failWith != nil {
		return f.failWith
	}
	if _, ok := f.accounts[email]; ok {
		return domainerrors.ErrAccountAlreadyExists
	}
	f.accounts[email] = nil

	return nil
}

func (f *fakeStore) Login(_ context.Context, email string, _ string) (*entity.Profile, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	profile, ok := f.accounts[email]
	if !ok {
		return nil, domainerrors.ErrAccountNotFound
	}

	return profile, nil
}

func (f *fakeStore) GoogleLogin(_ context.Context, credential string) (string, *entity.Profile, error) {
	if f.failWith != nil {
		return "", nil, f.failWith
	}
	if credential == "bad" {
		return "", nil, domainerrors.ErrInvalidToken
	}
	email := credential + "@example.com"
	profile, ok := f.accounts[email]
	if !ok {
		f.accounts[email] = nil
	}

	return email, profile, nil
}

func (f *fakeStore) SaveProfile(_ context.Context, email string, fields entity.ProfileFields) (*entity.Profile, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	if _, ok := f.accounts[email]; !ok {
		return nil, domainerrors.ErrAccountNotFound
	}
	profile := &entity.Profile{
		FullName:    fields.FullName,
		Phone:       fields.Phone,
		City:        fields.City,
		State:       fields.State,
		CompletedAt: time.Now().UTC(),
	}
	f.accounts[email] = profile

	return profile, nil
}

func (f *fakeStore) Lookup(_ context.Context, email string) (*entity.Profile, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	profile, ok := f.accounts[email]
	if !ok {
		return nil, domainerrors.ErrAccountNotFound
	}

	return profile, nil
}

type memoryMarker struct {
	email string
}

func (m *memoryMarker) Read() (string, error)      { return m.email, nil }
func (m *memoryMarker) Write(email string) error   { m.email = email; return nil }
func (m *memoryMarker) Clear() error               { m.email = ""; return nil }

func newTestManager() (*Manager, *fakeStore, *memoryMarker) {
	store := newFakeStore()
	marker := &memoryMarker{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewManager(store, marker, logger), store, marker
}

var testFields = entity.ProfileFields{
	FullName: "Ana Souza",
	Phone:    "555-0100",
	City:     "Recife",
	State:    "PE",
}

func TestSignupAuthenticates(t *testing.T) {
	manager, _, marker := newTestManager()
	ctx := context.Background()

	require.NoError(t, manager.Signup(ctx, "ana@example.com", "secret123"))

	session := manager.Current()
	assert.Equal(t, entity.StateAuthenticated, session.State())
	assert.Equal(t, "ana@example.com", session.Email)
	assert.Equal(t, "ana@example.com", marker.email)
}

func TestSignupDuplicateStaysAnonymous(t *testing.T) {
	manager, store, marker := newTestManager()
	ctx := context.Background()
	store.accounts["ana@example.com"] = nil

	err := manager.Signup(ctx, "ana@example.com", "secret123")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrAccountAlreadyExists))
	assert.Equal(t, entity.StateAnonymous, manager.State())
	assert.Empty(t, marker.email)
}

func TestLoginWithProfileCompletesSession(t *testing.T) {
	manager, store, _ := newTestManager()
	ctx := context.Background()
	store.accounts["ana@example.com"] = &entity.Profile{FullName: "Ana Souza"}

	require.NoError(t, manager.Login(ctx, "ana@example.com", "secret123"))
	assert.Equal(t, entity.StateProfileComplete, manager.State())
}

func TestExternalLoginProvisions(t *testing.T) {
	manager, store, marker := newTestManager()
	ctx := context.Background()

	require.NoError(t, manager.ExternalLogin(ctx, "carla"))
	assert.Equal(t, entity.StateAuthenticated, manager.State())
	assert.Equal(t, "carla@example.com", marker.email)
	assert.Contains(t, store.accounts, "carla@example.com")

	err := manager.ExternalLogin(ctx, "bad")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrInvalidToken))
	// The failed attempt does not disturb the existing session.
	assert.Equal(t, entity.StateAuthenticated, manager.State())
}

func TestSaveProfileAdvancesState(t *testing.T) {
	manager, _, _ := newTestManager()
	ctx := context.Background()

	require.NoError(t, manager.Signup(ctx, "ana@example.com", "secret123"))
	require.NoError(t, manager.SaveProfile(ctx, testFields))

	session := manager.Current()
	assert.Equal(t, entity.StateProfileComplete, session.State())
	assert.Equal(t, "Ana Souza", session.Profile.FullName)
	assert.False(t, session.Profile.CompletedAt.IsZero())
}

func TestSaveProfileWhileAnonymous(t *testing.T) {
	manager, _, _ := newTestManager()

	err := manager.SaveProfile(context.Background(), testFields)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrNotAuthenticated))
}

func TestSaveProfileFailureSurfacesAndKeepsState(t *testing.T) {
	manager, store, _ := newTestManager()
	ctx := context.Background()

	require.NoError(t, manager.Signup(ctx, "ana@example.com", "secret123"))
	store.failWith = domainerrors.ErrStoreUnavailable

	err := manager.SaveProfile(ctx, testFields)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrStoreUnavailable))
	assert.Equal(t, entity.StateAuthenticated, manager.State())
}

func TestLogoutIsIdempotent(t *testing.T) {
	manager, _, marker := newTestManager()
	ctx := context.Background()

	require.NoError(t, manager.Signup(ctx, "ana@example.com", "secret123"))
	require.NoError(t, manager.Logout())
	assert.Equal(t, entity.StateAnonymous, manager.State())
	assert.Empty(t, marker.email)

	// Logging out again is a no-op, not an error.
	require.NoError(t, manager.Logout())
	assert.Equal(t, entity.StateAnonymous, manager.State())
}

func TestRestoreWithoutMarker(t *testing.T) {
	manager, _, _ := newTestManager()

	require.NoError(t, manager.Restore(context.Background()))
	assert.Equal(t, entity.StateAnonymous, manager.State())
}

func TestRestoreRehydratesProfile(t *testing.T) {
	manager, store, marker := newTestManager()
	store.accounts["ana@example.com"] = &entity.Profile{FullName: "Ana Souza"}
	marker.email = "ana@example.com"

	require.NoError(t, manager.Restore(context.Background()))

	session := manager.Current()
	assert.Equal(t, entity.StateProfileComplete, session.State())
	assert.Equal(t, "Ana Souza", session.Profile.FullName)
}

func TestRestoreStaleMarkerSelfHeals(t *testing.T) {
	manager, _, marker := newTestManager()
	marker.email = "gone@example.com"

	require.NoError(t, manager.Restore(context.Background()))
	assert.Equal(t, entity.StateAnonymous, manager.State())
	assert.Empty(t, marker.email)
}

func TestRestoreSurfacesStoreOutage(t *testing.T) {
	manager, store, marker := newTestManager()
	marker.email = "ana@example.com"
	store.failWith = domainerrors.ErrStoreUnavailable

	err := manager.Restore(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrStoreUnavailable))
	// The marker survives so a later retry can still restore the session.
	assert.Equal(t, "ana@example.com", marker.email)
}

func TestNavigateFollowsSessionState(t *testing.T) {
	manager, _, _ := newTestManager()
	ctx := context.Background()

	assert.True(t, manager.Navigate(guard.PageAuth).Allow)
	assert.Equal(t, guard.PageAuth, manager.Navigate(guard.PageDashboard).Redirect)

	require.NoError(t, manager.Signup(ctx, "ana@example.com", "secret123"))
	assert.Equal(t, guard.PageProfileSetup, manager.Home())
	assert.False(t, manager.Navigate(guard.PageDashboard).Allow)

	require.NoError(t, manager.SaveProfile(ctx, testFields))
	assert.True(t, manager.Navigate(guard.PageDashboard).Allow)
	assert.Equal(t, guard.PageDashboard, manager.Navigate(guard.PageAuth).Redirect)
}

func TestSubscribersSeeEveryStateChange(t *testing.T) {
	manager, _, _ := newTestManager()
	ctx := context.Background()

	var states []entity.SessionState
	manager.Subscribe(func(s entity.Session) {
		states = append(states, s.State())
	})

	require.NoError(t, manager.Signup(ctx, "ana@example.com", "secret123"))
	require.NoError(t, manager.SaveProfile(ctx, testFields))
	require.NoError(t, manager.Logout())

	assert.Equal(t, []entity.SessionState{
		entity.StateAuthenticated,
		entity.StateProfileComplete,
		entity.StateAnonymous,
	}, states)
}

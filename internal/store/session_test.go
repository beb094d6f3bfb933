package store

import (
	"context"
	"testing"
	"time"

	"github.com/ascendhq/ascend-console-go/internal/domain"
	"github.com/ascendhq/ascend-console-go/internal/infra/observability"
	"github.com/ascendhq/ascend-console-go/internal/infra/resilience"
	"github.com/ascendhq/ascend-console-go/internal/port"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testUser() domain.User {
	return domain.User{
		ID:                 "u-1",
		Email:              "owner@acme.dev",
		Name:               "Ada",
		Subscription:       domain.SubscriptionFree,
		ConsultationsUsed:  1,
		ConsultationsLimit: 3,
	}
}

func newSessionStore(auth *mockAuthAPI, users *mockUserAPI, state port.StateStore, notifier port.Notifier) *Session {
	if state == nil {
		state = newMemState()
	}
	if notifier == nil {
		notifier = port.NopNotifier{}
	}
	cfg := resilience.Config{MaxRetries: 0, InitialBackoff: time.Millisecond}
	return NewSession(auth, users, state, notifier, observability.NewMetrics(), cfg, zap.NewNop())
}

func TestSession_LoginSuccess(t *testing.T) {
	users := &mockUserAPI{user: testUser()}
	s := newSessionStore(&mockAuthAPI{}, users, nil, nil)

	err := s.Login(context.Background(), domain.Credentials{Email: "owner@acme.dev", Password: "hunter22"})
	require.NoError(t, err)

	assert.True(t, s.IsAuthenticated())
	assert.False(t, s.Loading())
	assert.Empty(t, s.Err())
	require.NotNil(t, s.User())
	assert.Equal(t, "u-1", s.User().ID)
}

func TestSession_LoginFailureSignsOut(t *testing.T) {
	auth := &mockAuthAPI{loginErr: &domain.APIError{Status: 401, Detail: "Invalid credentials"}}
	s := newSessionStore(auth, &mockUserAPI{user: testUser()}, nil, nil)

	err := s.Login(context.Background(), domain.Credentials{Email: "owner@acme.dev", Password: "wrong-pass"})
	require.Error(t, err)

	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
	assert.Equal(t, "Invalid credentials", s.Err())
	assert.False(t, s.Loading())
}

func TestSession_LoginValidationShortCircuits(t *testing.T) {
	auth := &mockAuthAPI{}
	s := newSessionStore(auth, &mockUserAPI{user: testUser()}, nil, nil)

	err := s.Login(context.Background(), domain.Credentials{Email: "not-an-email", Password: "x"})
	require.Error(t, err)
	assert.Zero(t, auth.logins, "invalid input should never reach the network")
	assert.NotEmpty(t, s.Err())
}

func TestSession_LoginUserFetchFailureSignsOut(t *testing.T) {
	users := &mockUserAPI{fetchErr: &domain.APIError{Status: 500, Detail: "boom"}}
	s := newSessionStore(&mockAuthAPI{}, users, nil, nil)

	err := s.Login(context.Background(), domain.Credentials{Email: "owner@acme.dev", Password: "hunter22"})
	require.Error(t, err)
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, "boom", s.Err())
}

func TestSession_SignupLogsInAndFetches(t *testing.T) {
	auth := &mockAuthAPI{}
	users := &mockUserAPI{user: testUser()}
	s := newSessionStore(auth, users, nil, nil)

	err := s.Signup(context.Background(), domain.SignupForm{Email: "owner@acme.dev", Password: "hunter2222", Name: "Ada"})
	require.NoError(t, err)

	assert.Equal(t, 1, auth.logins, "signup should chain into a login")
	assert.True(t, s.IsAuthenticated())
}

func TestSession_SignupRejectsShortPassword(t *testing.T) {
	s := newSessionStore(&mockAuthAPI{}, &mockUserAPI{}, nil, nil)

	err := s.Signup(context.Background(), domain.SignupForm{Email: "owner@acme.dev", Password: "short"})
	require.Error(t, err)
	assert.False(t, s.IsAuthenticated())
}

func TestSession_LogoutClearsImmediately(t *testing.T) {
	state := newMemState()
	auth := &mockAuthAPI{logoutCalls: make(chan struct{}, 1)}
	users := &mockUserAPI{user: testUser()}
	s := newSessionStore(auth, users, state, nil)

	require.NoError(t, s.Login(context.Background(), domain.Credentials{Email: "owner@acme.dev", Password: "hunter22"}))
	s.Logout()

	// local state is gone before the server call resolves
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())

	select {
	case <-auth.logoutCalls:
	case <-time.After(2 * time.Second):
		t.Fatal("detached logout never reached the server")
	}

	var saved persistedSession
	ok, err := state.Load(SessionStateKey, &saved)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, saved.IsAuthenticated)
	assert.Nil(t, saved.User)
}

func TestSession_LogoutServerFailureStaysLocal(t *testing.T) {
	auth := &mockAuthAPI{
		logoutErr:   &domain.APIError{Status: 500, Detail: "boom"},
		logoutCalls: make(chan struct{}, 4),
	}
	s := newSessionStore(auth, &mockUserAPI{user: testUser()}, nil, nil)

	require.NoError(t, s.Login(context.Background(), domain.Credentials{Email: "owner@acme.dev", Password: "hunter22"}))
	s.Logout()

	select {
	case <-auth.logoutCalls:
	case <-time.After(2 * time.Second):
		t.Fatal("detached logout never ran")
	}
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Err(), "fire-and-forget failure must not surface")
}

func TestSession_RestoresPersistedSession(t *testing.T) {
	state := newMemState()
	u := testUser()
	require.NoError(t, state.Save(SessionStateKey, persistedSession{User: &u, IsAuthenticated: true}))

	s := newSessionStore(&mockAuthAPI{}, &mockUserAPI{}, state, nil)

	assert.True(t, s.IsAuthenticated())
	require.NotNil(t, s.User())
	assert.Equal(t, "u-1", s.User().ID)
}

func TestSession_FetchUserFailureSignsOut(t *testing.T) {
	users := &mockUserAPI{user: testUser()}
	s := newSessionStore(&mockAuthAPI{}, users, nil, nil)
	require.NoError(t, s.Login(context.Background(), domain.Credentials{Email: "owner@acme.dev", Password: "hunter22"}))

	users.fetchErr = &domain.APIError{Status: 401, Detail: "Session expired"}
	err := s.FetchUser(context.Background())
	require.Error(t, err)
	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, "Session expired", s.Err())
}

func TestSession_UpdateUserNotifies(t *testing.T) {
	notifier := &recordingNotifier{}
	s := newSessionStore(&mockAuthAPI{}, &mockUserAPI{user: testUser()}, nil, notifier)
	require.NoError(t, s.Login(context.Background(), domain.Credentials{Email: "owner@acme.dev", Password: "hunter22"}))

	name := "Grace"
	require.NoError(t, s.UpdateUser(context.Background(), &name, nil))

	assert.Equal(t, "Grace", s.User().Name)
	assert.Contains(t, notifier.Successes(), "Profile updated successfully!")
}

func TestSession_UpdateUserFailureNotifiesError(t *testing.T) {
	notifier := &recordingNotifier{}
	users := &mockUserAPI{user: testUser(), updateErr: &domain.APIError{Status: 422, Detail: "Email already taken"}}
	s := newSessionStore(&mockAuthAPI{}, users, nil, notifier)

	email := "taken@acme.dev"
	err := s.UpdateUser(context.Background(), nil, &email)
	require.Error(t, err)
	assert.Contains(t, notifier.Errors(), "Email already taken")
	assert.Equal(t, "Email already taken", s.Err())
}

func TestSession_ChangePasswordValidatesLocally(t *testing.T) {
	notifier := &recordingNotifier{}
	users := &mockUserAPI{}
	s := newSessionStore(&mockAuthAPI{}, users, nil, notifier)

	err := s.ChangePassword(context.Background(), domain.PasswordChange{
		Current: "old-password",
		New:     "new-password",
		Confirm: "different",
	})
	require.Error(t, err)
	assert.NotEmpty(t, notifier.Errors())
}

func TestSession_UpgradePlanUpdatesUser(t *testing.T) {
	notifier := &recordingNotifier{}
	s := newSessionStore(&mockAuthAPI{}, &mockUserAPI{user: testUser()}, nil, notifier)
	require.NoError(t, s.Login(context.Background(), domain.Credentials{Email: "owner@acme.dev", Password: "hunter22"}))

	require.NoError(t, s.UpgradePlan(context.Background(), domain.SubscriptionPro))

	assert.Equal(t, domain.SubscriptionPro, s.User().Subscription)
	assert.Contains(t, notifier.Successes(), "Successfully upgraded to pro plan!")
}

func TestSession_ActionClearsPreviousError(t *testing.T) {
	auth := &mockAuthAPI{loginErr: &domain.APIError{Status: 401, Detail: "Invalid credentials"}}
	users := &mockUserAPI{user: testUser()}
	s := newSessionStore(auth, users, nil, nil)

	_ = s.Login(context.Background(), domain.Credentials{Email: "owner@acme.dev", Password: "wrong-pass"})
	require.NotEmpty(t, s.Err())

	auth.loginErr = nil
	require.NoError(t, s.Login(context.Background(), domain.Credentials{Email: "owner@acme.dev", Password: "hunter22"}))
	assert.Empty(t, s.Err())
}

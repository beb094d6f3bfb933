package store

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ascendhq/ascend-console-go/internal/domain"
	"github.com/ascendhq/ascend-console-go/internal/infra/observability"
	"github.com/ascendhq/ascend-console-go/internal/infra/resilience"
	"github.com/ascendhq/ascend-console-go/internal/port"

	"go.uber.org/zap"
)

// SessionStateKey names the persisted session document.
const SessionStateKey = "ascend-user"

// persistedSession is the subset of session state that survives a
// process restart. Loading/error flags never persist.
type persistedSession struct {
	User            *domain.User `json:"user"`
	IsAuthenticated bool         `json:"is_authenticated"`
}

// Session owns the authenticated user. It is the only component that
// mutates it; plan upgrades and profile edits go through here.
type Session struct {
	auth     port.AuthAPI
	users    port.UserAPI
	state    port.StateStore
	notifier port.Notifier
	metrics  *observability.Metrics
	logger   *zap.Logger
	retryCfg resilience.Config

	seq uint64 // monotonic fetch stamp, atomically issued

	mu              sync.Mutex
	applied         uint64
	user            *domain.User
	isAuthenticated bool
	loading         bool
	err             string
}

// NewSession builds the session store and warm-starts it from the
// persisted document, if any.
func NewSession(auth port.AuthAPI, users port.UserAPI, state port.StateStore, notifier port.Notifier, metrics *observability.Metrics, retryCfg resilience.Config, logger *zap.Logger) *Session {
	s := &Session{
		auth:     auth,
		users:    users,
		state:    state,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
		retryCfg: retryCfg,
	}

	var saved persistedSession
	if ok, err := state.Load(SessionStateKey, &saved); err != nil {
		logger.Warn("session: restore failed", zap.Error(err))
	} else if ok {
		s.user = saved.User
		s.isAuthenticated = saved.IsAuthenticated
	}
	return s
}

// User returns the current user, or nil when signed out.
func (s *Session) User() *domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// IsAuthenticated reports whether a session is established.
func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isAuthenticated
}

// Loading reports whether an action is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last action failure, display-ready. Empty when the
// last action succeeded.
func (s *Session) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ClearError resets the error field.
func (s *Session) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// begin clears the error, raises the loading flag and issues the
// sequence stamp for this action.
func (s *Session) begin() uint64 {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	return atomic.AddUint64(&s.seq, 1)
}

// fresh reports whether seq is still the newest applied response and
// records it as applied. Callers must hold mu.
func (s *Session) fresh(seq uint64) bool {
	if seq < s.applied {
		return false
	}
	s.applied = seq
	return true
}

func (s *Session) persistLocked() {
	if err := s.state.Save(SessionStateKey, persistedSession{User: s.user, IsAuthenticated: s.isAuthenticated}); err != nil {
		s.logger.Warn("session: persist failed", zap.Error(err))
	}
}

// Login authenticates and populates the user. On any failure the
// session is left signed out with the error field set.
func (s *Session) Login(ctx context.Context, creds domain.Credentials) error {
	ctx, span := tracer.Start(ctx, "Session.Login")
	defer span.End()

	if err := domain.Validate(creds); err != nil {
		s.setSignedOutErr(domain.ErrorDetail(err, "Login failed"))
		s.metrics.IncrStoreAction("session", "login", outcomeError)
		return err
	}

	seq := s.begin()

	err := s.auth.Login(ctx, creds)
	var user domain.User
	if err == nil {
		user, err = s.users.FetchUser(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if !s.fresh(seq) {
		return nil
	}
	if err != nil {
		s.user = nil
		s.isAuthenticated = false
		s.err = domain.ErrorDetail(err, "Login failed")
		s.persistLocked()
		s.metrics.IncrStoreAction("session", "login", outcomeError)
		return err
	}

	s.user = &user
	s.isAuthenticated = true
	s.persistLocked()
	s.metrics.IncrStoreAction("session", "login", outcomeOK)
	return nil
}

// Signup creates the account, then performs a regular login and user
// fetch. Failures leave the session signed out.
func (s *Session) Signup(ctx context.Context, form domain.SignupForm) error {
	ctx, span := tracer.Start(ctx, "Session.Signup")
	defer span.End()

	if err := domain.Validate(form); err != nil {
		s.setSignedOutErr(domain.ErrorDetail(err, "Signup failed"))
		s.metrics.IncrStoreAction("session", "signup", outcomeError)
		return err
	}

	seq := s.begin()

	err := s.auth.Signup(ctx, form)
	if err == nil {
		err = s.auth.Login(ctx, domain.Credentials{Email: form.Email, Password: form.Password})
	}
	var user domain.User
	if err == nil {
		user, err = s.users.FetchUser(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if !s.fresh(seq) {
		return nil
	}
	if err != nil {
		s.user = nil
		s.isAuthenticated = false
		s.err = domain.ErrorDetail(err, "Signup failed")
		s.persistLocked()
		s.metrics.IncrStoreAction("session", "signup", outcomeError)
		return err
	}

	s.user = &user
	s.isAuthenticated = true
	s.persistLocked()
	s.metrics.IncrStoreAction("session", "signup", outcomeOK)
	return nil
}

// Logout clears local state immediately. The server-side invalidation
// runs as a detached task; its failure is logged and never surfaces.
func (s *Session) Logout() {
	s.mu.Lock()
	s.user = nil
	s.isAuthenticated = false
	s.err = ""
	s.persistLocked()
	s.mu.Unlock()

	s.metrics.IncrStoreAction("session", "logout", outcomeOK)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		err := resilience.RetryWithBackoff(ctx, s.retryCfg, func() error {
			return s.auth.Logout(ctx)
		})
		if err != nil {
			s.logger.Warn("session: server logout failed", zap.Error(err))
		}
	}()
}

// FetchUser refreshes the user from the server. A failure signs the
// session out locally, since the cookie is evidently no longer good.
func (s *Session) FetchUser(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Session.FetchUser")
	defer span.End()

	seq := s.begin()
	user, err := s.users.FetchUser(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if !s.fresh(seq) {
		return nil
	}
	if err != nil {
		s.user = nil
		s.isAuthenticated = false
		s.err = domain.ErrorDetail(err, "Failed to fetch user")
		s.persistLocked()
		s.metrics.IncrStoreAction("session", "fetch_user", outcomeError)
		return err
	}

	s.user = &user
	s.isAuthenticated = true
	s.persistLocked()
	s.metrics.IncrStoreAction("session", "fetch_user", outcomeOK)
	return nil
}

// UpdateUser edits profile fields. Nil fields stay unchanged.
func (s *Session) UpdateUser(ctx context.Context, name, email *string) error {
	ctx, span := tracer.Start(ctx, "Session.UpdateUser")
	defer span.End()

	seq := s.begin()
	user, err := s.users.UpdateUser(ctx, name, email)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if !s.fresh(seq) {
		return nil
	}
	if err != nil {
		s.err = domain.ErrorDetail(err, "Failed to update profile")
		s.metrics.IncrStoreAction("session", "update_user", outcomeError)
		s.notifier.Error(s.err)
		return err
	}

	s.user = &user
	s.persistLocked()
	s.metrics.IncrStoreAction("session", "update_user", outcomeOK)
	s.notifier.Success("Profile updated successfully!")
	return nil
}

// UpdateNotificationPreferences replaces the four opt-in flags.
func (s *Session) UpdateNotificationPreferences(ctx context.Context, prefs domain.NotificationPreferences) error {
	ctx, span := tracer.Start(ctx, "Session.UpdateNotificationPreferences")
	defer span.End()

	seq := s.begin()
	err := s.users.UpdateNotificationPreferences(ctx, prefs)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if !s.fresh(seq) {
		return nil
	}
	if err != nil {
		s.err = domain.ErrorDetail(err, "Failed to update notification preferences")
		s.metrics.IncrStoreAction("session", "update_prefs", outcomeError)
		s.notifier.Error(s.err)
		return err
	}

	if s.user != nil {
		p := prefs
		s.user.Notifications = &p
		s.persistLocked()
	}
	s.metrics.IncrStoreAction("session", "update_prefs", outcomeOK)
	s.notifier.Success("Notification preferences saved.")
	return nil
}

// ChangePassword rotates the password after local validation of the
// length and confirmation match, so obviously bad input never makes a
// round-trip.
func (s *Session) ChangePassword(ctx context.Context, change domain.PasswordChange) error {
	ctx, span := tracer.Start(ctx, "Session.ChangePassword")
	defer span.End()

	if err := domain.Validate(change); err != nil {
		detail := domain.ErrorDetail(err, "Invalid password")
		s.setErr(detail)
		s.metrics.IncrStoreAction("session", "change_password", outcomeError)
		s.notifier.Error(detail)
		return err
	}

	seq := s.begin()
	err := s.users.ChangePassword(ctx, change)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if !s.fresh(seq) {
		return nil
	}
	if err != nil {
		s.err = domain.ErrorDetail(err, "Failed to change password")
		s.metrics.IncrStoreAction("session", "change_password", outcomeError)
		s.notifier.Error(s.err)
		return err
	}

	s.metrics.IncrStoreAction("session", "change_password", outcomeOK)
	s.notifier.Success("Password changed.")
	return nil
}

// UpgradePlan moves the account to a new subscription tier.
func (s *Session) UpgradePlan(ctx context.Context, plan domain.SubscriptionPlan) error {
	ctx, span := tracer.Start(ctx, "Session.UpgradePlan")
	defer span.End()

	seq := s.begin()
	user, err := s.users.UpgradePlan(ctx, plan)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if !s.fresh(seq) {
		return nil
	}
	if err != nil {
		s.err = domain.ErrorDetail(err, "Failed to upgrade plan")
		s.metrics.IncrStoreAction("session", "upgrade_plan", outcomeError)
		s.notifier.Error(s.err)
		return err
	}

	s.user = &user
	s.persistLocked()
	s.metrics.IncrStoreAction("session", "upgrade_plan", outcomeOK)
	s.notifier.Success(fmt.Sprintf("Successfully upgraded to %s plan!", plan))
	return nil
}

func (s *Session) setSignedOutErr(detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = nil
	s.isAuthenticated = false
	s.err = detail
}

func (s *Session) setErr(detail string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = detail
}

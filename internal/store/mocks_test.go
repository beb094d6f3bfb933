package store

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/ascendhq/ascend-console-go/internal/domain"
)

// memState is an in-memory StateStore for tests.
type memState struct {
	mu   sync.Mutex
	docs map[string][]byte
}

func newMemState() *memState {
	return &memState{docs: map[string][]byte{}}
}

func (m *memState) Save(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[key] = data
	return nil
}

func (m *memState) Load(key string, out any) (bool, error) {
	m.mu.Lock()
	data, ok := m.docs[key]
	m.mu.Unlock()
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, out)
}

func (m *memState) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, key)
	return nil
}

// recordingNotifier captures notifications for assertions.
type recordingNotifier struct {
	mu        sync.Mutex
	successes []string
	errors    []string
}

func (n *recordingNotifier) Success(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.successes = append(n.successes, msg)
}

func (n *recordingNotifier) Error(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors = append(n.errors, msg)
}

func (n *recordingNotifier) Successes() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.successes...)
}

func (n *recordingNotifier) Errors() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.errors...)
}

// mockAuthAPI scripts the auth endpoints.
type mockAuthAPI struct {
	loginErr  error
	signupErr error
	logoutErr error

	mu          sync.Mutex
	logins      int
	logoutCalls chan struct{}
}

func (m *mockAuthAPI) Login(ctx context.Context, creds domain.Credentials) error {
	m.mu.Lock()
	m.logins++
	m.mu.Unlock()
	return m.loginErr
}

func (m *mockAuthAPI) Signup(ctx context.Context, form domain.SignupForm) error {
	return m.signupErr
}

func (m *mockAuthAPI) Logout(ctx context.Context) error {
	if m.logoutCalls != nil {
		m.logoutCalls <- struct{}{}
	}
	return m.logoutErr
}

// mockUserAPI scripts the account endpoints.
type mockUserAPI struct {
	user       domain.User
	fetchErr   error
	updateErr  error
	prefsErr   error
	passwdErr  error
	upgradeErr error
}

func (m *mockUserAPI) FetchUser(ctx context.Context) (domain.User, error) {
	if m.fetchErr != nil {
		return domain.User{}, m.fetchErr
	}
	return m.user, nil
}

func (m *mockUserAPI) UpdateUser(ctx context.Context, name, email *string) (domain.User, error) {
	if m.updateErr != nil {
		return domain.User{}, m.updateErr
	}
	u := m.user
	if name != nil {
		u.Name = *name
	}
	if email != nil {
		u.Email = *email
	}
	return u, nil
}

func (m *mockUserAPI) UpdateNotificationPreferences(ctx context.Context, prefs domain.NotificationPreferences) error {
	return m.prefsErr
}

func (m *mockUserAPI) ChangePassword(ctx context.Context, change domain.PasswordChange) error {
	return m.passwdErr
}

func (m *mockUserAPI) UpgradePlan(ctx context.Context, plan domain.SubscriptionPlan) (domain.User, error) {
	if m.upgradeErr != nil {
		return domain.User{}, m.upgradeErr
	}
	u := m.user
	u.Subscription = plan
	return u, nil
}

// mockConsultationAPI scripts the consultation endpoints.
type mockConsultationAPI struct {
	mu        sync.Mutex
	list      []domain.Consultation
	listErr   error
	single    map[string]domain.Consultation
	singleErr error
	created   domain.Consultation
	createErr error
	updateErr error
	deleteErr error
	fbErr     error

	// onFeedback runs inside SubmitFeedback, before any scripted
	// error, so tests can observe mid-call store state.
	onFeedback func()

	deleted  []string
	feedback []string
}

func (m *mockConsultationAPI) ListConsultations(ctx context.Context) ([]domain.Consultation, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.list, nil
}

func (m *mockConsultationAPI) GetConsultation(ctx context.Context, id string) (domain.Consultation, error) {
	if m.singleErr != nil {
		return domain.Consultation{}, m.singleErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.single[id]
	if !ok {
		return domain.Consultation{}, &domain.APIError{Status: 404, Detail: "Consultation not found"}
	}
	return c, nil
}

func (m *mockConsultationAPI) CreateConsultation(ctx context.Context, form domain.ConsultationForm) (domain.Consultation, error) {
	if m.createErr != nil {
		return domain.Consultation{}, m.createErr
	}
	return m.created, nil
}

func (m *mockConsultationAPI) UpdateConsultation(ctx context.Context, id string, update domain.ConsultationUpdate) (domain.Consultation, error) {
	if m.updateErr != nil {
		return domain.Consultation{}, m.updateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	c := m.single[id]
	if update.BusinessName != nil {
		c.Business.Name = *update.BusinessName
	}
	if update.Industry != nil {
		c.Business.Industry = *update.Industry
	}
	if update.TargetRevenue != nil {
		v := *update.TargetRevenue
		c.Financial.TargetRevenue = &v
	}
	return c, nil
}

func (m *mockConsultationAPI) DeleteConsultation(ctx context.Context, id string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockConsultationAPI) SubmitFeedback(ctx context.Context, id string, form domain.FeedbackForm) error {
	if m.onFeedback != nil {
		m.onFeedback()
	}
	if m.fbErr != nil {
		return m.fbErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedback = append(m.feedback, id)
	return nil
}

// mockBillingAPI scripts the catalog endpoint and counts calls.
type mockBillingAPI struct {
	mu      sync.Mutex
	catalog domain.BillingCatalog
	err     error
	calls   int
}

func (m *mockBillingAPI) FetchPlans(ctx context.Context) (domain.BillingCatalog, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	if m.err != nil {
		return domain.BillingCatalog{}, m.err
	}
	return m.catalog, nil
}

func (m *mockBillingAPI) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

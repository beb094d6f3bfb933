// Package port defines the interfaces (ports) for external dependencies.
// Following hexagonal architecture, these ports decouple the stores
// from the concrete transport, storage and presentation adapters.
package port

import (
	"context"

	"github.com/ascendhq/ascend-console-go/internal/domain"
)

// AuthAPI covers the cookie-session auth endpoints.
type AuthAPI interface {
	Signup(ctx context.Context, form domain.SignupForm) error
	Login(ctx context.Context, creds domain.Credentials) error
	Logout(ctx context.Context) error
}

// UserAPI covers the account endpoints.
type UserAPI interface {
	FetchUser(ctx context.Context) (domain.User, error)
	UpdateUser(ctx context.Context, name, email *string) (domain.User, error)
	UpdateNotificationPreferences(ctx context.Context, prefs domain.NotificationPreferences) error
	ChangePassword(ctx context.Context, change domain.PasswordChange) error
	UpgradePlan(ctx context.Context, plan domain.SubscriptionPlan) (domain.User, error)
}

// ConsultationAPI covers the consultation endpoints.
type ConsultationAPI interface {
	ListConsultations(ctx context.Context) ([]domain.Consultation, error)
	GetConsultation(ctx context.Context, id string) (domain.Consultation, error)
	CreateConsultation(ctx context.Context, form domain.ConsultationForm) (domain.Consultation, error)
	UpdateConsultation(ctx context.Context, id string, update domain.ConsultationUpdate) (domain.Consultation, error)
	DeleteConsultation(ctx context.Context, id string) error
	SubmitFeedback(ctx context.Context, id string, form domain.FeedbackForm) error
}

// BillingAPI covers the plan catalog and upgrades.
type BillingAPI interface {
	FetchPlans(ctx context.Context) (domain.BillingCatalog, error)
}

// MetaAPI covers the reference-data endpoints backing the intake form.
type MetaAPI interface {
	Industries(ctx context.Context) ([]string, error)
	BusinessStages(ctx context.Context) ([]domain.StageOption, error)
	SuggestedGoals(ctx context.Context) ([]string, error)
	ConsultationPlans(ctx context.Context) ([]domain.ConsultationPlanInfo, error)
	Timezones(ctx context.Context) ([]domain.TimezoneOption, error)
	UnreadCount(ctx context.Context) (int, error)
}

// Notifier raises transient user-visible notifications. Mutation
// failures notify; read failures never do.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Cache provides generic caching with TTL.
type Cache[T any] interface {
	Get(key string) (T, bool)
	Set(key string, value T)
	Delete(key string)
}

// StateStore persists named documents across process restarts.
type StateStore interface {
	Save(key string, v any) error
	Load(key string, out any) (bool, error)
	Delete(key string) error
}

// NopNotifier discards notifications; the default when no terminal
// notifier is attached.
type NopNotifier struct{}

func (NopNotifier) Success(string) {}
func (NopNotifier) Error(string)   {}

package transform

import (
	"strings"
	"time"

	"github.com/ascendhq/ascend-console-go/internal/domain"
)

// User flattens a backend user record into the client entity.
// A missing notification-preference block stays nil so the UI can
// substitute its own defaults instead of inventing values here.
func User(w UserWire) domain.User {
	limit := -1 // absence means unlimited
	if w.ConsultationsLimit != nil {
		limit = *w.ConsultationsLimit
	}

	createdAt := time.Now()
	if w.CreatedAt != "" {
		createdAt = parseTime(w.CreatedAt)
	}

	u := domain.User{
		ID:                 w.ID,
		Email:              w.Email,
		Name:               w.Name,
		Image:              strDefault(w.Image),
		Subscription:       domain.SubscriptionPlan(strings.ToLower(strings.TrimSpace(w.Subscription))),
		ConsultationsUsed:  w.ConsultationsUsed,
		ConsultationsLimit: limit,
		Timezone:           w.Timezone,
		CreatedAt:          createdAt,
	}
	if w.Notifications != nil {
		u.Notifications = &domain.NotificationPreferences{
			EmailNotifications:  w.Notifications.EmailNotifications,
			MarketingEmails:     w.Notifications.MarketingEmails,
			ConsultationUpdates: w.Notifications.ConsultationUpdates,
			WeeklyDigest:        w.Notifications.WeeklyDigest,
		}
	}
	return u
}

// PrefsRequest shapes notification preferences for the update call.
func PrefsRequest(p domain.NotificationPreferences) PrefsWire {
	return PrefsWire{
		EmailNotifications:  p.EmailNotifications,
		MarketingEmails:     p.MarketingEmails,
		ConsultationUpdates: p.ConsultationUpdates,
		WeeklyDigest:        p.WeeklyDigest,
	}
}

package domain

import "time"

// ============================================================
// Session / User
// ============================================================

// NotificationPreferences are four independent opt-in flags.
type NotificationPreferences struct {
	EmailNotifications  bool `json:"email_notifications"`
	MarketingEmails     bool `json:"marketing_emails"`
	ConsultationUpdates bool `json:"consultation_updates"`
	WeeklyDigest        bool `json:"weekly_digest"`
}

// User is the authenticated account as seen by the console.
// ConsultationsLimit of -1 means unlimited.
type User struct {
	ID                 string                   `json:"id"`
	Email              string                   `json:"email"`
	Name               string                   `json:"name"`
	Image              string                   `json:"image,omitempty"`
	Subscription       SubscriptionPlan         `json:"subscription"`
	ConsultationsUsed  int                      `json:"consultations_used"`
	ConsultationsLimit int                      `json:"consultations_limit"`
	Timezone           string                   `json:"timezone,omitempty"`
	Notifications      *NotificationPreferences `json:"notification_preferences,omitempty"`
	CreatedAt          time.Time                `json:"created_at"`
}

// Unlimited reports whether the account has no consultation quota.
func (u *User) Unlimited() bool {
	return u != nil && u.ConsultationsLimit < 0
}

package api

import (
	"context"
	"net/http"

	"github.com/ascendhq/ascend-console-go/internal/domain"
	"github.com/ascendhq/ascend-console-go/internal/transform"
)

// FetchUser returns the current account, normalized.
func (c *Client) FetchUser(ctx context.Context) (domain.User, error) {
	var wire transform.UserWire
	if err := c.do(ctx, "FetchUser", http.MethodGet, "/api/user", nil, &wire); err != nil {
		return domain.User{}, err
	}
	return transform.User(wire), nil
}

// UpdateUser updates profile fields; nil fields are left unchanged.
func (c *Client) UpdateUser(ctx context.Context, name, email *string) (domain.User, error) {
	body := struct {
		Name  *string `json:"name,omitempty"`
		Email *string `json:"email,omitempty"`
	}{Name: name, Email: email}

	var wire transform.UserWire
	if err := c.do(ctx, "UpdateUser", http.MethodPut, "/api/user", body, &wire); err != nil {
		return domain.User{}, err
	}
	return transform.User(wire), nil
}

// UpdateNotificationPreferences replaces the four opt-in flags.
func (c *Client) UpdateNotificationPreferences(ctx context.Context, prefs domain.NotificationPreferences) error {
	return c.do(ctx, "UpdateNotificationPreferences", http.MethodPut, "/api/user/notifications", transform.PrefsRequest(prefs), nil)
}

// ChangePassword rotates the account password.
func (c *Client) ChangePassword(ctx context.Context, change domain.PasswordChange) error {
	body := struct {
		CurrentPassword string `json:"current_password"`
		NewPassword     string `json:"new_password"`
	}{CurrentPassword: change.Current, NewPassword: change.New}
	return c.do(ctx, "ChangePassword", http.MethodPut, "/api/user/password", body, nil)
}

// UpgradePlan moves the account to a new subscription tier and
// returns the updated user.
func (c *Client) UpgradePlan(ctx context.Context, plan domain.SubscriptionPlan) (domain.User, error) {
	body := struct {
		Plan string `json:"plan"`
	}{Plan: string(plan)}

	var wrapper struct {
		User transform.UserWire `json:"user"`
	}
	if err := c.do(ctx, "UpgradePlan", http.MethodPost, "/api/billing/upgrade", body, &wrapper); err != nil {
		return domain.User{}, err
	}
	return transform.User(wrapper.User), nil
}

package api

import (
	"context"
	"net/http"

	"github.com/ascendhq/ascend-console-go/internal/domain"
)

// Meta endpoints hand back the reference datasets that drive the
// intake form selectors. Each response is a named array wrapper.

// Industries lists the known industry names.
func (c *Client) Industries(ctx context.Context) ([]string, error) {
	var res struct {
		Industries []string `json:"industries"`
	}
	if err := c.do(ctx, "Industries", http.MethodGet, "/api/meta/industries", nil, &res); err != nil {
		return nil, err
	}
	return res.Industries, nil
}

// BusinessStages lists the stage selector options.
func (c *Client) BusinessStages(ctx context.Context) ([]domain.StageOption, error) {
	var res struct {
		Stages []domain.StageOption `json:"stages"`
	}
	if err := c.do(ctx, "BusinessStages", http.MethodGet, "/api/meta/business-stages", nil, &res); err != nil {
		return nil, err
	}
	return res.Stages, nil
}

// SuggestedGoals lists the canned goal suggestions.
func (c *Client) SuggestedGoals(ctx context.Context) ([]string, error) {
	var res struct {
		Goals []string `json:"goals"`
	}
	if err := c.do(ctx, "SuggestedGoals", http.MethodGet, "/api/meta/suggested-goals", nil, &res); err != nil {
		return nil, err
	}
	return res.Goals, nil
}

// ConsultationPlans lists the consultation-depth tiers for display.
func (c *Client) ConsultationPlans(ctx context.Context) ([]domain.ConsultationPlanInfo, error) {
	var res struct {
		Plans []domain.ConsultationPlanInfo `json:"plans"`
	}
	if err := c.do(ctx, "ConsultationPlans", http.MethodGet, "/api/meta/consultation-plans", nil, &res); err != nil {
		return nil, err
	}
	return res.Plans, nil
}

// Timezones lists the timezone selector options.
func (c *Client) Timezones(ctx context.Context) ([]domain.TimezoneOption, error) {
	var res struct {
		Timezones []domain.TimezoneOption `json:"timezones"`
	}
	if err := c.do(ctx, "Timezones", http.MethodGet, "/api/meta/timezones", nil, &res); err != nil {
		return nil, err
	}
	return res.Timezones, nil
}

// UnreadCount returns the number of unread notifications.
func (c *Client) UnreadCount(ctx context.Context) (int, error) {
	var res struct {
		Unread int `json:"unread"`
	}
	if err := c.do(ctx, "UnreadCount", http.MethodGet, "/api/notifications/unread-count", nil, &res); err != nil {
		return 0, err
	}
	return res.Unread, nil
}

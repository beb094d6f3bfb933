// Package transform holds the backend wire shapes and the pure
// mapping functions between them and the normalized domain entities.
// Request shaping and response normalization are independent
// functions; none of them keeps state.
package transform

import "encoding/json"

// ============================================================
// Wire shapes (backend JSON, snake_case)
// ============================================================

// BusinessWire is the nested business block of a consultation payload.
type BusinessWire struct {
	BusinessType    string   `json:"business_type"`
	BusinessStage   string   `json:"business_stage"`
	Location        *string  `json:"location"`
	TeamSize        *int     `json:"team_size"`
	MonthlyRevenue  *float64 `json:"monthly_revenue"`
	MonthlyExpenses *float64 `json:"monthly_expenses"`
	MainGoal        string   `json:"main_goal"`
	OtherGoals      []string `json:"other_goals"`
}

// VisualizationWire carries the optional chart series.
type VisualizationWire struct {
	RevenueProjection []RevenuePointWire   `json:"revenue_projection"`
	CashflowData      []CashflowPointWire  `json:"cashflow_data"`
	BreakEvenTimeline []BreakEvenPointWire `json:"break_even_timeline"`
	MarketAnalysis    []MarketSegmentWire  `json:"market_analysis"`
}

type RevenuePointWire struct {
	Month     string  `json:"month"`
	Projected float64 `json:"projected"`
	Current   float64 `json:"current"`
}

type CashflowPointWire struct {
	Month   string  `json:"month"`
	Inflow  float64 `json:"inflow"`
	Outflow float64 `json:"outflow"`
	Net     float64 `json:"net"`
}

type BreakEvenPointWire struct {
	Month         string  `json:"month"`
	Cumulative    float64 `json:"cumulative"`
	BreakEvenMark float64 `json:"break_even_point"`
}

type MarketSegmentWire struct {
	Segment string  `json:"segment"`
	Value   float64 `json:"value"`
}

// FeedbackWire is the feedback record attached by the backend.
type FeedbackWire struct {
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"created_at"`
}

// ConsultationWire is the full backend consultation record.
type ConsultationWire struct {
	ID                string             `json:"id"`
	UserID            string             `json:"user_id,omitempty"`
	Status            string             `json:"status"`
	CreatedAt         string             `json:"created_at"`
	UpdatedAt         string             `json:"updated_at,omitempty"`
	Business          BusinessWire       `json:"business"`
	PlanUsed          string             `json:"plan_used"`
	RefinedStrategy   string             `json:"refined_strategy"`
	RefinementCount   int                `json:"refinement_count"`
	BusinessName      *string            `json:"business_name"`
	Industry          *string            `json:"industry"`
	TargetRevenueUSD  *float64           `json:"target_revenue_usd"`
	VisualizationData *VisualizationWire `json:"visualization_data,omitempty"`
	ProcessingTime    *float64           `json:"processing_time,omitempty"`
	ModelUsed         string             `json:"model_used,omitempty"`
	Feedback          *FeedbackWire      `json:"feedback,omitempty"`
}

// ConsultationListWire accepts both shapes the backend has shipped for
// the bulk endpoint: a bare array and {"consultations": [...]}.
type ConsultationListWire struct {
	Items []ConsultationWire
}

func (l *ConsultationListWire) UnmarshalJSON(b []byte) error {
	var arr []ConsultationWire
	if err := json.Unmarshal(b, &arr); err == nil {
		l.Items = arr
		return nil
	}
	var wrapped struct {
		Consultations []ConsultationWire `json:"consultations"`
	}
	if err := json.Unmarshal(b, &wrapped); err != nil {
		return err
	}
	l.Items = wrapped.Consultations
	return nil
}

// ConsultationCreateWire is the create-consultation request body.
// Optional numerics are pointers so that "not provided" serializes as
// null instead of 0.
type ConsultationCreateWire struct {
	BusinessName      *string  `json:"business_name"`
	BusinessType      string   `json:"business_type"`
	BusinessStage     string   `json:"business_stage"`
	Industry          *string  `json:"industry"`
	Location          *string  `json:"location"`
	TeamSize          *int     `json:"team_size"`
	MonthlyRevenueUSD *float64 `json:"monthly_revenue_usd"`
	MonthlyExpenseUSD *float64 `json:"monthly_expenses_usd"`
	MainGoal          string   `json:"main_goal"`
	OtherGoals        []string `json:"other_goals"`
	TargetRevenueUSD  *float64 `json:"target_revenue_usd"`
	Plan              string   `json:"plan"`
}

// UserWire is the backend user record.
type UserWire struct {
	ID                 string     `json:"id"`
	Email              string     `json:"email"`
	Name               string     `json:"name"`
	Image              *string    `json:"image"`
	Subscription       string     `json:"subscription"`
	ConsultationsUsed  int        `json:"consultations_used"`
	ConsultationsLimit *int       `json:"consultations_limit"`
	CreatedAt          string     `json:"created_at,omitempty"`
	Timezone           string     `json:"timezone,omitempty"`
	Notifications      *PrefsWire `json:"notification_preferences,omitempty"`
}

// PrefsWire is the nested notification-preference block.
type PrefsWire struct {
	EmailNotifications  bool `json:"email_notifications"`
	MarketingEmails     bool `json:"marketing_emails"`
	ConsultationUpdates bool `json:"consultation_updates"`
	WeeklyDigest        bool `json:"weekly_digest"`
}

// BillingPlanWire is one catalog tier as served by the backend.
type BillingPlanWire struct {
	ID                    string   `json:"id"`
	Name                  string   `json:"name"`
	PriceMonthlyUSD       float64  `json:"price_monthly_usd"`
	ConsultationsPerMonth int      `json:"consultations_per_month"`
	MaxRefinements        int      `json:"max_refinements"`
	Features              []string `json:"features"`
	Badge                 string   `json:"badge,omitempty"`
}

// CatalogWire is the billing catalog response.
type CatalogWire struct {
	Plans        []BillingPlanWire           `json:"plans"`
	Matrix       []FeatureRowWire            `json:"feature_matrix"`
	MatrixValues map[string]PlanFeaturesWire `json:"feature_matrix_values"`
}

type FeatureRowWire struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type PlanFeaturesWire struct {
	AdvancedVisualizations bool `json:"advanced_visualizations"`
	PriorityProcessing     bool `json:"priority_processing"`
	ExportPDF              bool `json:"export_pdf"`
	CustomReports          bool `json:"custom_reports"`
	APIAccess              bool `json:"api_access"`
}

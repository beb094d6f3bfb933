// Package domain defines the normalized client-side entities for the
// Ascend console. These models are independent of the backend wire
// format and are the canonical shapes used by the stores and the UI.
package domain

import "time"

// ============================================================
// Vocabularies
// ============================================================

// ConsultationStatus is the consultation lifecycle state.
// processing -> completed | failed (terminal, server-driven).
type ConsultationStatus string

const (
	StatusProcessing ConsultationStatus = "processing"
	StatusCompleted  ConsultationStatus = "completed"
	StatusFailed     ConsultationStatus = "failed"
)

// BusinessType is the closed business-type vocabulary.
type BusinessType string

const (
	BusinessSaaS        BusinessType = "saas"
	BusinessEcommerce   BusinessType = "ecommerce"
	BusinessService     BusinessType = "service"
	BusinessMarketplace BusinessType = "marketplace"
	BusinessOther       BusinessType = "other"
)

// BusinessStage is the closed business-stage vocabulary.
type BusinessStage string

const (
	StageIdea        BusinessStage = "idea"
	StageStartup     BusinessStage = "startup"
	StageGrowth      BusinessStage = "growth"
	StageEstablished BusinessStage = "established"
	StageEnterprise  BusinessStage = "enterprise"
)

// ConsultationPlan is the analysis-depth tier of a single consultation.
// Distinct vocabulary from SubscriptionPlan.
type ConsultationPlan string

const (
	PlanBasic   ConsultationPlan = "basic"
	PlanPremium ConsultationPlan = "premium"
	PlanUltra   ConsultationPlan = "ultra"
)

// SubscriptionPlan is the account-level subscription tier.
type SubscriptionPlan string

const (
	SubscriptionFree       SubscriptionPlan = "free"
	SubscriptionStarter    SubscriptionPlan = "starter"
	SubscriptionPro        SubscriptionPlan = "pro"
	SubscriptionEnterprise SubscriptionPlan = "enterprise"
)

// PlanForSubscription derives the consultation depth from the account
// subscription. The user never picks the consultation plan directly.
func PlanForSubscription(sub SubscriptionPlan) ConsultationPlan {
	switch sub {
	case SubscriptionEnterprise:
		return PlanUltra
	case SubscriptionPro:
		return PlanPremium
	default:
		return PlanBasic
	}
}

// ============================================================
// Consultation
// ============================================================

// BusinessInfo is the business profile captured by the intake form.
type BusinessInfo struct {
	Name     string        `json:"name"`
	Type     BusinessType  `json:"type"`
	Stage    BusinessStage `json:"stage"`
	Location string        `json:"location"`
	TeamSize int           `json:"team_size"`
	Industry string        `json:"industry"`
}

// FinancialSnapshot holds the financial inputs of a consultation.
// TargetRevenue is nil when the user never provided one; zero and
// "unset" are different facts for the UI.
type FinancialSnapshot struct {
	MonthlyRevenue  float64  `json:"monthly_revenue"`
	MonthlyExpenses float64  `json:"monthly_expenses"`
	MainGoal        string   `json:"main_goal"`
	OtherGoals      []string `json:"other_goals"`
	TargetRevenue   *float64 `json:"target_revenue,omitempty"`
}

// Feedback is a one-shot rating left on a completed consultation.
type Feedback struct {
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

// RevenuePoint is one month of the revenue projection series.
type RevenuePoint struct {
	Month     string  `json:"month"`
	Projected float64 `json:"projected"`
	Current   float64 `json:"current"`
}

// CashflowPoint is one month of the cashflow series.
type CashflowPoint struct {
	Month   string  `json:"month"`
	Inflow  float64 `json:"inflow"`
	Outflow float64 `json:"outflow"`
	Net     float64 `json:"net"`
}

// BreakEvenPoint is one month of the break-even timeline.
type BreakEvenPoint struct {
	Month      string  `json:"month"`
	Cumulative float64 `json:"cumulative"`
	Threshold  float64 `json:"break_even_point"`
}

// MarketSegment is one slice of the market analysis chart.
type MarketSegment struct {
	Segment string  `json:"segment"`
	Value   float64 `json:"value"`
}

// VisualizationData holds the chart-ready series produced for a
// completed consultation. Absent while status != completed.
type VisualizationData struct {
	RevenueProjection []RevenuePoint   `json:"revenue_projection"`
	Cashflow          []CashflowPoint  `json:"cashflow"`
	BreakEvenTimeline []BreakEvenPoint `json:"break_even_timeline"`
	MarketAnalysis    []MarketSegment  `json:"market_analysis,omitempty"`
}

// Consultation is the normalized client-side consultation entity.
// Identity is always the backend-issued id; the client never invents one.
type Consultation struct {
	ID              string             `json:"id"`
	UserID          string             `json:"user_id"`
	CreatedAt       time.Time          `json:"created_at"`
	UpdatedAt       time.Time          `json:"updated_at"`
	Business        BusinessInfo       `json:"business"`
	Financial       FinancialSnapshot  `json:"financial"`
	Goal            string             `json:"goal"`
	Status          ConsultationStatus `json:"status"`
	Plan            ConsultationPlan   `json:"plan"`
	RefinedStrategy string             `json:"refined_strategy"`
	Visualization   *VisualizationData `json:"visualization,omitempty"`
	RefinementCount int                `json:"refinement_count"`
	ProcessingTime  *float64           `json:"processing_time,omitempty"`
	ModelUsed       string             `json:"model_used,omitempty"`
	Feedback        *Feedback          `json:"feedback,omitempty"`
}

// ConsultationUpdate is the set of fields editable after creation.
// Nil means "leave unchanged".
type ConsultationUpdate struct {
	BusinessName  *string
	Industry      *string
	TargetRevenue *float64
}

// IsProcessing reports whether the consultation is still being generated.
func (c *Consultation) IsProcessing() bool {
	return c != nil && c.Status == StatusProcessing
}

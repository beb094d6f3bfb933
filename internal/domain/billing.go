package domain

// ============================================================
// Billing catalog (read-only reference data)
// ============================================================

// BillingPlan is one subscription tier in the public catalog.
type BillingPlan struct {
	ID                    SubscriptionPlan `json:"id"`
	Name                  string           `json:"name"`
	PriceMonthlyUSD       float64          `json:"price_monthly_usd"`
	ConsultationsPerMonth int              `json:"consultations_per_month"`
	MaxRefinements        int              `json:"max_refinements"`
	Features              []string         `json:"features"`
	Badge                 string           `json:"badge,omitempty"`
}

// FeatureRow is one ordered row of the plan-comparison matrix.
type FeatureRow struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// PlanFeatures is the per-plan value lookup for the comparison matrix.
type PlanFeatures struct {
	AdvancedVisualizations bool `json:"advanced_visualizations"`
	PriorityProcessing     bool `json:"priority_processing"`
	ExportPDF              bool `json:"export_pdf"`
	CustomReports          bool `json:"custom_reports"`
	APIAccess              bool `json:"api_access"`
}

// BillingCatalog is the ordered plan list plus the feature matrix.
// Invariant: the plan ids keyed in MatrixValues match the ids in Plans.
type BillingCatalog struct {
	Plans        []BillingPlan                     `json:"plans"`
	Matrix       []FeatureRow                      `json:"feature_matrix"`
	MatrixValues map[SubscriptionPlan]PlanFeatures `json:"feature_matrix_values"`
}

// Plan returns the catalog entry for the given tier, if present.
func (c *BillingCatalog) Plan(id SubscriptionPlan) (BillingPlan, bool) {
	for _, p := range c.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return BillingPlan{}, false
}

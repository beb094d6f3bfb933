package domain

// ============================================================
// Reference data (meta endpoints) and notifications
// ============================================================

// StageOption is a value/label pair for the business-stage selector.
type StageOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// TimezoneOption is a value/label pair for the timezone selector.
type TimezoneOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// ConsultationPlanInfo describes one consultation-depth tier as
// presented during intake. PriceUSD is per consultation.
type ConsultationPlanInfo struct {
	ID          ConsultationPlan `json:"id"`
	Name        string           `json:"name"`
	PriceUSD    float64          `json:"price_usd"`
	Description string           `json:"description"`
	Features    []string         `json:"features"`
	Popular     bool             `json:"popular"`
}

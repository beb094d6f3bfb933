package transform

import (
	"strings"
	"time"

	"github.com/ascendhq/ascend-console-go/internal/domain"
)

// parseTime accepts the timestamp formats the backend has shipped:
// RFC3339 and bare dates.
func parseTime(s string) time.Time {
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		t, _ = time.Parse("2006-01-02", s)
	}
	return t
}

// NormalizeBusinessType coerces a backend business type into the
// closed vocabulary. Known keywords map onto their tier; anything
// unrecognized becomes "other".
func NormalizeBusinessType(raw string) domain.BusinessType {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "saas", "ecommerce", "service", "marketplace", "other":
		return domain.BusinessType(s)
	}
	switch {
	case strings.Contains(s, "saas"), strings.Contains(s, "software"):
		return domain.BusinessSaaS
	case strings.Contains(s, "ecommerce"), strings.Contains(s, "e-commerce"), strings.Contains(s, "retail"):
		return domain.BusinessEcommerce
	case strings.Contains(s, "service"), strings.Contains(s, "consulting"):
		return domain.BusinessService
	case strings.Contains(s, "marketplace"), strings.Contains(s, "platform"):
		return domain.BusinessMarketplace
	}
	return domain.BusinessOther
}

// NormalizeBusinessStage coerces a backend stage into the closed
// vocabulary. The legacy value "mature" maps to "established";
// anything else unrecognized defaults to "startup".
func NormalizeBusinessStage(raw string) domain.BusinessStage {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "idea", "startup", "growth", "established", "enterprise":
		return domain.BusinessStage(s)
	case "mature":
		return domain.StageEstablished
	}
	return domain.StageStartup
}

// NormalizePlan coerces a backend consultation plan; unrecognized
// values default to "basic".
func NormalizePlan(raw string) domain.ConsultationPlan {
	s := strings.ToLower(strings.TrimSpace(raw))
	switch s {
	case "basic", "premium", "ultra":
		return domain.ConsultationPlan(s)
	}
	return domain.PlanBasic
}

// Consultation normalizes a backend consultation record into the flat
// client entity. Absent numerics default to 0, except the target
// revenue which stays nil so the UI can distinguish "unset" from zero.
func Consultation(w ConsultationWire) domain.Consultation {
	createdAt := parseTime(w.CreatedAt)
	updatedAt := createdAt
	if w.UpdatedAt != "" {
		updatedAt = parseTime(w.UpdatedAt)
	}

	name := "Unnamed Business"
	if w.BusinessName != nil && *w.BusinessName != "" {
		name = *w.BusinessName
	}

	c := domain.Consultation{
		ID:        w.ID,
		UserID:    w.UserID,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
		Business: domain.BusinessInfo{
			Name:     name,
			Type:     NormalizeBusinessType(w.Business.BusinessType),
			Stage:    NormalizeBusinessStage(w.Business.BusinessStage),
			Location: strDefault(w.Business.Location),
			TeamSize: intDefault(w.Business.TeamSize),
			Industry: strDefault(w.Industry),
		},
		Financial: domain.FinancialSnapshot{
			MonthlyRevenue:  floatDefault(w.Business.MonthlyRevenue),
			MonthlyExpenses: floatDefault(w.Business.MonthlyExpenses),
			MainGoal:        w.Business.MainGoal,
			OtherGoals:      w.Business.OtherGoals,
			TargetRevenue:   w.TargetRevenueUSD,
		},
		Goal:            w.Business.MainGoal,
		Status:          domain.ConsultationStatus(w.Status),
		Plan:            NormalizePlan(w.PlanUsed),
		RefinedStrategy: w.RefinedStrategy,
		RefinementCount: w.RefinementCount,
		ProcessingTime:  w.ProcessingTime,
		ModelUsed:       w.ModelUsed,
	}
	if c.Financial.OtherGoals == nil {
		c.Financial.OtherGoals = []string{}
	}

	if w.VisualizationData != nil {
		c.Visualization = visualization(w.VisualizationData)
	}
	if w.Feedback != nil {
		c.Feedback = &domain.Feedback{
			Rating:    w.Feedback.Rating,
			Comment:   w.Feedback.Comment,
			CreatedAt: parseTime(w.Feedback.CreatedAt),
		}
	}
	return c
}

// ConsultationList normalizes every record of a bulk response.
func ConsultationList(w ConsultationListWire) []domain.Consultation {
	out := make([]domain.Consultation, 0, len(w.Items))
	for _, item := range w.Items {
		out = append(out, Consultation(item))
	}
	return out
}

func visualization(w *VisualizationWire) *domain.VisualizationData {
	v := &domain.VisualizationData{
		RevenueProjection: make([]domain.RevenuePoint, 0, len(w.RevenueProjection)),
		Cashflow:          make([]domain.CashflowPoint, 0, len(w.CashflowData)),
		BreakEvenTimeline: make([]domain.BreakEvenPoint, 0, len(w.BreakEvenTimeline)),
	}
	for _, p := range w.RevenueProjection {
		v.RevenueProjection = append(v.RevenueProjection, domain.RevenuePoint(p))
	}
	for _, p := range w.CashflowData {
		v.Cashflow = append(v.Cashflow, domain.CashflowPoint(p))
	}
	for _, p := range w.BreakEvenTimeline {
		v.BreakEvenTimeline = append(v.BreakEvenTimeline, domain.BreakEvenPoint{
			Month:      p.Month,
			Cumulative: p.Cumulative,
			Threshold:  p.BreakEvenMark,
		})
	}
	for _, s := range w.MarketAnalysis {
		v.MarketAnalysis = append(v.MarketAnalysis, domain.MarketSegment(s))
	}
	return v
}

// CreateRequest shapes the intake form into the create request body.
// Optional numerics left at 0 are sent as null ("not provided"), all
// free text is trimmed, and an empty business name becomes null.
func CreateRequest(f domain.ConsultationForm) ConsultationCreateWire {
	goals := f.OtherGoals
	if goals == nil {
		goals = []string{}
	}
	return ConsultationCreateWire{
		BusinessName:      optString(f.BusinessName),
		BusinessType:      string(f.BusinessType),
		BusinessStage:     string(f.BusinessStage),
		Industry:          optString(f.Industry),
		Location:          optString(f.Location),
		TeamSize:          optInt(f.TeamSize),
		MonthlyRevenueUSD: optFloat(f.MonthlyRevenue),
		MonthlyExpenseUSD: optFloat(f.MonthlyExpenses),
		MainGoal:          strings.TrimSpace(f.MainGoal),
		OtherGoals:        goals,
		TargetRevenueUSD:  optFloat(f.TargetRevenue),
		Plan:              string(f.Plan),
	}
}

// UpdateRequest shapes a partial edit. Nil fields stay out of the
// body entirely; a provided-but-empty value is sent as an explicit
// null so the backend clears the stored field.
func UpdateRequest(u domain.ConsultationUpdate) map[string]any {
	body := map[string]any{}
	if u.BusinessName != nil {
		body["business_name"] = nullable(strings.TrimSpace(*u.BusinessName))
	}
	if u.Industry != nil {
		body["industry"] = nullable(strings.TrimSpace(*u.Industry))
	}
	if u.TargetRevenue != nil {
		if *u.TargetRevenue > 0 {
			body["target_revenue_usd"] = *u.TargetRevenue
		} else {
			body["target_revenue_usd"] = nil
		}
	}
	return body
}

// --- small helpers ---

func strDefault(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intDefault(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}

func floatDefault(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}

// optString trims s and returns nil when nothing remains.
func optString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// optInt treats 0 as "not provided".
func optInt(i int) *int {
	if i <= 0 {
		return nil
	}
	return &i
}

// optFloat treats 0 as "not provided".
func optFloat(f float64) *float64 {
	if f <= 0 {
		return nil
	}
	return &f
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

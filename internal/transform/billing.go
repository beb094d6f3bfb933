package transform

import (
	"fmt"
	"sort"

	"github.com/ascendhq/ascend-console-go/internal/domain"
)

// Catalog normalizes the billing catalog response. Plan order and
// matrix row order are preserved as served; the catalog is read-only
// reference data.
func Catalog(w CatalogWire) domain.BillingCatalog {
	c := domain.BillingCatalog{
		Plans:        make([]domain.BillingPlan, 0, len(w.Plans)),
		Matrix:       make([]domain.FeatureRow, 0, len(w.Matrix)),
		MatrixValues: make(map[domain.SubscriptionPlan]domain.PlanFeatures, len(w.MatrixValues)),
	}
	for _, p := range w.Plans {
		c.Plans = append(c.Plans, domain.BillingPlan{
			ID:                    domain.SubscriptionPlan(p.ID),
			Name:                  p.Name,
			PriceMonthlyUSD:       p.PriceMonthlyUSD,
			ConsultationsPerMonth: p.ConsultationsPerMonth,
			MaxRefinements:        p.MaxRefinements,
			Features:              p.Features,
			Badge:                 p.Badge,
		})
	}
	for _, row := range w.Matrix {
		c.Matrix = append(c.Matrix, domain.FeatureRow(row))
	}
	for id, v := range w.MatrixValues {
		c.MatrixValues[domain.SubscriptionPlan(id)] = domain.PlanFeatures(v)
	}
	return c
}

// ValidateCatalog checks the catalog contract: the plan ids present in
// the feature-matrix values must exactly match the ids in the plan
// list. A mismatch means the backend shipped an inconsistent catalog.
func ValidateCatalog(c domain.BillingCatalog) error {
	listed := make(map[domain.SubscriptionPlan]bool, len(c.Plans))
	for _, p := range c.Plans {
		if listed[p.ID] {
			return fmt.Errorf("billing catalog: duplicate plan id %q", p.ID)
		}
		listed[p.ID] = true
	}

	var missing, extra []string
	for id := range listed {
		if _, ok := c.MatrixValues[id]; !ok {
			missing = append(missing, string(id))
		}
	}
	for id := range c.MatrixValues {
		if !listed[id] {
			extra = append(extra, string(id))
		}
	}
	sort.Strings(missing)
	sort.Strings(extra)

	if len(missing) > 0 || len(extra) > 0 {
		return fmt.Errorf("billing catalog: feature matrix mismatch (missing %v, extra %v)", missing, extra)
	}
	return nil
}

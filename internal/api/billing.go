package api

import (
	"context"
	"net/http"

	"github.com/ascendhq/ascend-console-go/internal/domain"
	"github.com/ascendhq/ascend-console-go/internal/transform"

	"go.uber.org/zap"
)

// FetchPlans returns the public billing catalog. A catalog whose
// feature matrix disagrees with the plan list is still served, since
// the backend owns the contract, but the violation is logged.
func (c *Client) FetchPlans(ctx context.Context) (domain.BillingCatalog, error) {
	var wire transform.CatalogWire
	if err := c.do(ctx, "FetchPlans", http.MethodGet, "/api/billing/plans", nil, &wire); err != nil {
		return domain.BillingCatalog{}, err
	}

	catalog := transform.Catalog(wire)
	if err := transform.ValidateCatalog(catalog); err != nil {
		c.logger.Warn("api: billing catalog contract violation", zap.Error(err))
	}
	return catalog, nil
}

package transform

import (
	"testing"

	"github.com/ascendhq/ascend-console-go/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCatalogWire() CatalogWire {
	return CatalogWire{
		Plans: []BillingPlanWire{
			{ID: "free", Name: "Free", PriceMonthlyUSD: 0, ConsultationsPerMonth: 1},
			{ID: "pro", Name: "Pro", PriceMonthlyUSD: 29, ConsultationsPerMonth: 10, Badge: "Popular"},
		},
		Matrix: []FeatureRowWire{{Key: "export_pdf", Label: "PDF export"}},
		MatrixValues: map[string]PlanFeaturesWire{
			"free": {},
			"pro":  {ExportPDF: true, PriorityProcessing: true},
		},
	}
}

func TestCatalog_PreservesPlanOrder(t *testing.T) {
	c := Catalog(validCatalogWire())

	require.Len(t, c.Plans, 2)
	assert.Equal(t, domain.SubscriptionFree, c.Plans[0].ID)
	assert.Equal(t, domain.SubscriptionPro, c.Plans[1].ID)
	assert.Equal(t, "Popular", c.Plans[1].Badge)
	assert.True(t, c.MatrixValues[domain.SubscriptionPro].ExportPDF)
}

func TestValidateCatalog(t *testing.T) {
	c := Catalog(validCatalogWire())
	assert.NoError(t, ValidateCatalog(c))

	t.Run("missing matrix entry", func(t *testing.T) {
		bad := Catalog(validCatalogWire())
		delete(bad.MatrixValues, domain.SubscriptionPro)
		err := ValidateCatalog(bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pro")
	})

	t.Run("extra matrix entry", func(t *testing.T) {
		bad := Catalog(validCatalogWire())
		bad.MatrixValues[domain.SubscriptionEnterprise] = domain.PlanFeatures{}
		err := ValidateCatalog(bad)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "enterprise")
	})

	t.Run("duplicate plan id", func(t *testing.T) {
		bad := Catalog(validCatalogWire())
		bad.Plans = append(bad.Plans, bad.Plans[0])
		assert.Error(t, ValidateCatalog(bad))
	})
}

package store

import (
	"context"
	"sync"
	"testing"

	"github.com/ascendhq/ascend-console-go/internal/domain"
	"github.com/ascendhq/ascend-console-go/internal/infra/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testCatalog() domain.BillingCatalog {
	return domain.BillingCatalog{
		Plans: []domain.BillingPlan{
			{ID: domain.SubscriptionFree, Name: "Free", ConsultationsPerMonth: 1},
			{ID: domain.SubscriptionPro, Name: "Pro", PriceMonthlyUSD: 29, ConsultationsPerMonth: 10},
		},
		Matrix: []domain.FeatureRow{{Key: "export_pdf", Label: "PDF export"}},
		MatrixValues: map[domain.SubscriptionPlan]domain.PlanFeatures{
			domain.SubscriptionFree: {},
			domain.SubscriptionPro:  {ExportPDF: true},
		},
	}
}

func TestBilling_FetchPlansCachesCatalog(t *testing.T) {
	api := &mockBillingAPI{catalog: testCatalog()}
	s := NewBilling(api, observability.NewMetrics(), zap.NewNop())

	c1, err := s.FetchPlans(context.Background())
	require.NoError(t, err)
	require.NotNil(t, c1)
	assert.Len(t, c1.Plans, 2)

	c2, err := s.FetchPlans(context.Background())
	require.NoError(t, err)
	assert.Equal(t, c1.Plans, c2.Plans)
	assert.Equal(t, 1, api.Calls(), "second fetch must come from the cached catalog")
}

func TestBilling_FetchPlansFailure(t *testing.T) {
	api := &mockBillingAPI{err: &domain.APIError{Status: 503, Detail: "catalog unavailable"}}
	s := NewBilling(api, observability.NewMetrics(), zap.NewNop())

	_, err := s.FetchPlans(context.Background())
	require.Error(t, err)
	assert.Equal(t, "catalog unavailable", s.Err())
	assert.Nil(t, s.Catalog())

	// a later retry recovers and clears the error
	api.err = nil
	api.catalog = testCatalog()
	c, err := s.FetchPlans(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, c)
	assert.Empty(t, s.Err())
}

func TestBilling_ConcurrentFetchesShareOneRequest(t *testing.T) {
	api := &mockBillingAPI{catalog: testCatalog()}
	s := NewBilling(api, observability.NewMetrics(), zap.NewNop())

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.FetchPlans(context.Background())
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, api.Calls(), 2, "concurrent fetches should collapse")
	assert.NotNil(t, s.Catalog())
}

func TestBilling_CatalogLookup(t *testing.T) {
	c := testCatalog()
	p, ok := c.Plan(domain.SubscriptionPro)
	require.True(t, ok)
	assert.Equal(t, 29.0, p.PriceMonthlyUSD)

	_, ok = c.Plan(domain.SubscriptionEnterprise)
	assert.False(t, ok)
}

package store

import (
	"context"
	"sync"

	"github.com/ascendhq/ascend-console-go/internal/domain"
	"github.com/ascendhq/ascend-console-go/internal/infra/observability"
	"github.com/ascendhq/ascend-console-go/internal/port"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// Billing holds the pricing catalog. The catalog is static per
// session, so concurrent fetches are collapsed into one request and
// a populated catalog is served without another round trip.
type Billing struct {
	api     port.BillingAPI
	metrics *observability.Metrics
	logger  *zap.Logger

	group singleflight.Group

	mu      sync.Mutex
	catalog *domain.BillingCatalog
	loading bool
	err     string
}

func NewBilling(api port.BillingAPI, metrics *observability.Metrics, logger *zap.Logger) *Billing {
	return &Billing{api: api, metrics: metrics, logger: logger}
}

// Catalog returns the cached catalog, or nil before the first
// successful fetch.
func (s *Billing) Catalog() *domain.BillingCatalog {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.catalog == nil {
		return nil
	}
	c := *s.catalog
	return &c
}

// Loading reports whether a catalog fetch is in flight.
func (s *Billing) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last fetch failure, display-ready.
func (s *Billing) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ClearError resets the error field.
func (s *Billing) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

// FetchPlans loads the catalog. A catalog already in hand is returned
// immediately; otherwise concurrent callers share one request.
func (s *Billing) FetchPlans(ctx context.Context) (*domain.BillingCatalog, error) {
	ctx, span := tracer.Start(ctx, "Billing.FetchPlans")
	defer span.End()

	s.mu.Lock()
	if s.catalog != nil {
		c := *s.catalog
		s.mu.Unlock()
		s.metrics.IncrCacheHit("billing")
		return &c, nil
	}
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	s.metrics.IncrCacheMiss("billing")

	v, err, _ := s.group.Do("catalog", func() (any, error) {
		return s.api.FetchPlans(ctx)
	})

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if err != nil {
		s.err = domain.ErrorDetail(err, "Failed to fetch billing plans")
		s.metrics.IncrStoreAction("billing", "fetch_plans", outcomeError)
		return nil, err
	}

	catalog := v.(domain.BillingCatalog)
	s.catalog = &catalog
	s.metrics.IncrStoreAction("billing", "fetch_plans", outcomeOK)
	c := catalog
	return &c, nil
}

package store

import (
	"context"

	"github.com/ascendhq/ascend-console-go/internal/domain"
	"github.com/ascendhq/ascend-console-go/internal/infra/observability"
	"github.com/ascendhq/ascend-console-go/internal/port"
)

// Meta serves the reference data behind the intake form (industries,
// stages, goal suggestions, consultation plans, timezones). The lists
// change rarely, so results go through a TTL cache; on a miss the
// backend is asked and the HTTP error classification surfaces as-is.
type Meta struct {
	api     port.MetaAPI
	cache   port.Cache[any]
	metrics *observability.Metrics
}

func NewMeta(api port.MetaAPI, cache port.Cache[any], metrics *observability.Metrics) *Meta {
	return &Meta{api: api, cache: cache, metrics: metrics}
}

// cached runs the cache-aside pattern for one reference list.
func cached[T any](ctx context.Context, s *Meta, key string, fetch func(context.Context) (T, error)) (T, error) {
	if v, ok := s.cache.Get(key); ok {
		if typed, ok := v.(T); ok {
			s.metrics.IncrCacheHit("meta")
			return typed, nil
		}
	}
	s.metrics.IncrCacheMiss("meta")

	out, err := fetch(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	s.cache.Set(key, out)
	return out, nil
}

func (s *Meta) Industries(ctx context.Context) ([]string, error) {
	return cached(ctx, s, "meta:industries", s.api.Industries)
}

func (s *Meta) BusinessStages(ctx context.Context) ([]domain.StageOption, error) {
	return cached(ctx, s, "meta:stages", s.api.BusinessStages)
}

func (s *Meta) SuggestedGoals(ctx context.Context) ([]string, error) {
	return cached(ctx, s, "meta:goals", s.api.SuggestedGoals)
}

func (s *Meta) ConsultationPlans(ctx context.Context) ([]domain.ConsultationPlanInfo, error) {
	return cached(ctx, s, "meta:plans", s.api.ConsultationPlans)
}

func (s *Meta) Timezones(ctx context.Context) ([]domain.TimezoneOption, error) {
	return cached(ctx, s, "meta:timezones", s.api.Timezones)
}

// UnreadCount is live data and bypasses the cache.
func (s *Meta) UnreadCount(ctx context.Context) (int, error) {
	return s.api.UnreadCount(ctx)
}

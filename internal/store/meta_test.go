package store

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ascendhq/ascend-console-go/internal/domain"
	"github.com/ascendhq/ascend-console-go/internal/infra/cache"
	"github.com/ascendhq/ascend-console-go/internal/infra/observability"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockMetaAPI struct {
	mu    sync.Mutex
	calls map[string]int
	err   error
}

func newMockMetaAPI() *mockMetaAPI {
	return &mockMetaAPI{calls: map[string]int{}}
}

func (m *mockMetaAPI) count(endpoint string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls[endpoint]++
}

func (m *mockMetaAPI) Industries(ctx context.Context) ([]string, error) {
	m.count("industries")
	if m.err != nil {
		return nil, m.err
	}
	return []string{"Technology", "Retail"}, nil
}

func (m *mockMetaAPI) BusinessStages(ctx context.Context) ([]domain.StageOption, error) {
	m.count("stages")
	return []domain.StageOption{{Value: "idea", Label: "Idea"}}, nil
}

func (m *mockMetaAPI) SuggestedGoals(ctx context.Context) ([]string, error) {
	m.count("goals")
	return []string{"Increase revenue"}, nil
}

func (m *mockMetaAPI) ConsultationPlans(ctx context.Context) ([]domain.ConsultationPlanInfo, error) {
	m.count("plans")
	return []domain.ConsultationPlanInfo{{ID: domain.PlanBasic, Name: "Basic"}}, nil
}

func (m *mockMetaAPI) Timezones(ctx context.Context) ([]domain.TimezoneOption, error) {
	m.count("timezones")
	return []domain.TimezoneOption{{Value: "UTC", Label: "UTC"}}, nil
}

func (m *mockMetaAPI) UnreadCount(ctx context.Context) (int, error) {
	m.count("unread")
	return 2, nil
}

func newMetaStore(api *mockMetaAPI) *Meta {
	return NewMeta(api, cache.New[any](time.Minute), observability.NewMetrics())
}

func TestMeta_SecondReadHitsCache(t *testing.T) {
	api := newMockMetaAPI()
	s := newMetaStore(api)

	first, err := s.Industries(context.Background())
	require.NoError(t, err)
	second, err := s.Industries(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, api.calls["industries"])
}

func TestMeta_FailureIsNotCached(t *testing.T) {
	api := newMockMetaAPI()
	api.err = &domain.APIError{Status: 500, Detail: "boom"}
	s := newMetaStore(api)

	_, err := s.Industries(context.Background())
	require.Error(t, err)

	api.err = nil
	out, err := s.Industries(context.Background())
	require.NoError(t, err)
	assert.Len(t, out, 2)
	assert.Equal(t, 2, api.calls["industries"])
}

func TestMeta_EndpointsCacheIndependently(t *testing.T) {
	api := newMockMetaAPI()
	s := newMetaStore(api)

	_, err := s.BusinessStages(context.Background())
	require.NoError(t, err)
	_, err = s.Timezones(context.Background())
	require.NoError(t, err)
	_, err = s.BusinessStages(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, api.calls["stages"])
	assert.Equal(t, 1, api.calls["timezones"])
}

func TestMeta_UnreadCountBypassesCache(t *testing.T) {
	api := newMockMetaAPI()
	s := newMetaStore(api)

	for i := 0; i < 3; i++ {
		n, err := s.UnreadCount(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 2, n)
	}
	assert.Equal(t, 3, api.calls["unread"])
}

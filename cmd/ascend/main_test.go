package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ascendhq/ascend-console-go/internal/domain"
	"github.com/ascendhq/ascend-console-go/internal/infra/observability"
	"github.com/ascendhq/ascend-console-go/internal/infra/resilience"
	"github.com/ascendhq/ascend-console-go/internal/infra/state"
	"github.com/ascendhq/ascend-console-go/internal/port"
	"github.com/ascendhq/ascend-console-go/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubConsultationAPI records the form the create command dispatches.
type stubConsultationAPI struct {
	port.ConsultationAPI
	got domain.ConsultationForm
}

func (s *stubConsultationAPI) CreateConsultation(ctx context.Context, form domain.ConsultationForm) (domain.Consultation, error) {
	s.got = form
	return domain.Consultation{ID: "c-1", Status: domain.StatusProcessing}, nil
}

type stubUserAPI struct {
	port.UserAPI
	user domain.User
}

func (s *stubUserAPI) FetchUser(ctx context.Context) (domain.User, error) {
	return s.user, nil
}

func newCreateApp(t *testing.T, subscription domain.SubscriptionPlan) (*app, *stubConsultationAPI) {
	t.Helper()
	st, err := state.New(t.TempDir(), zap.NewNop())
	require.NoError(t, err)

	users := &stubUserAPI{user: domain.User{
		ID:           "u-1",
		Email:        "founder@acme.test",
		Subscription: subscription,
	}}
	consultations := &stubConsultationAPI{}
	metrics := observability.NewMetrics()

	return &app{
		logger:        zap.NewNop(),
		metrics:       metrics,
		session:       store.NewSession(nil, users, st, port.NopNotifier{}, metrics, resilience.Config{}, zap.NewNop()),
		consultations: store.NewConsultations(consultations, st, port.NopNotifier{}, metrics, zap.NewNop()),
	}, consultations
}

func writeIntakeFile(t *testing.T, body string) string {
	t.Helper()
	file := filepath.Join(t.TempDir(), "intake.json")
	require.NoError(t, os.WriteFile(file, []byte(body), 0o644))
	return file
}

func TestCmdCreate_DerivesPlanFromSubscription(t *testing.T) {
	a, api := newCreateApp(t, domain.SubscriptionPro)
	file := writeIntakeFile(t, `{
		"business_name": "Acme",
		"business_type": "saas",
		"business_stage": "growth",
		"main_goal": "scale"
	}`)

	require.NoError(t, a.cmdCreate(context.Background(), []string{"-file", file}))
	assert.Equal(t, domain.PlanPremium, api.got.Plan)
}

func TestCmdCreate_IgnoresFileSuppliedPlan(t *testing.T) {
	a, api := newCreateApp(t, domain.SubscriptionFree)
	file := writeIntakeFile(t, `{
		"business_name": "Acme",
		"business_type": "saas",
		"business_stage": "growth",
		"main_goal": "scale",
		"plan": "ultra"
	}`)

	require.NoError(t, a.cmdCreate(context.Background(), []string{"-file", file}))
	assert.Equal(t, domain.PlanBasic, api.got.Plan, "a free account must not buy its way to ultra via the intake file")
}

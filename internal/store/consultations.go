package store

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ascendhq/ascend-console-go/internal/domain"
	"github.com/ascendhq/ascend-console-go/internal/infra/observability"
	"github.com/ascendhq/ascend-console-go/internal/port"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// ConsultationsStateKey names the persisted consultation document.
const ConsultationsStateKey = "ascend-consultations"

type persistedConsultations struct {
	Consultations []domain.Consultation `json:"consultations"`
}

// Consultations owns the local consultation collection and the
// currently viewed consultation. List order is newest-first by
// construction: creates prepend, bulk fetches replace wholesale.
type Consultations struct {
	api      port.ConsultationAPI
	state    port.StateStore
	notifier port.Notifier
	metrics  *observability.Metrics
	logger   *zap.Logger

	seq uint64

	mu      sync.Mutex
	applied uint64
	items   []domain.Consultation
	current *domain.Consultation
	loading bool
	err     string
}

// NewConsultations builds the store and warm-starts the list from the
// persisted document, if any.
func NewConsultations(api port.ConsultationAPI, state port.StateStore, notifier port.Notifier, metrics *observability.Metrics, logger *zap.Logger) *Consultations {
	s := &Consultations{
		api:      api,
		state:    state,
		notifier: notifier,
		metrics:  metrics,
		logger:   logger,
	}

	var saved persistedConsultations
	if ok, err := state.Load(ConsultationsStateKey, &saved); err != nil {
		logger.Warn("consultations: restore failed", zap.Error(err))
	} else if ok {
		s.items = saved.Consultations
	}
	return s
}

// All returns a copy of the local list, newest first.
func (s *Consultations) All() []domain.Consultation {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Consultation, len(s.items))
	copy(out, s.items)
	return out
}

// Current returns the currently viewed consultation, or nil.
func (s *Consultations) Current() *domain.Consultation {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	c := *s.current
	return &c
}

// Loading reports whether an action is in flight.
func (s *Consultations) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// Err returns the last action failure, display-ready.
func (s *Consultations) Err() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// ClearError resets the error field.
func (s *Consultations) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = ""
}

func (s *Consultations) begin() uint64 {
	s.mu.Lock()
	s.loading = true
	s.err = ""
	s.mu.Unlock()
	return atomic.AddUint64(&s.seq, 1)
}

// fresh reports whether seq is still the newest applied response.
// Callers must hold mu.
func (s *Consultations) fresh(seq uint64) bool {
	if seq < s.applied {
		return false
	}
	s.applied = seq
	return true
}

func (s *Consultations) persistLocked() {
	if err := s.state.Save(ConsultationsStateKey, persistedConsultations{Consultations: s.items}); err != nil {
		s.logger.Warn("consultations: persist failed", zap.Error(err))
	}
}

// patchLocked replaces the list entry with c's id in place, keeping
// list order. Entries the list does not hold are not inserted; the
// list's membership is owned by the bulk fetch and create/delete.
func (s *Consultations) patchLocked(c domain.Consultation) {
	for i := range s.items {
		if s.items[i].ID == c.ID {
			s.items[i] = c
			return
		}
	}
}

// FetchConsultations replaces the whole local list with the server
// result, with no merge. A 404 means "no consultations yet" and yields an
// empty list without an error; any other failure sets the error field
// and leaves the prior list untouched.
func (s *Consultations) FetchConsultations(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Consultations.FetchConsultations")
	defer span.End()

	seq := s.begin()
	items, err := s.api.ListConsultations(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if !s.fresh(seq) {
		return nil
	}
	if domain.IsNotFound(err) {
		items, err = []domain.Consultation{}, nil
	}
	if err != nil {
		s.err = domain.ErrorDetail(err, "Failed to fetch consultations")
		s.metrics.IncrStoreAction("consultations", "fetch_all", outcomeError)
		return err
	}

	s.items = items
	s.persistLocked()
	s.metrics.IncrStoreAction("consultations", "fetch_all", outcomeOK)
	return nil
}

// FetchConsultationByID populates the current consultation and, when
// the id is already in the local list, refreshes that entry in place
// so the list and detail views stay consistent after a poll-driven
// refresh. A 404 yields (nil, nil): "not found" is not a failure.
func (s *Consultations) FetchConsultationByID(ctx context.Context, id string) (*domain.Consultation, error) {
	ctx, span := tracer.Start(ctx, "Consultations.FetchConsultationByID")
	defer span.End()
	span.SetAttributes(attribute.String("consultation.id", id))

	seq := s.begin()
	c, err := s.api.GetConsultation(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if !s.fresh(seq) {
		return nil, nil
	}
	if domain.IsNotFound(err) {
		s.current = nil
		s.metrics.IncrStoreAction("consultations", "fetch_one", outcomeOK)
		return nil, nil
	}
	if err != nil {
		s.current = nil
		s.err = domain.ErrorDetail(err, "Failed to fetch consultation")
		s.metrics.IncrStoreAction("consultations", "fetch_one", outcomeError)
		return nil, err
	}

	s.current = &c
	s.patchLocked(c)
	s.persistLocked()
	s.metrics.IncrStoreAction("consultations", "fetch_one", outcomeOK)
	out := c
	return &out, nil
}

// CreateConsultation validates, shapes and submits the intake form.
// On success the new entity (status processing) is prepended to the
// list and becomes current; its backend-issued id is returned. The
// error is returned as-is so the intake view can stay on the form.
func (s *Consultations) CreateConsultation(ctx context.Context, form domain.ConsultationForm) (string, error) {
	ctx, span := tracer.Start(ctx, "Consultations.CreateConsultation")
	defer span.End()

	if err := domain.Validate(form); err != nil {
		detail := domain.ErrorDetail(err, "Failed to create consultation")
		s.mu.Lock()
		s.err = detail
		s.mu.Unlock()
		s.metrics.IncrStoreAction("consultations", "create", outcomeError)
		s.notifier.Error(detail)
		return "", err
	}

	seq := s.begin()
	c, err := s.api.CreateConsultation(ctx, form)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if !s.fresh(seq) {
		return "", nil
	}
	if err != nil {
		s.err = domain.ErrorDetail(err, "Failed to create consultation")
		s.metrics.IncrStoreAction("consultations", "create", outcomeError)
		s.notifier.Error(s.err)
		return "", err
	}

	s.items = append([]domain.Consultation{c}, s.items...)
	s.current = &c
	s.persistLocked()
	s.metrics.IncrStoreAction("consultations", "create", outcomeOK)
	return c.ID, nil
}

// UpdateConsultation sends a partial edit and patches the list entry
// and the current consultation when they hold the id.
func (s *Consultations) UpdateConsultation(ctx context.Context, id string, update domain.ConsultationUpdate) error {
	ctx, span := tracer.Start(ctx, "Consultations.UpdateConsultation")
	defer span.End()
	span.SetAttributes(attribute.String("consultation.id", id))

	seq := s.begin()
	c, err := s.api.UpdateConsultation(ctx, id, update)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if !s.fresh(seq) {
		return nil
	}
	if err != nil {
		s.err = domain.ErrorDetail(err, "Failed to update consultation")
		s.metrics.IncrStoreAction("consultations", "update", outcomeError)
		s.notifier.Error(s.err)
		return err
	}

	s.patchLocked(c)
	if s.current != nil && s.current.ID == id {
		s.current = &c
	}
	s.persistLocked()
	s.metrics.IncrStoreAction("consultations", "update", outcomeOK)
	return nil
}

// DeleteConsultation removes the consultation server-side and from
// the local list; the current consultation is cleared when it held
// the deleted id, untouched otherwise.
func (s *Consultations) DeleteConsultation(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "Consultations.DeleteConsultation")
	defer span.End()
	span.SetAttributes(attribute.String("consultation.id", id))

	seq := s.begin()
	err := s.api.DeleteConsultation(ctx, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if !s.fresh(seq) {
		return nil
	}
	if err != nil {
		s.err = domain.ErrorDetail(err, "Failed to delete consultation")
		s.metrics.IncrStoreAction("consultations", "delete", outcomeError)
		s.notifier.Error(s.err)
		return err
	}

	kept := s.items[:0]
	for _, c := range s.items {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	s.items = kept
	if s.current != nil && s.current.ID == id {
		s.current = nil
	}
	s.persistLocked()
	s.metrics.IncrStoreAction("consultations", "delete", outcomeOK)
	s.notifier.Success("Consultation deleted successfully")
	return nil
}

// SubmitFeedback validates and sends the rating, then re-fetches the
// consultation so the server-confirmed feedback record (with its
// timestamp) lands in both the list entry and the current view. The
// error is returned as-is so the feedback form can react.
func (s *Consultations) SubmitFeedback(ctx context.Context, id string, form domain.FeedbackForm) error {
	ctx, span := tracer.Start(ctx, "Consultations.SubmitFeedback")
	defer span.End()
	span.SetAttributes(attribute.String("consultation.id", id))

	if err := domain.Validate(form); err != nil {
		detail := domain.ErrorDetail(err, "Failed to submit feedback")
		s.mu.Lock()
		s.err = detail
		s.mu.Unlock()
		s.metrics.IncrStoreAction("consultations", "feedback", outcomeError)
		s.notifier.Error(detail)
		return err
	}

	seq := s.begin()

	err := s.api.SubmitFeedback(ctx, id, form)
	var refreshed domain.Consultation
	fetched := false
	if err == nil {
		refreshed, err = s.api.GetConsultation(ctx, id)
		if domain.IsNotFound(err) {
			// Feedback landed but the record vanished; nothing to patch.
			err = nil
		} else if err == nil {
			fetched = true
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = false
	if !s.fresh(seq) {
		return nil
	}
	if err != nil {
		s.err = domain.ErrorDetail(err, "Failed to submit feedback")
		s.metrics.IncrStoreAction("consultations", "feedback", outcomeError)
		s.notifier.Error(s.err)
		return err
	}

	if fetched {
		s.patchLocked(refreshed)
		if s.current != nil && s.current.ID == id {
			s.current = &refreshed
		}
		s.persistLocked()
	}
	s.metrics.IncrStoreAction("consultations", "feedback", outcomeOK)
	return nil
}

// Package poll drives periodic refreshes of consultations stuck in
// the processing state until the backend finishes them.
package poll

import (
	"context"
	"time"

	"github.com/ascendhq/ascend-console-go/internal/domain"
	"github.com/ascendhq/ascend-console-go/internal/infra/observability"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

// DefaultInterval is how often a processing consultation is re-fetched.
const DefaultInterval = 3 * time.Second

// Fetcher re-loads one consultation; (nil, nil) means not found.
type Fetcher interface {
	FetchConsultationByID(ctx context.Context, id string) (*domain.Consultation, error)
}

// Watcher re-fetches a consultation on a fixed tick while it stays in
// the processing state. One watcher handles one consultation id.
type Watcher struct {
	fetcher  Fetcher
	clock    clockwork.Clock
	interval time.Duration
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewWatcher builds a watcher. A nil clock defaults to the wall clock;
// a non-positive interval defaults to DefaultInterval.
func NewWatcher(fetcher Fetcher, clock clockwork.Clock, interval time.Duration, metrics *observability.Metrics, logger *zap.Logger) *Watcher {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Watcher{
		fetcher:  fetcher,
		clock:    clock,
		interval: interval,
		metrics:  metrics,
		logger:   logger,
	}
}

// Watch polls the consultation until it leaves the processing state,
// disappears, a fetch fails, or the context is cancelled. The final
// observed consultation is returned; nil when it was not found or the
// last fetch failed. At most one fetch is in flight at a time: each
// refresh completes before the next tick is waited on.
func (w *Watcher) Watch(ctx context.Context, id string) (*domain.Consultation, error) {
	ticker := w.clock.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.Chan():
		}
		w.metrics.IncrPollTick()

		c, err := w.fetcher.FetchConsultationByID(ctx, id)
		if err != nil {
			w.logger.Warn("poll: refresh failed, stopping",
				zap.String("consultation_id", id), zap.Error(err))
			return nil, err
		}
		if c == nil {
			w.logger.Info("poll: consultation gone, stopping",
				zap.String("consultation_id", id))
			return nil, nil
		}
		if !c.IsProcessing() {
			w.logger.Info("poll: consultation settled",
				zap.String("consultation_id", id),
				zap.String("status", string(c.Status)))
			return c, nil
		}
	}
}

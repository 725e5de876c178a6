package workers

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Refresher reloads a listing view from its collection.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// RefreshWorker keeps a pipeline current by refreshing it on a ticker or on demand.
type RefreshWorker struct {
	target    Refresher
	logger    *zap.Logger
	triggerCh chan struct{}

	runs     atomic.Int64
	failures atomic.Int64
}

func NewRefreshWorker(target Refresher, logger *zap.Logger) *RefreshWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RefreshWorker{
		target:    target,
		logger:    logger.Named("refresh"),
		triggerCh: make(chan struct{}, 1),
	}
}

// Trigger causes the worker to refresh immediately. Triggers that arrive while
// one is already pending are coalesced.
func (w *RefreshWorker) Trigger() {
	select {
	case w.triggerCh <- struct{}{}:
	default:
	}
}

// Run refreshes once, then on every tick and trigger until ctx is done.
// An interval of zero disables the ticker.
func (w *RefreshWorker) Run(ctx context.Context, interval time.Duration) {
	var tick <-chan time.Time
	if interval > 0 {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	w.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("Refresh worker stopping",
				zap.Int64("runs", w.runs.Load()),
				zap.Int64("failures", w.failures.Load()),
			)
			return
		case <-tick:
			w.refresh(ctx)
		case <-w.triggerCh:
			w.logger.Debug("Refresh worker triggered manually")
			w.refresh(ctx)
		}
	}
}

func (w *RefreshWorker) refresh(ctx context.Context) {
	start := time.Now()
	w.runs.Add(1)
	if err := w.target.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		w.failures.Add(1)
		w.logger.Warn("Refresh failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		return
	}
	w.logger.Debug("Refresh complete", zap.Duration("took", time.Since(start)))
}

// Stats returns how many refreshes ran and how many failed.
func (w *RefreshWorker) Stats() (runs, failures int64) {
	return w.runs.Load(), w.failures.Load()
}

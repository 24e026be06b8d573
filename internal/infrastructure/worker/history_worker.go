package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"realtrade/internal/application"
	"realtrade/internal/domain"
	"realtrade/internal/infrastructure/logx"

	"go.uber.org/zap"
)

var (
	_ application.Recorder = (*HistoryWorker)(nil)
	_ application.Worker   = (*HistoryWorker)(nil)
)

// HistoryWorker appends history records from a buffered queue so that
// store latency and failures never reach the quote path.
type HistoryWorker struct {
	store   application.HistoryStore
	jobs    chan domain.HistoryRecord
	timeout time.Duration
	log     *zap.Logger

	availability atomic.Value
	stopped      chan struct{}
	appended     atomic.Int64
	failed       atomic.Int64
}

// NewHistoryWorker buffers up to size records. timeout bounds each append;
// zero leaves appends bounded only by the worker context.
func NewHistoryWorker(store application.HistoryStore, size int, timeout time.Duration) *HistoryWorker {
	if size <= 0 {
		size = 1
	}
	w := &HistoryWorker{
		store:   store,
		jobs:    make(chan domain.HistoryRecord, size),
		timeout: timeout,
		log:     logx.L().With(zap.String("worker", "history")),
		stopped: make(chan struct{}),
	}
	w.availability.Store(domain.StoreUnknown)
	return w
}

func (w *HistoryWorker) Record(rec domain.HistoryRecord) bool {
	select {
	case w.jobs <- rec:
		return true
	default:
		return false
	}
}

func (w *HistoryWorker) Availability() domain.StoreAvailability {
	return w.availability.Load().(domain.StoreAvailability)
}

// Probe refreshes Availability from a cheap store query.
func (w *HistoryWorker) Probe(ctx context.Context) domain.StoreAvailability {
	c, cancel := w.withTimeout(ctx)
	defer cancel()
	err := w.store.Probe(c)
	a := domain.AvailabilityFromErr(err)
	w.availability.Store(a)
	if err != nil {
		w.log.Warn("history.probe_failed", zap.String("availability", string(a)), zap.Error(err))
	}
	return a
}

// Start consumes the queue until ctx is canceled, then drains what is
// already buffered using a context detached from ctx's cancellation.
// Start must be called at most once.
func (w *HistoryWorker) Start(ctx context.Context) {
	defer close(w.stopped)
	w.log.Info("history_worker.start", zap.Int("queue", cap(w.jobs)))
	for {
		select {
		case <-ctx.Done():
			w.drain(context.WithoutCancel(ctx))
			w.log.Info("history_worker.stop",
				zap.Int64("appended", w.appended.Load()),
				zap.Int64("failed", w.failed.Load()))
			return
		case rec := <-w.jobs:
			w.processOne(ctx, rec)
		}
	}
}

// Wait blocks until Start has returned.
func (w *HistoryWorker) Wait() { <-w.stopped }

func (w *HistoryWorker) drain(ctx context.Context) {
	for {
		select {
		case rec := <-w.jobs:
			w.processOne(ctx, rec)
		default:
			return
		}
	}
}

func (w *HistoryWorker) processOne(ctx context.Context, rec domain.HistoryRecord) {
	log := w.log.With(zap.String("pair", rec.PairCode.String()))
	defer func() {
		if r := recover(); r != nil {
			w.failed.Add(1)
			log.Error("history_worker.panic", zap.String("r", fmt.Sprint(r)))
		}
	}()

	c, cancel := w.withTimeout(ctx)
	defer cancel()
	id, err := w.store.Append(c, rec)
	w.availability.Store(domain.AvailabilityFromErr(err))
	if err != nil {
		w.failed.Add(1)
		kind, _ := domain.StoreKind(err)
		log.Warn("history.append_failed", zap.String("kind", string(kind)), zap.Error(err))
		return
	}
	w.appended.Add(1)
	log.Debug("history.appended", zap.String("id", id))
}

func (w *HistoryWorker) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.timeout > 0 {
		return context.WithTimeout(ctx, w.timeout)
	}
	return ctx, func() {}
}

package application

import (
	"context"
	"sync"

	"realtrade/internal/domain"
	"realtrade/internal/infrastructure/logx"

	"go.uber.org/zap"
)

type HistoryState string

const (
	HistoryLoading   HistoryState = "loading"
	HistoryError     HistoryState = "error"
	HistoryEmpty     HistoryState = "empty"
	HistoryPopulated HistoryState = "populated"
	HistoryDisabled  HistoryState = "disabled"
)

const HistoryFailedMessage = "Erro ao carregar histórico"

type HistorySnapshot struct {
	State        HistoryState
	Records      []domain.HistoryRecord
	Error        string
	Availability domain.StoreAvailability
}

// HistoryView lists the most recent history records. Every Load or Refresh
// queries the store; nothing is cached between calls. Listing errors are
// surfaced as the Error state so the user can retry.
type HistoryView struct {
	store HistoryStore
	limit int
	log   *zap.Logger

	mu           sync.Mutex
	state        HistoryState
	records      []domain.HistoryRecord
	errMsg       string
	availability domain.StoreAvailability
}

// NewHistoryView builds a view over store. A nil store yields a disabled view.
func NewHistoryView(store HistoryStore, limit int) *HistoryView {
	v := &HistoryView{
		store:        store,
		limit:        domain.ClampHistoryLimit(limit),
		log:          logx.L(),
		state:        HistoryLoading,
		availability: domain.StoreUnknown,
	}
	if store == nil {
		v.state = HistoryDisabled
		v.availability = domain.StoreDisabled
	}
	return v
}

// Load is called when the view is first shown.
func (v *HistoryView) Load(ctx context.Context) HistorySnapshot {
	if v.store == nil {
		return v.Snapshot()
	}
	v.mu.Lock()
	v.state = HistoryLoading
	v.mu.Unlock()

	recs, err := v.store.ListRecent(ctx, v.limit)
	return v.apply(recs, err)
}

// Refresh re-issues the same query as Load.
func (v *HistoryView) Refresh(ctx context.Context) HistorySnapshot { return v.Load(ctx) }

// LoadPair lists recent records of one pair without touching the view state.
func (v *HistoryView) LoadPair(ctx context.Context, pair domain.Pair) HistorySnapshot {
	if v.store == nil {
		return HistorySnapshot{State: HistoryDisabled, Availability: domain.StoreDisabled}
	}
	recs, err := v.store.ListByPair(ctx, pair, v.limit)
	return v.detached("history.list_pair_failed", recs, err)
}

// Recent lists up to limit records without touching the view state.
func (v *HistoryView) Recent(ctx context.Context, limit int) HistorySnapshot {
	if v.store == nil {
		return HistorySnapshot{State: HistoryDisabled, Availability: domain.StoreDisabled}
	}
	recs, err := v.store.ListRecent(ctx, domain.ClampHistoryLimit(limit))
	return v.detached("history.list_failed", recs, err)
}

func (v *HistoryView) detached(event string, recs []domain.HistoryRecord, err error) HistorySnapshot {
	if err != nil {
		kind, _ := domain.StoreKind(err)
		v.log.Warn(event, zap.String("kind", string(kind)), zap.Error(err))
		return HistorySnapshot{State: HistoryError, Error: HistoryFailedMessage, Availability: domain.AvailabilityFromErr(err)}
	}
	return HistorySnapshot{State: stateFor(recs), Records: recs, Availability: domain.StoreAvailable}
}

func (v *HistoryView) apply(recs []domain.HistoryRecord, err error) HistorySnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.availability = domain.AvailabilityFromErr(err)
	if err != nil {
		kind, _ := domain.StoreKind(err)
		v.log.Warn("history.list_failed", zap.String("kind", string(kind)), zap.Error(err))
		v.state = HistoryError
		v.errMsg = HistoryFailedMessage
		v.records = nil
		return v.snapshotLocked()
	}
	v.errMsg = ""
	v.records = recs
	v.state = stateFor(recs)
	return v.snapshotLocked()
}

func stateFor(recs []domain.HistoryRecord) HistoryState {
	if len(recs) == 0 {
		return HistoryEmpty
	}
	return HistoryPopulated
}

func (v *HistoryView) Snapshot() HistorySnapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snapshotLocked()
}

func (v *HistoryView) snapshotLocked() HistorySnapshot {
	out := HistorySnapshot{State: v.state, Error: v.errMsg, Availability: v.availability}
	if len(v.records) > 0 {
		out.Records = append([]domain.HistoryRecord(nil), v.records...)
	}
	return out
}

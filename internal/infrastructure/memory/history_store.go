package memory

import (
	"context"
	"sort"
	"sync"

	"realtrade/internal/application"
	"realtrade/internal/domain"

	"github.com/google/uuid"
)

var _ application.HistoryStore = (*HistoryStore)(nil)

// HistoryStore keeps history records in process memory.
type HistoryStore struct {
	stamper *application.Stamper

	mu      sync.RWMutex
	records []domain.HistoryRecord
}

func NewHistoryStore(clock application.Clock) *HistoryStore {
	return &HistoryStore{stamper: application.NewStamper(clock)}
}

func (s *HistoryStore) Append(_ context.Context, rec domain.HistoryRecord) (string, error) {
	rec.ID = uuid.NewString()
	s.mu.Lock()
	rec.RecordedAt = s.stamper.Stamp()
	s.records = append(s.records, rec)
	s.mu.Unlock()
	return rec.ID, nil
}

func (s *HistoryStore) ListRecent(_ context.Context, limit int) ([]domain.HistoryRecord, error) {
	return s.list(limit, func(domain.HistoryRecord) bool { return true }), nil
}

func (s *HistoryStore) ListByPair(_ context.Context, pair domain.Pair, limit int) ([]domain.HistoryRecord, error) {
	return s.list(limit, func(r domain.HistoryRecord) bool { return r.PairCode == pair }), nil
}

func (s *HistoryStore) Probe(context.Context) error { return nil }

func (s *HistoryStore) list(limit int, keep func(domain.HistoryRecord) bool) []domain.HistoryRecord {
	limit = domain.ClampHistoryLimit(limit)
	s.mu.RLock()
	out := make([]domain.HistoryRecord, 0, limit)
	for i := len(s.records) - 1; i >= 0 && len(out) < limit; i-- {
		if keep(s.records[i]) {
			out = append(out, s.records[i])
		}
	}
	s.mu.RUnlock()
	sort.SliceStable(out, func(i, j int) bool { return out[i].RecordedAt.After(out[j].RecordedAt) })
	return out
}

package redisstore

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"

	"realtrade/internal/application"
	"realtrade/internal/domain"
	"realtrade/internal/infrastructure/historydoc"
	"realtrade/internal/infrastructure/logx"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var _ application.HistoryStore = (*HistoryStore)(nil)

const DefaultKey = "quotation_history"

// HistoryStore keeps history documents in sorted sets scored by
// RecordedAt in unix microseconds: one set for all pairs and one per pair.
type HistoryStore struct {
	Client  *redis.Client
	Key     string
	stamper *application.Stamper
}

func New(client *redis.Client, clock application.Clock) *HistoryStore {
	return &HistoryStore{Client: client, Key: DefaultKey, stamper: application.NewStamper(clock)}
}

func (s *HistoryStore) pairKey(p domain.Pair) string { return s.Key + ":" + p.Key() }

func (s *HistoryStore) Append(ctx context.Context, rec domain.HistoryRecord) (string, error) {
	rec.ID = uuid.NewString()
	rec.RecordedAt = s.stamper.Stamp()
	doc, err := historydoc.Marshal(rec)
	if err != nil {
		return "", domain.NewStoreError("append", domain.StoreErrUnknown, err)
	}
	member := redis.Z{Score: float64(rec.RecordedAt.UnixMicro()), Member: string(doc)}
	_, err = s.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.ZAdd(ctx, s.Key, member)
		p.ZAdd(ctx, s.pairKey(rec.PairCode), member)
		return nil
	})
	if err != nil {
		logx.WithFields(ctx).Error("redis.append_failed", zap.String("pair", rec.PairCode.String()), zap.Error(err))
		return "", classify("append", err)
	}
	return rec.ID, nil
}

func (s *HistoryStore) ListRecent(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	return s.list(ctx, "list_recent", s.Key, limit)
}

func (s *HistoryStore) ListByPair(ctx context.Context, pair domain.Pair, limit int) ([]domain.HistoryRecord, error) {
	return s.list(ctx, "list_by_pair", s.pairKey(pair), limit)
}

func (s *HistoryStore) Probe(ctx context.Context) error {
	return classify("probe", s.Client.Ping(ctx).Err())
}

func (s *HistoryStore) list(ctx context.Context, op, key string, limit int) ([]domain.HistoryRecord, error) {
	limit = domain.ClampHistoryLimit(limit)
	members, err := s.Client.ZRevRange(ctx, key, 0, int64(limit-1)).Result()
	if err != nil {
		logx.WithFields(ctx).Error("redis.list_failed", zap.String("key", key), zap.Error(err))
		return nil, classify(op, err)
	}
	out := make([]domain.HistoryRecord, 0, len(members))
	for _, m := range members {
		rec, err := historydoc.Unmarshal([]byte(m))
		if err != nil {
			return nil, domain.NewStoreError(op, domain.StoreErrUnknown, fmt.Errorf("member: %w", err))
		}
		out = append(out, rec)
	}
	return out, nil
}

func classify(op string, err error) error {
	if err == nil {
		return nil
	}
	return domain.NewStoreError(op, kindOf(err), err)
}

func kindOf(err error) domain.StoreErrorKind {
	msg := err.Error()
	for _, prefix := range []string{"NOAUTH", "WRONGPASS", "NOPERM"} {
		if strings.HasPrefix(msg, prefix) {
			return domain.StoreErrPermissionDenied
		}
	}
	if errors.Is(err, redis.ErrClosed) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return domain.StoreErrUnavailable
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return domain.StoreErrUnavailable
	}
	if strings.HasPrefix(msg, "LOADING") {
		return domain.StoreErrUnavailable
	}
	return domain.StoreErrUnknown
}

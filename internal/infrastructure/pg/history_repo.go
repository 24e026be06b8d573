package pg

import (
	"context"
	"errors"
	"fmt"
	"time"

	"realtrade/internal/application"
	"realtrade/internal/domain"
	"realtrade/internal/infrastructure/historydoc"
	"realtrade/internal/infrastructure/logx"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var _ application.HistoryStore = (*HistoryRepo)(nil)

// HistoryRepo stores history records as JSONB documents in quotation_history.
type HistoryRepo struct {
	db      *DB
	stamper *application.Stamper
}

func NewHistoryRepo(db *DB, clock application.Clock) *HistoryRepo {
	return &HistoryRepo{db: db, stamper: application.NewStamper(clock)}
}

func (r *HistoryRepo) Append(ctx context.Context, rec domain.HistoryRecord) (string, error) {
	rec.RecordedAt = r.stamper.Stamp()
	doc, err := historydoc.Marshal(rec)
	if err != nil {
		return "", domain.NewStoreError("append", domain.StoreErrUnknown, err)
	}
	const ins = `
        INSERT INTO quotation_history(pair_code, recorded_at, document)
        VALUES ($1, $2, $3)
        RETURNING id::text`
	log := logx.WithFields(ctx).With(
		zap.String("repo", "history"),
		zap.String("operation", "Append"),
		zap.String("pair", rec.PairCode.String()),
	)
	var id string
	if err := r.db.Pool.QueryRow(ctx, ins, string(rec.PairCode), rec.RecordedAt, doc).Scan(&id); err != nil {
		log.Error("sql.exec_failed", zap.Error(err))
		return "", classify("append", err)
	}
	log.Debug("sql.exec_success", zap.String("id", id))
	return id, nil
}

func (r *HistoryRepo) ListRecent(ctx context.Context, limit int) ([]domain.HistoryRecord, error) {
	const q = `
        SELECT id::text, recorded_at, document
        FROM quotation_history
        ORDER BY recorded_at DESC
        LIMIT $1`
	return r.query(ctx, "list_recent", q, domain.ClampHistoryLimit(limit))
}

func (r *HistoryRepo) ListByPair(ctx context.Context, pair domain.Pair, limit int) ([]domain.HistoryRecord, error) {
	const q = `
        SELECT id::text, recorded_at, document
        FROM quotation_history
        WHERE pair_code = $2
        ORDER BY recorded_at DESC
        LIMIT $1`
	return r.query(ctx, "list_by_pair", q, domain.ClampHistoryLimit(limit), string(pair))
}

func (r *HistoryRepo) Probe(ctx context.Context) error {
	var one int
	err := r.db.Pool.QueryRow(ctx, `SELECT 1 FROM quotation_history LIMIT 1`).Scan(&one)
	if err == nil || errors.Is(err, pgx.ErrNoRows) {
		return nil
	}
	return classify("probe", err)
}

func (r *HistoryRepo) query(ctx context.Context, op, q string, args ...any) ([]domain.HistoryRecord, error) {
	log := logx.WithFields(ctx).With(zap.String("repo", "history"), zap.String("operation", op))
	rows, err := r.db.Pool.Query(ctx, q, args...)
	if err != nil {
		log.Error("sql.query_failed", zap.Error(err))
		return nil, classify(op, err)
	}
	defer rows.Close()

	var out []domain.HistoryRecord
	for rows.Next() {
		var (
			id         string
			recordedAt time.Time
			doc        []byte
		)
		if err := rows.Scan(&id, &recordedAt, &doc); err != nil {
			return nil, classify(op, err)
		}
		rec, err := historydoc.Unmarshal(doc)
		if err != nil {
			return nil, domain.NewStoreError(op, domain.StoreErrUnknown, fmt.Errorf("row %s: %w", id, err))
		}
		rec.ID = id
		rec.RecordedAt = recordedAt.UTC()
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	return out, nil
}

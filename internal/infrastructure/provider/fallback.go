package provider

import (
	"context"
	"errors"
	"time"

	"realtrade/internal/application"
	"realtrade/internal/domain"

	"go.uber.org/zap"
)

const SourceFallback = "fallback"

// Fallback tries Primary under PrimaryTimeout and, on any failure, Secondary
// exactly once with the caller's context.
type Fallback struct {
	Primary        application.QuoteSource
	Secondary      application.QuoteSource
	PrimaryTimeout time.Duration
	Log            *zap.Logger
}

var _ application.QuoteSource = (*Fallback)(nil)

func (f *Fallback) Fetch(ctx context.Context, pair domain.Pair) (domain.Quote, error) {
	log := f.Log
	if log == nil {
		log = zap.NewNop()
	}

	q, perr := f.fetchPrimary(ctx, pair)
	if perr == nil {
		return q, nil
	}
	pkind, _ := domain.FetchKind(perr)
	log.Warn("quote.primary_failed", zap.String("pair", pair.String()), zap.String("kind", string(pkind)), zap.Error(perr))

	if f.Secondary == nil {
		return domain.Quote{}, perr
	}
	q, serr := f.Secondary.Fetch(ctx, pair)
	if serr == nil {
		log.Info("quote.fallback_used", zap.String("pair", pair.String()), zap.String("source", q.Source))
		return q, nil
	}
	kind, ok := domain.FetchKind(serr)
	if !ok {
		kind = domain.FetchNetwork
	}
	log.Warn("quote.fallback_failed", zap.String("pair", pair.String()), zap.String("kind", string(kind)), zap.Error(serr))
	return domain.Quote{}, domain.NewFetchError(SourceFallback, kind, errors.Join(perr, serr))
}

func (f *Fallback) fetchPrimary(ctx context.Context, pair domain.Pair) (domain.Quote, error) {
	if f.PrimaryTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.PrimaryTimeout)
		defer cancel()
	}
	return f.Primary.Fetch(ctx, pair)
}

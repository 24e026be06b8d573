package provider

import (
	"context"
	"time"

	"realtrade/internal/application"
	"realtrade/internal/domain"

	"github.com/shopspring/decimal"
)

const SourceFake = "fake"

// Ensure Fake implements application.QuoteSource.
var _ application.QuoteSource = (*Fake)(nil)

// Fake returns a fixed bid for every pair, with a 0.1% spread.
type Fake struct {
	bid decimal.Decimal
}

func NewFake(bid float64) *Fake { return &Fake{bid: decimal.NewFromFloat(bid)} }

func (f *Fake) Fetch(_ context.Context, pair domain.Pair) (domain.Quote, error) {
	ask := f.bid.Mul(decimal.RequireFromString("1.001")).Round(6)
	return domain.Quote{
		PairCode:      pair,
		BaseCurrency:  pair.Base(),
		QuoteCurrency: pair.Counter(),
		Bid:           f.bid,
		Ask:           ask,
		DayHigh:       ask,
		DayLow:        f.bid,
		Change:        decimal.Zero,
		ChangePercent: decimal.Zero,
		ObservedAt:    time.Now().UTC(),
		Source:        SourceFake,
	}, nil
}

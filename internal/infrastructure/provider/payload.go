package provider

import (
	"strconv"
	"time"

	"realtrade/internal/domain"

	"github.com/shopspring/decimal"
)

// QuotePayload is the quote wire shape served by the quote API at
// /api/currency/{pair}. Field names follow AwesomeAPI.
type QuotePayload struct {
	Code         string          `json:"code"`
	CodeIn       string          `json:"codein"`
	Name         string          `json:"name"`
	High         decimal.Decimal `json:"high"`
	Low          decimal.Decimal `json:"low"`
	VarBid       decimal.Decimal `json:"varBid"`
	PctChange    decimal.Decimal `json:"pctChange"`
	Bid          decimal.Decimal `json:"bid"`
	Ask          decimal.Decimal `json:"ask"`
	Timestamp    string          `json:"timestamp"`
	CreateDate   string          `json:"create_date"`
	CurrencyPair string          `json:"currency_pair,omitempty"`
	FetchedAt    *time.Time      `json:"fetched_at,omitempty"`
	Source       string          `json:"source,omitempty"`
}

const createDateLayout = "2006-01-02 15:04:05"

// NewQuotePayload renders q in the wire shape.
func NewQuotePayload(q domain.Quote, fetchedAt time.Time) QuotePayload {
	p := QuotePayload{
		Code:         q.BaseCurrency,
		CodeIn:       q.QuoteCurrency,
		Name:         q.DisplayName,
		High:         q.DayHigh,
		Low:          q.DayLow,
		VarBid:       q.Change,
		PctChange:    q.ChangePercent,
		Bid:          q.Bid,
		Ask:          q.Ask,
		CurrencyPair: string(q.PairCode),
		Source:       q.Source,
	}
	if !q.ObservedAt.IsZero() {
		p.Timestamp = strconv.FormatInt(q.ObservedAt.Unix(), 10)
		p.CreateDate = q.ObservedAt.UTC().Format(createDateLayout)
	}
	if !fetchedAt.IsZero() {
		t := fetchedAt.UTC()
		p.FetchedAt = &t
	}
	return p
}

// observedAt prefers the unix timestamp and falls back to create_date (UTC), then now.
func (p QuotePayload) observedAt(now time.Time) time.Time {
	if sec, err := strconv.ParseInt(p.Timestamp, 10, 64); err == nil && sec > 0 {
		return time.Unix(sec, 0).UTC()
	}
	if t, err := time.Parse(createDateLayout, p.CreateDate); err == nil {
		return t.UTC()
	}
	return now.UTC()
}

// toQuote maps the payload to a Quote for pair, tagging it with source.
func (p QuotePayload) toQuote(pair domain.Pair, source string, now time.Time) domain.Quote {
	return domain.Quote{
		PairCode:      pair,
		BaseCurrency:  pair.Base(),
		QuoteCurrency: pair.Counter(),
		DisplayName:   p.Name,
		Bid:           p.Bid,
		Ask:           p.Ask,
		DayHigh:       p.High,
		DayLow:        p.Low,
		Change:        p.VarBid,
		ChangePercent: p.PctChange,
		ObservedAt:    p.observedAt(now),
		Source:        source,
	}
}

package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type HistoryRecord struct {
	ID            string
	PairCode      Pair
	DisplayName   string
	Bid           decimal.Decimal
	ChangePercent decimal.Decimal
	RecordedAt    time.Time
}

// NewHistoryRecord derives the persisted record from a fetched quote.
// ID and RecordedAt are left for the store to assign.
func NewHistoryRecord(q Quote) HistoryRecord {
	return HistoryRecord{
		PairCode:      q.PairCode,
		DisplayName:   q.DisplayName,
		Bid:           q.Bid,
		ChangePercent: q.ChangePercent,
	}
}

const (
	DefaultHistoryLimit = 10
	MaxHistoryLimit     = 50
)

// ClampHistoryLimit maps non-positive limits to the default and caps large ones.
func ClampHistoryLimit(n int) int {
	switch {
	case n <= 0:
		return DefaultHistoryLimit
	case n > MaxHistoryLimit:
		return MaxHistoryLimit
	default:
		return n
	}
}

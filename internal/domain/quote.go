package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is a normalized quotation for one pair, independent of the source that produced it.
type Quote struct {
	PairCode      Pair
	BaseCurrency  string
	QuoteCurrency string
	DisplayName   string
	Bid           decimal.Decimal
	Ask           decimal.Decimal
	DayHigh       decimal.Decimal
	DayLow        decimal.Decimal
	Change        decimal.Decimal
	ChangePercent decimal.Decimal
	ObservedAt    time.Time
	Source        string
}

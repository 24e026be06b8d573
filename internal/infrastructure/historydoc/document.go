// Package historydoc is the JSON document layout shared by the history stores.
package historydoc

import (
	"encoding/json"
	"fmt"
	"time"

	"realtrade/internal/domain"

	"github.com/shopspring/decimal"
)

type Document struct {
	ID            string          `json:"id,omitempty"`
	PairCode      string          `json:"pair_code"`
	DisplayName   string          `json:"display_name"`
	Bid           decimal.Decimal `json:"bid"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	RecordedAt    time.Time       `json:"recorded_at"`
}

func FromRecord(r domain.HistoryRecord) Document {
	return Document{
		ID:            r.ID,
		PairCode:      string(r.PairCode),
		DisplayName:   r.DisplayName,
		Bid:           r.Bid,
		ChangePercent: r.ChangePercent,
		RecordedAt:    r.RecordedAt.UTC(),
	}
}

func (d Document) Record() domain.HistoryRecord {
	return domain.HistoryRecord{
		ID:            d.ID,
		PairCode:      domain.Pair(d.PairCode),
		DisplayName:   d.DisplayName,
		Bid:           d.Bid,
		ChangePercent: d.ChangePercent,
		RecordedAt:    d.RecordedAt,
	}
}

func Marshal(r domain.HistoryRecord) ([]byte, error) {
	b, err := json.Marshal(FromRecord(r))
	if err != nil {
		return nil, fmt.Errorf("historydoc: encode: %w", err)
	}
	return b, nil
}

func Unmarshal(b []byte) (domain.HistoryRecord, error) {
	var d Document
	if err := json.Unmarshal(b, &d); err != nil {
		return domain.HistoryRecord{}, fmt.Errorf("historydoc: decode: %w", err)
	}
	return d.Record(), nil
}

package httpserver

import (
	"time"

	"realtrade/internal/application"
	"realtrade/internal/domain"

	"github.com/shopspring/decimal"
)

type quoteFormatted struct {
	Bid           string `json:"bid"`
	Ask           string `json:"ask"`
	High          string `json:"high"`
	Low           string `json:"low"`
	Change        string `json:"change"`
	ChangePercent string `json:"change_percent"`
	ChangeColor   string `json:"change_color"`
	ObservedAt    string `json:"observed_at"`
}

type quoteView struct {
	PairCode      string          `json:"pair_code"`
	DisplayName   string          `json:"display_name"`
	Bid           decimal.Decimal `json:"bid"`
	Ask           decimal.Decimal `json:"ask"`
	High          decimal.Decimal `json:"high"`
	Low           decimal.Decimal `json:"low"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	ObservedAt    time.Time       `json:"observed_at"`
	Source        string          `json:"source"`
	Formatted     quoteFormatted  `json:"formatted"`
}

func newQuoteView(q domain.Quote, loc *time.Location) *quoteView {
	pct := application.FormatPercentage(q.ChangePercent)
	return &quoteView{
		PairCode:      string(q.PairCode),
		DisplayName:   q.DisplayName,
		Bid:           q.Bid,
		Ask:           q.Ask,
		High:          q.DayHigh,
		Low:           q.DayLow,
		Change:        q.Change,
		ChangePercent: q.ChangePercent,
		ObservedAt:    q.ObservedAt,
		Source:        q.Source,
		Formatted: quoteFormatted{
			Bid:           application.FormatCurrency(q.Bid, q.PairCode),
			Ask:           application.FormatCurrency(q.Ask, q.PairCode),
			High:          application.FormatCurrency(q.DayHigh, q.PairCode),
			Low:           application.FormatCurrency(q.DayLow, q.PairCode),
			Change:        application.FormatCurrency(q.Change, q.PairCode),
			ChangePercent: pct.Text,
			ChangeColor:   pct.Color,
			ObservedAt:    application.FormatTimestamp(q.ObservedAt, loc),
		},
	}
}

type viewState struct {
	State               string     `json:"state"`
	Pair                string     `json:"pair"`
	DisplayName         string     `json:"display_name"`
	Loading             bool       `json:"loading"`
	Quote               *quoteView `json:"quote,omitempty"`
	Error               string     `json:"error,omitempty"`
	HistoryAvailability string     `json:"history_availability"`
}

func newViewState(s application.Snapshot, loc *time.Location) viewState {
	v := viewState{
		State:               string(s.State),
		Pair:                string(s.Pair),
		DisplayName:         s.DisplayName,
		Loading:             s.State == application.StateLoading,
		Error:               s.Error,
		HistoryAvailability: string(s.Availability),
	}
	if s.Quote != nil {
		v.Quote = newQuoteView(*s.Quote, loc)
	}
	return v
}

type historyRow struct {
	ID            string          `json:"id"`
	PairCode      string          `json:"pair_code"`
	DisplayName   string          `json:"display_name"`
	Bid           decimal.Decimal `json:"bid"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	RecordedAt    time.Time       `json:"recorded_at"`
	Formatted     struct {
		Bid           string `json:"bid"`
		ChangePercent string `json:"change_percent"`
		ChangeColor   string `json:"change_color"`
		RecordedAt    string `json:"recorded_at"`
	} `json:"formatted"`
}

type historyState struct {
	State        string       `json:"state"`
	Error        string       `json:"error,omitempty"`
	Availability string       `json:"availability"`
	Records      []historyRow `json:"records"`
}

func newHistoryState(s application.HistorySnapshot, loc *time.Location) historyState {
	out := historyState{
		State:        string(s.State),
		Error:        s.Error,
		Availability: string(s.Availability),
		Records:      make([]historyRow, 0, len(s.Records)),
	}
	for _, r := range s.Records {
		row := historyRow{
			ID:            r.ID,
			PairCode:      string(r.PairCode),
			DisplayName:   r.DisplayName,
			Bid:           r.Bid,
			ChangePercent: r.ChangePercent,
			RecordedAt:    r.RecordedAt,
		}
		pct := application.FormatPercentage(r.ChangePercent)
		row.Formatted.Bid = application.FormatCurrency(r.Bid, r.PairCode)
		row.Formatted.ChangePercent = pct.Text
		row.Formatted.ChangeColor = pct.Color
		row.Formatted.RecordedAt = application.FormatTimestamp(r.RecordedAt, loc)
		out.Records = append(out.Records, row)
	}
	return out
}

// pageData feeds templates/index.html.
type pageData struct {
	Pairs   []domain.CatalogEntry
	View    viewState
	History historyState
	Banner  string
}

const (
	bannerDisabled    = "Modo Produção: histórico desabilitado. A aplicação funciona apenas com cotações em tempo real via API externa."
	bannerUnavailable = "Histórico indisponível no momento. As cotações continuam funcionando normalmente."
	bannerEmpty       = "Nenhuma consulta encontrada no histórico."
)

func bannerFor(h historyState) string {
	switch {
	case h.State == string(application.HistoryDisabled):
		return bannerDisabled
	case h.Availability == string(domain.StoreUnavailable):
		return bannerUnavailable
	case h.State == string(application.HistoryEmpty):
		return bannerEmpty
	}
	return ""
}

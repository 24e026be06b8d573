package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"realtrade/internal/application"
	"realtrade/internal/domain"
	"realtrade/internal/infrastructure/httpx"

	"github.com/shopspring/decimal"
)

const (
	SourceExchangeRateAPI  = "exchange-rate-api"
	exchangeRateLatestPath = "/v4/latest/"
)

// ExchangeRateAPI is the public fallback source (api.exchangerate-api.com).
// It only knows a spot rate, so bid, ask, high and low are all that rate and
// change is zero.
type ExchangeRateAPI struct {
	BaseURL string
	Client  *httpx.Client
	Now     func() time.Time
}

var _ application.QuoteSource = (*ExchangeRateAPI)(nil)

type xrLatestResp struct {
	Base            string                     `json:"base"`
	Date            string                     `json:"date"`
	TimeLastUpdated int64                      `json:"time_last_updated"`
	Rates           map[string]decimal.Decimal `json:"rates"`
}

func (p *ExchangeRateAPI) Fetch(ctx context.Context, pair domain.Pair) (domain.Quote, error) {
	if p.BaseURL == "" {
		return domain.Quote{}, domain.NewFetchError(SourceExchangeRateAPI, domain.FetchNetwork, errors.New("missing base url"))
	}
	u := strings.TrimRight(p.BaseURL, "/") + exchangeRateLatestPath + url.PathEscape(pair.Base())

	var body xrLatestResp
	if err := clientOr(p.Client, SourceExchangeRateAPI).GetJSON(ctx, u, &body); err != nil {
		return domain.Quote{}, err
	}
	if body.Base != "" && body.Base != pair.Base() {
		return domain.Quote{}, domain.NewFetchError(SourceExchangeRateAPI, domain.FetchBadResponse,
			fmt.Errorf("base %s, requested %s", body.Base, pair.Base()))
	}
	rate, ok := body.Rates[pair.Counter()]
	if !ok {
		return domain.Quote{}, domain.NewFetchError(SourceExchangeRateAPI, domain.FetchPairNotFound,
			fmt.Errorf("missing rate for %s", pair.Counter()))
	}

	observedAt := nowOr(p.Now).UTC()
	if body.TimeLastUpdated > 0 {
		observedAt = time.Unix(body.TimeLastUpdated, 0).UTC()
	}
	return domain.Quote{
		PairCode:      pair,
		BaseCurrency:  pair.Base(),
		QuoteCurrency: pair.Counter(),
		Bid:           rate,
		Ask:           rate,
		DayHigh:       rate,
		DayLow:        rate,
		Change:        decimal.Zero,
		ChangePercent: decimal.Zero,
		ObservedAt:    observedAt,
		Source:        SourceExchangeRateAPI,
	}, nil
}

package provider

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"realtrade/internal/application"
	"realtrade/internal/domain"
	"realtrade/internal/infrastructure/httpx"
)

const (
	SourceAwesomeAPI = "awesomeapi"
	awesomeLastPath  = "/json/last/"
)

// AwesomeAPI reads the last quote of a pair from economia.awesomeapi.com.br.
// The response is a map keyed by the pair without separator ("USDBRL").
type AwesomeAPI struct {
	BaseURL string
	Client  *httpx.Client
	Now     func() time.Time
}

var _ application.QuoteSource = (*AwesomeAPI)(nil)

func (a *AwesomeAPI) Fetch(ctx context.Context, pair domain.Pair) (domain.Quote, error) {
	if a.BaseURL == "" {
		return domain.Quote{}, domain.NewFetchError(SourceAwesomeAPI, domain.FetchNetwork, fmt.Errorf("missing base url"))
	}
	u := strings.TrimRight(a.BaseURL, "/") + awesomeLastPath + url.PathEscape(string(pair))

	var body map[string]QuotePayload
	if err := clientOr(a.Client, SourceAwesomeAPI).GetJSON(ctx, u, &body); err != nil {
		return domain.Quote{}, err
	}
	p, ok := body[pair.Key()]
	if !ok {
		return domain.Quote{}, domain.NewFetchError(SourceAwesomeAPI, domain.FetchPairNotFound, fmt.Errorf("key %s missing", pair.Key()))
	}
	return p.toQuote(pair, SourceAwesomeAPI, nowOr(a.Now)), nil
}

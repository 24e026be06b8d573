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

const SourceBackend = "backend"

// Backend reads quotes from the local quote API (cmd/api).
type Backend struct {
	BaseURL string
	Client  *httpx.Client
	Now     func() time.Time
}

var _ application.QuoteSource = (*Backend)(nil)

func (b *Backend) Fetch(ctx context.Context, pair domain.Pair) (domain.Quote, error) {
	if b.BaseURL == "" {
		return domain.Quote{}, domain.NewFetchError(SourceBackend, domain.FetchNetwork, fmt.Errorf("missing base url"))
	}
	u := strings.TrimRight(b.BaseURL, "/") + "/api/currency/" + url.PathEscape(string(pair))

	var body QuotePayload
	if err := clientOr(b.Client, SourceBackend).GetJSON(ctx, u, &body); err != nil {
		return domain.Quote{}, err
	}
	if body.CurrencyPair != "" && domain.Pair(body.CurrencyPair) != pair {
		return domain.Quote{}, domain.NewFetchError(SourceBackend, domain.FetchBadResponse,
			fmt.Errorf("response for %s, requested %s", body.CurrencyPair, pair))
	}
	return body.toQuote(pair, SourceBackend, nowOr(b.Now)), nil
}

func clientOr(c *httpx.Client, source string) *httpx.Client {
	if c != nil {
		return c
	}
	return &httpx.Client{Source: source}
}

func nowOr(now func() time.Time) time.Time {
	if now != nil {
		return now()
	}
	return time.Now()
}

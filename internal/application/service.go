package application

import (
	"context"
	"fmt"

	"realtrade/internal/domain"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// QuoteService backs the quote API: it resolves pairs against the catalog
// and reads quotes from an upstream source.
type QuoteService struct {
	upstream QuoteSource
	catalog  *domain.Catalog
	fanout   int
	flight   singleflight.Group
}

type Option func(*QuoteService)

func WithServiceCatalog(c *domain.Catalog) Option { return func(s *QuoteService) { s.catalog = c } }
func WithFanout(n int) Option                     { return func(s *QuoteService) { s.fanout = n } }

func NewQuoteService(upstream QuoteSource, opts ...Option) *QuoteService {
	s := &QuoteService{upstream: upstream, fanout: 4}
	for _, opt := range opts {
		opt(s)
	}
	if s.catalog == nil {
		s.catalog = domain.DefaultCatalog()
	}
	if s.fanout <= 0 {
		s.fanout = 1
	}
	return s
}

// GetQuote fetches one pair. Concurrent calls for the same pair share one upstream request.
func (s *QuoteService) GetQuote(ctx context.Context, code string) (domain.Quote, error) {
	pair, err := s.catalog.Resolve(code)
	if err != nil {
		return domain.Quote{}, err
	}
	ch := s.flight.DoChan(string(pair), func() (any, error) {
		// Detached so one caller going away does not fail the others.
		return s.upstream.Fetch(context.WithoutCancel(ctx), pair)
	})
	select {
	case <-ctx.Done():
		return domain.Quote{}, domain.NewFetchError("quote_service", domain.FetchTimeout, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return domain.Quote{}, res.Err
		}
		q := res.Val.(domain.Quote)
		if q.DisplayName == "" {
			q.DisplayName, _ = s.catalog.Name(pair)
		}
		return q, nil
	}
}

type QuoteResult struct {
	Quote *domain.Quote
	Err   error
}

// GetMany fetches several pairs concurrently. A failing pair does not fail the others.
func (s *QuoteService) GetMany(ctx context.Context, codes []string) (map[string]QuoteResult, error) {
	if len(codes) == 0 {
		return nil, fmt.Errorf("%w: empty currency list", ErrBadRequest)
	}
	results := make([]QuoteResult, len(codes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fanout)
	for i, code := range codes {
		g.Go(func() error {
			q, err := s.GetQuote(gctx, code)
			if err != nil {
				results[i] = QuoteResult{Err: err}
				return nil
			}
			results[i] = QuoteResult{Quote: &q}
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]QuoteResult, len(codes))
	for i, code := range codes {
		out[code] = results[i]
	}
	return out, nil
}

func (s *QuoteService) AvailablePairs() map[string]string { return s.catalog.Map() }

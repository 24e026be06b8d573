package httpserver

import (
	"context"
	"errors"
	"sync"

	"realtrade/internal/domain"
)

// stubSource fails the pairs listed in errs and delegates the rest.
type stubSource struct {
	next domain.Quote
	errs map[domain.Pair]error

	mu    sync.Mutex
	calls int
}

func (s *stubSource) Fetch(_ context.Context, pair domain.Pair) (domain.Quote, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	if err, ok := s.errs[pair]; ok {
		return domain.Quote{}, err
	}
	q := s.next
	q.PairCode = pair
	q.BaseCurrency = pair.Base()
	q.QuoteCurrency = pair.Counter()
	return q, nil
}

var errUpstream = domain.NewFetchError("awesomeapi", domain.FetchNetwork, errors.New("connection refused"))

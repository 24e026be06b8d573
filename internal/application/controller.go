package application

import (
	"context"
	"fmt"
	"sync"

	"realtrade/internal/domain"
	"realtrade/internal/infrastructure/logx"

	"go.uber.org/zap"
)

type ViewState string

const (
	StateIdle    ViewState = "idle"
	StateLoading ViewState = "loading"
	StateReady   ViewState = "ready"
	StateFailed  ViewState = "failed"
)

// FetchFailedMessage is shown for every fetch failure regardless of its kind.
const FetchFailedMessage = "Erro ao buscar cotação. Tente novamente."

// Snapshot is an immutable view of the controller state.
type Snapshot struct {
	State        ViewState
	Pair         domain.Pair
	DisplayName  string
	Quote        *domain.Quote
	Error        string
	Availability domain.StoreAvailability
}

// Controller holds the quote view state of one viewer session.
type Controller struct {
	source   QuoteSource
	recorder Recorder
	catalog  *domain.Catalog
	log      *zap.Logger

	mu     sync.Mutex
	state  ViewState
	pair   domain.Pair
	quote  *domain.Quote
	errMsg string
}

type ControllerOption func(*Controller)

func WithCatalog(c *domain.Catalog) ControllerOption { return func(ct *Controller) { ct.catalog = c } }
func WithLogger(l *zap.Logger) ControllerOption      { return func(ct *Controller) { ct.log = l } }

// NewController builds a controller. recorder may be nil when history is disabled.
func NewController(source QuoteSource, recorder Recorder, opts ...ControllerOption) *Controller {
	c := &Controller{
		source:   source,
		recorder: recorder,
		state:    StateIdle,
		pair:     domain.DefaultPair,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.catalog == nil {
		c.catalog = domain.DefaultCatalog()
	}
	if c.log == nil {
		c.log = logx.L()
	}
	return c
}

// Select changes the selected pair. It is allowed in any state.
func (c *Controller) Select(code string) error {
	p, err := c.catalog.Resolve(code)
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.pair = p
	c.mu.Unlock()
	return nil
}

// Fetch runs Idle/Ready/Failed -> Loading -> Ready|Failed for the selected pair.
// While a fetch is in flight further calls return ErrFetchInFlight.
func (c *Controller) Fetch(ctx context.Context) (snap Snapshot, err error) {
	c.mu.Lock()
	if c.state == StateLoading {
		s := c.snapshotLocked()
		c.mu.Unlock()
		return s, ErrFetchInFlight
	}
	c.state = StateLoading
	c.errMsg = ""
	pair := c.pair
	c.mu.Unlock()

	log := c.log.With(zap.String("pair", pair.String()))
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("quote.fetch_panic", zap.Any("panic", rec))
			snap, err = c.fail(), fmt.Errorf("quote source panic: %v", rec)
		}
	}()

	q, err := c.source.Fetch(ctx, pair)
	if err != nil {
		kind, _ := domain.FetchKind(err)
		log.Warn("quote.fetch_failed", zap.String("kind", string(kind)), zap.Error(err))
		return c.fail(), err
	}
	if q.DisplayName == "" {
		q.DisplayName, _ = c.catalog.Name(q.PairCode)
	}

	c.mu.Lock()
	c.state = StateReady
	c.quote = &q
	s := c.snapshotLocked()
	c.mu.Unlock()

	log.Info("quote.fetched", zap.String("source", q.Source), zap.String("bid", q.Bid.String()))
	if c.recorder != nil && !c.recorder.Record(domain.NewHistoryRecord(q)) {
		log.Warn("history.record_dropped")
	}
	return s, nil
}

// fail leaves Loading for Failed with the generic message.
func (c *Controller) fail() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateFailed
	c.errMsg = FetchFailedMessage
	return c.snapshotLocked()
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		State:        c.state,
		Pair:         c.pair,
		Error:        c.errMsg,
		Availability: domain.StoreDisabled,
	}
	s.DisplayName, _ = c.catalog.Name(c.pair)
	if c.quote != nil {
		q := *c.quote
		s.Quote = &q
	}
	if c.recorder != nil {
		s.Availability = c.recorder.Availability()
	}
	return s
}

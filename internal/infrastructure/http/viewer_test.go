package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"realtrade/internal/application"
	"realtrade/internal/domain"
	"realtrade/internal/infrastructure/memory"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// syncRecorder appends in the caller's goroutine so assertions need no polling.
type syncRecorder struct{ store application.HistoryStore }

func (r syncRecorder) Record(rec domain.HistoryRecord) bool {
	_, err := r.store.Append(context.Background(), rec)
	return err == nil
}

func (r syncRecorder) Availability() domain.StoreAvailability { return domain.StoreAvailable }

type viewerFixture struct {
	viewer  *Viewer
	handler http.Handler
	store   *memory.HistoryStore
	source  *stubSource
}

func newViewerFixture(t *testing.T, withStore bool) *viewerFixture {
	t.Helper()
	f := &viewerFixture{source: okSource()}
	var (
		recorder application.Recorder
		store    application.HistoryStore
	)
	if withStore {
		f.store = memory.NewHistoryStore(nil)
		store = f.store
		recorder = syncRecorder{store: f.store}
	}
	newCtl := func() *application.Controller { return application.NewController(f.source, recorder) }
	f.viewer = NewViewer(newCtl, application.NewHistoryView(store, 20), time.Minute)
	f.handler = NewViewerRouter(f.viewer)
	return f
}

func (f *viewerFixture) do(t *testing.T, req *http.Request, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func sessionFrom(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == sessionCookie {
			return c
		}
	}
	t.Fatalf("no %s cookie", sessionCookie)
	return nil
}

func TestViewer_InitialView(t *testing.T) {
	f := newViewerFixture(t, true)
	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/api/view", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var v viewState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.Equal(t, "idle", v.State)
	require.Equal(t, "USD-BRL", v.Pair)
	require.Nil(t, v.Quote)
	sessionFrom(t, rec)
}

func TestViewer_FetchRecordsHistory(t *testing.T) {
	f := newViewerFixture(t, true)
	rec := f.do(t, httptest.NewRequest(http.MethodPost, "/api/view/fetch?pair=BTC-BRL", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionFrom(t, rec)

	var v viewState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.Equal(t, "ready", v.State)
	require.Equal(t, "BTC-BRL", v.Quote.PairCode)
	require.Equal(t, "-0.15%", v.Quote.Formatted.ChangePercent)
	require.Equal(t, application.ColorNegative, v.Quote.Formatted.ChangeColor)
	require.True(t, strings.HasPrefix(v.Quote.Formatted.Bid, "R$"))

	// the same session keeps its controller
	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/api/view", nil), cookie)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.Equal(t, "BTC-BRL", v.Pair)
	require.Equal(t, "ready", v.State)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/api/history?limit=10", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var h historyState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	require.Equal(t, "populated", h.State)
	require.Len(t, h.Records, 1)
	require.Equal(t, "BTC-BRL", h.Records[0].PairCode)
	require.True(t, h.Records[0].Bid.Equal(decimal.RequireFromString("5.2301")))

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/api/history/USD-BRL", nil), nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	require.Equal(t, "empty", h.State)
}

func TestViewer_FetchFailure(t *testing.T) {
	f := newViewerFixture(t, true)
	rec := f.do(t, httptest.NewRequest(http.MethodPost, "/api/view/fetch?pair=EUR-BRL", nil), nil)
	require.Equal(t, http.StatusBadGateway, rec.Code)

	var v viewState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.Equal(t, "failed", v.State)
	require.Equal(t, application.FetchFailedMessage, v.Error)

	recs, err := f.store.ListRecent(context.Background(), 10)
	require.NoError(t, err)
	require.Empty(t, recs)
}

func TestViewer_BadPair(t *testing.T) {
	f := newViewerFixture(t, true)
	rec := f.do(t, httptest.NewRequest(http.MethodPost, "/api/view/fetch?pair=ZZZ-QQQ", nil), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/api/history/nope", nil), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/api/history?limit=x", nil), nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestViewer_SubmitQuoteRedirectsAndRenders(t *testing.T) {
	f := newViewerFixture(t, true)
	form := url.Values{"pair": {"USD-BRL"}}
	req := httptest.NewRequest(http.MethodPost, "/quote", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := f.do(t, req, nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/", rec.Header().Get("Location"))
	cookie := sessionFrom(t, rec)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/", nil), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.Contains(t, body, "Dólar Americano/Real Brasileiro")
	require.Contains(t, body, "R$")
	require.Contains(t, body, "-0.15%")
	require.Contains(t, body, "Histórico de Consultas")
	require.NotContains(t, body, bannerEmpty)
}

func TestViewer_DisabledHistoryBanner(t *testing.T) {
	f := newViewerFixture(t, false)
	rec := f.do(t, httptest.NewRequest(http.MethodGet, "/", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "Modo Produção")

	rec = f.do(t, httptest.NewRequest(http.MethodPost, "/api/view/fetch", nil), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var v viewState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	require.Equal(t, "disabled", v.HistoryAvailability)

	rec = f.do(t, httptest.NewRequest(http.MethodGet, "/api/history", nil), nil)
	var h historyState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &h))
	require.Equal(t, "disabled", h.State)
}

func TestViewer_RefreshHistory(t *testing.T) {
	f := newViewerFixture(t, true)
	rec := f.do(t, httptest.NewRequest(http.MethodPost, "/history/refresh", nil), nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, application.HistoryEmpty, f.viewer.history.Snapshot().State)
}

func TestSessions_SweepDropsIdle(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := newSessions(time.Minute, func() *application.Controller {
		return application.NewController(okSource(), nil)
	})
	s.now = func() time.Time { return now }

	rec := httptest.NewRecorder()
	ctl := s.controllerFor(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	cookie := sessionFrom(t, rec)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	require.Same(t, ctl, s.controllerFor(httptest.NewRecorder(), req))
	require.Equal(t, 1, s.len())

	now = now.Add(30 * time.Second)
	require.Zero(t, s.sweep())
	now = now.Add(2 * time.Minute)
	require.Equal(t, 1, s.sweep())
	require.Zero(t, s.len())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	require.NotSame(t, ctl, s.controllerFor(httptest.NewRecorder(), req))
}

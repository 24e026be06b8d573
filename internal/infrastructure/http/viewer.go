package httpserver

import (
	"context"
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"realtrade/internal/application"
	"realtrade/internal/domain"
	"realtrade/internal/infrastructure/logx"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

//go:embed templates/index.html
var templatesFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

var _ application.Worker = (*Viewer)(nil)

// Viewer serves the quotation page. Each browser session gets its own
// Controller; the history list is shared.
type Viewer struct {
	sessions *sessions
	history  *application.HistoryView
	catalog  *domain.Catalog
	loc      *time.Location
	limit    int
	ready    ReadyCheck
}

type ViewerOption func(*Viewer)

func WithViewerCatalog(c *domain.Catalog) ViewerOption { return func(v *Viewer) { v.catalog = c } }
func WithLocation(loc *time.Location) ViewerOption     { return func(v *Viewer) { v.loc = loc } }

// WithHistoryLimit sets the default size of /api/history.
func WithHistoryLimit(n int) ViewerOption { return func(v *Viewer) { v.limit = domain.ClampHistoryLimit(n) } }

// NewViewer builds a viewer; newController is called once per new session.
func NewViewer(newController func() *application.Controller, history *application.HistoryView, sessionTTL time.Duration, opts ...ViewerOption) *Viewer {
	v := &Viewer{
		sessions: newSessions(sessionTTL, newController),
		history:  history,
		loc:      time.UTC,
		limit:    domain.DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(v)
	}
	if v.catalog == nil {
		v.catalog = domain.DefaultCatalog()
	}
	return v
}

func (v *Viewer) SetReadyCheck(f ReadyCheck) { v.ready = f }

func (v *Viewer) checkReady(ctx context.Context) error {
	if v.ready == nil {
		return nil
	}
	return v.ready(ctx)
}

// Start sweeps idle sessions until ctx is canceled.
func (v *Viewer) Start(ctx context.Context) { v.sessions.run(ctx) }

func (v *Viewer) Page(w http.ResponseWriter, r *http.Request) {
	ctl := v.sessions.controllerFor(w, r)
	hist := newHistoryState(v.history.Load(r.Context()), v.loc)
	data := pageData{
		Pairs:   v.catalog.Entries(),
		View:    newViewState(ctl.Snapshot(), v.loc),
		History: hist,
		Banner:  bannerFor(hist),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTmpl.Execute(w, data); err != nil {
		logx.WithFields(r.Context()).Error("viewer.render_failed", zap.Error(err))
	}
}

// SubmitQuote selects the posted pair, fetches it and redirects back to the page.
func (v *Viewer) SubmitQuote(w http.ResponseWriter, r *http.Request) {
	ctl := v.sessions.controllerFor(w, r)
	if err := r.ParseForm(); err != nil {
		http.Error(w, msgBadBody, http.StatusBadRequest)
		return
	}
	if code := r.PostForm.Get("pair"); code != "" {
		if err := ctl.Select(code); err != nil {
			http.Error(w, msgPairNotFound, http.StatusBadRequest)
			return
		}
	}
	// Failures are kept in the controller state and rendered by the page.
	_, _ = ctl.Fetch(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (v *Viewer) RefreshHistory(w http.ResponseWriter, r *http.Request) {
	v.history.Refresh(r.Context())
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (v *Viewer) GetView(w http.ResponseWriter, r *http.Request) {
	ctl := v.sessions.controllerFor(w, r)
	writeJSON(w, http.StatusOK, newViewState(ctl.Snapshot(), v.loc))
}

// FetchView optionally selects ?pair= and fetches the selected pair.
// 409 while a fetch is in flight, 502 when the fetch fails.
func (v *Viewer) FetchView(w http.ResponseWriter, r *http.Request) {
	ctl := v.sessions.controllerFor(w, r)
	if code := r.URL.Query().Get("pair"); code != "" {
		if err := ctl.Select(code); err != nil {
			writeError(w, http.StatusBadRequest, msgPairNotFound)
			return
		}
	}
	snap, err := ctl.Fetch(r.Context())
	status := http.StatusOK
	switch {
	case errors.Is(err, application.ErrFetchInFlight):
		status = http.StatusConflict
	case err != nil:
		status = http.StatusBadGateway
	}
	writeJSON(w, status, newViewState(snap, v.loc))
}

func (v *Viewer) ListHistory(w http.ResponseWriter, r *http.Request) {
	limit := v.limit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	v.writeHistory(w, v.history.Recent(r.Context(), limit))
}

func (v *Viewer) ListPairHistory(w http.ResponseWriter, r *http.Request) {
	pair, err := v.catalog.Resolve(chi.URLParam(r, "pair"))
	if err != nil {
		writeError(w, http.StatusNotFound, msgPairNotFound)
		return
	}
	v.writeHistory(w, v.history.LoadPair(r.Context(), pair))
}

func (v *Viewer) writeHistory(w http.ResponseWriter, s application.HistorySnapshot) {
	status := http.StatusOK
	if s.State == application.HistoryError {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, newHistoryState(s, v.loc))
}

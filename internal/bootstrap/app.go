package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"realtrade/internal/application"
	"realtrade/internal/config"
	infraconfig "realtrade/internal/infrastructure/config"
	httpserver "realtrade/internal/infrastructure/http"
	"realtrade/internal/infrastructure/logx"
	"realtrade/internal/infrastructure/worker"

	"go.uber.org/zap"
)

// InitAPI wires the quote API handler.
func InitAPI(cfg config.Config) http.Handler {
	svc := application.NewQuoteService(BuildUpstream(cfg), application.WithFanout(infraconfig.DefaultMultiQuoteLimit))
	return httpserver.NewAPIRouter(httpserver.NewAPIServer(svc))
}

// ViewerApp is the wired viewer: its handler and the background workers
// that must run for as long as the handler serves.
type ViewerApp struct {
	Handler http.Handler
	Workers []application.Worker
}

func InitViewer(ctx context.Context, cfg config.Config) (*ViewerApp, func(), error) {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, func() {}, fmt.Errorf("load DISPLAY_TZ %q: %w", cfg.TimeZone, err)
	}
	store, cleanup, err := BuildHistoryStore(ctx, cfg)
	if err != nil {
		return nil, func() {}, err
	}

	source := BuildQuoteSource(cfg)
	app := &ViewerApp{}

	var recorder application.Recorder
	if store != nil {
		hw := worker.NewHistoryWorker(store, cfg.HistoryQueueSize, cfg.StoreTimeout)
		recorder = hw
		app.Workers = append(app.Workers, hw)
		logx.L().Info("history.enabled",
			zap.String("backend", cfg.HistoryBackend),
			zap.String("availability", string(hw.Probe(ctx))))
	}

	newController := func() *application.Controller {
		return application.NewController(source, recorder)
	}
	ttl := cfg.SessionTTL
	if ttl <= 0 {
		ttl = infraconfig.DefaultSessionTTL
	}
	viewer := httpserver.NewViewer(newController, application.NewHistoryView(store, cfg.HistoryViewLimit), ttl,
		httpserver.WithLocation(loc),
		httpserver.WithHistoryLimit(cfg.HistoryLimit),
	)
	if store != nil {
		viewer.SetReadyCheck(store.Probe)
	}
	app.Workers = append(app.Workers, viewer)
	app.Handler = httpserver.NewViewerRouter(viewer)
	return app, cleanup, nil
}

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	_ "time/tzdata"

	"realtrade/internal/bootstrap"
	"realtrade/internal/config"
	infraconfig "realtrade/internal/infrastructure/config"
	"realtrade/internal/infrastructure/logx"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func init() { _ = godotenv.Load() }

func main() {
	logger := logx.L()
	cfg := config.Load()
	addr := ":" + cfg.ViewerPort

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, cleanup, err := bootstrap.InitViewer(ctx, cfg)
	if err != nil {
		logger.Fatal("bootstrap viewer", zap.Error(err))
	}
	defer cleanup()

	// Workers outlive the HTTP server so queued history records drain after
	// the last request.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	for _, w := range app.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w.Start(workerCtx)
		}()
	}

	server := &http.Server{Addr: addr, Handler: app.Handler}
	go func() {
		logger.Info("server started", zap.String("addr", addr), zap.Bool("production", cfg.Production()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), infraconfig.DefaultShutdownTimeout)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	stopWorkers()
	wg.Wait()
	logger.Info("server stopped")
}

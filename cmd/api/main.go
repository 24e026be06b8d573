package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

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
	addr := ":" + cfg.APIPort

	server := &http.Server{
		Addr:    addr,
		Handler: bootstrap.InitAPI(cfg),
	}

	go func() {
		logger.Info("server started", zap.String("addr", addr), zap.String("upstream", cfg.AwesomeAPIBase))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	shutdownCtx, cancel := context.WithTimeout(context.Background(), infraconfig.DefaultShutdownTimeout)
	defer cancel()
	_ = server.Shutdown(shutdownCtx)
	logger.Info("server stopped")
}

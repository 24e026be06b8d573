package bootstrap

import (
	"context"
	"errors"
	"fmt"

	"realtrade/internal/application"
	"realtrade/internal/config"
	"realtrade/internal/infrastructure/httpx"
	"realtrade/internal/infrastructure/logx"
	"realtrade/internal/infrastructure/memory"
	"realtrade/internal/infrastructure/pg"
	"realtrade/internal/infrastructure/provider"
	redisstore "realtrade/internal/infrastructure/redis"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var ErrMissingDBURL = errors.New("DATABASE_URL is required for HISTORY_BACKEND=pg")

const fakeBid = 5.0

// BuildUpstream returns the source the quote API proxies.
func BuildUpstream(cfg config.Config) application.QuoteSource {
	if cfg.QuoteSource == "fake" {
		return provider.NewFake(fakeBid)
	}
	return &provider.AwesomeAPI{
		BaseURL: cfg.AwesomeAPIBase,
		Client:  httpx.New(provider.SourceAwesomeAPI, cfg.UpstreamTimeout),
	}
}

// BuildQuoteSource returns the viewer's source: the local quote API in
// development and AwesomeAPI in production, each falling back to the public
// exchange-rate API.
func BuildQuoteSource(cfg config.Config) application.QuoteSource {
	if cfg.QuoteSource == "fake" {
		return provider.NewFake(fakeBid)
	}
	var primary application.QuoteSource = &provider.Backend{
		BaseURL: cfg.BackendURL,
		Client:  httpx.New(provider.SourceBackend, 0),
	}
	if cfg.Production() {
		primary = &provider.AwesomeAPI{
			BaseURL: cfg.AwesomeAPIBase,
			Client:  httpx.New(provider.SourceAwesomeAPI, 0),
		}
	}
	return &provider.Fallback{
		Primary: primary,
		Secondary: &provider.ExchangeRateAPI{
			BaseURL: cfg.PublicFXAPIBase,
			Client:  httpx.New(provider.SourceExchangeRateAPI, 0),
		},
		PrimaryTimeout: cfg.PrimaryTimeout,
		Log:            logx.L().With(zap.String("component", "quote_source")),
	}
}

// BuildHistoryStore builds the store selected by HISTORY_BACKEND. It returns a
// nil store when history is disabled.
func BuildHistoryStore(ctx context.Context, cfg config.Config) (application.HistoryStore, func(), error) {
	log := logx.L()
	if !cfg.HistoryEnabled() {
		log.Info("history.disabled", zap.String("backend", cfg.HistoryBackend))
		return nil, func() {}, nil
	}

	switch cfg.HistoryBackend {
	case "pg":
		if cfg.DatabaseURL == "" {
			return nil, func() {}, ErrMissingDBURL
		}
		db, err := pg.Connect(ctx, cfg.DatabaseURL, pg.WithStatementTimeout(cfg.StoreTimeout))
		if err != nil {
			return nil, func() {}, fmt.Errorf("connect pg: %w", err)
		}
		// An unreachable database degrades history only; the repo reports
		// Unavailable until it comes back.
		if err := pg.RunMigrations(ctx, db); err != nil {
			log.Warn("history.migrate_failed", zap.Error(err))
		}
		cleanup := func() {
			log.Info("closing pg")
			db.Close()
		}
		return pg.NewHistoryRepo(db, nil), cleanup, nil

	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		cleanup := func() {
			log.Info("closing redis")
			_ = client.Close()
		}
		return redisstore.New(client, nil), cleanup, nil

	case "memory":
		return memory.NewHistoryStore(nil), func() {}, nil

	default:
		return nil, func() {}, fmt.Errorf("unsupported HISTORY_BACKEND=%q", cfg.HistoryBackend)
	}
}

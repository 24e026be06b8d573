package pg

import (
	"context"
	"fmt"
	"strconv"
	"time"

	infraconfig "realtrade/internal/infrastructure/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

const applicationName = "realtrade-history"

// DB owns the pool behind the quotation history table.
type DB struct{ Pool *pgxpool.Pool }

type Option func(*pgxpool.Config)

// WithStatementTimeout has the server cancel history statements running longer
// than d. Zero keeps the server default.
func WithStatementTimeout(d time.Duration) Option {
	return func(c *pgxpool.Config) {
		if d > 0 {
			c.ConnConfig.RuntimeParams["statement_timeout"] = strconv.FormatInt(d.Milliseconds(), 10)
		}
	}
}

func Connect(ctx context.Context, url string, opts ...Option) (*DB, error) {
	cfg, err := poolConfig(url, opts...)
	if err != nil {
		return nil, err
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open pool: %w", err)
	}
	return &DB{Pool: pool}, nil
}

func poolConfig(url string, opts ...Option) (*pgxpool.Config, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	cfg.MaxConns, cfg.MinConns = infraconfig.DefaultPGMaxConns, infraconfig.DefaultPGMinConns
	cfg.MaxConnIdleTime = 2 * time.Minute
	cfg.HealthCheckPeriod = infraconfig.DefaultPGHealthCheckPeriod
	if _, ok := cfg.ConnConfig.RuntimeParams["application_name"]; !ok {
		cfg.ConnConfig.RuntimeParams["application_name"] = applicationName
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg, nil
}

func (d *DB) Close() { d.Pool.Close() }

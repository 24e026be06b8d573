package application

import (
	"context"

	"realtrade/internal/domain"
)

//go:generate mockgen -source=ports.go -destination=mock_ports_test.go -package=application

// QuoteSource fetches one quote. Errors are *domain.FetchError.
type QuoteSource interface {
	Fetch(ctx context.Context, pair domain.Pair) (domain.Quote, error)
}

// HistoryStore persists and lists history records. Errors are *domain.StoreError.
type HistoryStore interface {
	// Append stamps RecordedAt and returns the store-assigned id.
	Append(ctx context.Context, rec domain.HistoryRecord) (string, error)
	// ListRecent returns at most limit records, newest first.
	ListRecent(ctx context.Context, limit int) ([]domain.HistoryRecord, error)
	ListByPair(ctx context.Context, pair domain.Pair, limit int) ([]domain.HistoryRecord, error)
	// Probe performs a cheap query to check the store is reachable.
	Probe(ctx context.Context) error
}

// Recorder persists records off the caller's path.
type Recorder interface {
	// Record hands rec off without blocking. It reports false if rec was dropped.
	Record(rec domain.HistoryRecord) bool
	Availability() domain.StoreAvailability
}

package config

import "time"

const (
	DefaultShutdownTimeout     = 10 * time.Second
	DefaultPrimaryTimeout      = 2 * time.Second
	DefaultHistoryQueueSize    = 64
	DefaultPGMaxConns          = 5
	DefaultPGMinConns          = 1
	DefaultPGReadyTimeout      = 15 * time.Second
	DefaultPGHealthCheckPeriod = 30 * time.Second
	DefaultSessionTTL          = 30 * time.Minute
	DefaultMultiQuoteLimit     = 4
)

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	infraconfig "realtrade/internal/infrastructure/config"
)

const (
	ModeDevelopment = "development"
	ModeProduction  = "production"
)

type Config struct {
	// Common
	Mode     string
	LogLevel string
	TimeZone string
	// API (quote backend)
	APIPort         string
	AwesomeAPIBase  string
	UpstreamTimeout time.Duration
	// Viewer
	ViewerPort      string
	QuoteSource     string
	BackendURL      string
	PublicFXAPIBase string
	PrimaryTimeout  time.Duration
	SessionTTL      time.Duration
	// History
	HistoryBackend   string
	HistoryLimit     int
	HistoryViewLimit int
	HistoryQueueSize int
	StoreTimeout     time.Duration
	DatabaseURL      string
	// Redis (history documents)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

func durMS(key string, defMS int) time.Duration {
	return time.Duration(atoiDef(getEnv(key, strconv.Itoa(defMS)), defMS)) * time.Millisecond
}

func ms(d time.Duration) int { return int(d / time.Millisecond) }

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Mode:             strings.ToLower(getEnv("APP_MODE", ModeDevelopment)),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		TimeZone:         getEnv("DISPLAY_TZ", "America/Sao_Paulo"),
		APIPort:          getEnv("API_PORT", "5000"),
		AwesomeAPIBase:   getEnv("AWESOME_API_BASE", "https://economia.awesomeapi.com.br"),
		UpstreamTimeout:  durMS("UPSTREAM_TIMEOUT_MS", 5000),
		ViewerPort:       getEnv("VIEWER_PORT", "8080"),
		QuoteSource:      getEnv("QUOTE_SOURCE", "http"),
		BackendURL:       getEnv("BACKEND_URL", "http://localhost:5000"),
		PublicFXAPIBase:  getEnv("PUBLIC_FX_API_BASE", "https://api.exchangerate-api.com"),
		PrimaryTimeout:   durMS("PRIMARY_TIMEOUT_MS", ms(infraconfig.DefaultPrimaryTimeout)),
		SessionTTL:       durMS("SESSION_TTL_MS", ms(infraconfig.DefaultSessionTTL)),
		HistoryBackend:   getEnv("HISTORY_BACKEND", "pg"),
		HistoryLimit:     atoiDef(getEnv("HISTORY_LIMIT", "10"), 10),
		HistoryViewLimit: atoiDef(getEnv("HISTORY_VIEW_LIMIT", "20"), 20),
		HistoryQueueSize: atoiDef(getEnv("HISTORY_QUEUE_SIZE", ""), infraconfig.DefaultHistoryQueueSize),
		StoreTimeout:     durMS("STORE_TIMEOUT_MS", 0),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          atoiDef(getEnv("REDIS_DB", "0"), 0),
	}
}

// Production reports whether the app runs in production mode: the public
// provider is primary and the history store is never attempted.
func (c Config) Production() bool { return c.Mode == ModeProduction }

// HistoryEnabled reports whether a history store should be built at all.
func (c Config) HistoryEnabled() bool {
	return !c.Production() && c.HistoryBackend != "" && c.HistoryBackend != "none"
}

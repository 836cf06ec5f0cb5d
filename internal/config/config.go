package config

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all server configuration.
type Config struct {
	HTTPAddr string

	// Persistence. Empty DatabaseURL falls back to the in-memory repository.
	DatabaseURL string

	// Blob storage. A bucket name selects GCS; otherwise artifacts land under
	// DataDir on local disk.
	GCSBucket          string
	GCSCredentialsPath string
	DataDir            string

	// Progress log files, one per job.
	LogsDir string

	// Application log file (rotated). Empty logs to stdout only.
	AppLogFile string

	// Upstream listings.
	CMCAPIKey string

	// Capture behavior.
	CDPRemoteURL   string
	CaptureSettle  time.Duration
	CaptureTimeout time.Duration
	ViewportWidth  int
	ViewportHeight int

	// Chart parameters.
	Exchange   string
	Theme      string
	Timeframe  string
	WindowDays int

	// Push notifications.
	FCMTopic string
}

// Load reads configuration from environment variables and optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &Config{
		HTTPAddr:           getEnvOrDefault("HTTP_ADDR", ":8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		GCSBucket:          os.Getenv("GCS_BUCKET"),
		GCSCredentialsPath: os.Getenv("GCS_CREDENTIALS_PATH"),
		DataDir:            getEnvOrDefault("DATA_DIR", "./data"),
		LogsDir:            getEnvOrDefault("LOGS_DIR", "./logs"),
		AppLogFile:         os.Getenv("APP_LOG_FILE"),
		CMCAPIKey:          os.Getenv("CMC_API_KEY"),
		CDPRemoteURL:       os.Getenv("CHROMIUM_CDP_URL"),
		CaptureSettle:      getEnvDurationOrDefault("CAPTURE_SETTLE_DELAY", 3*time.Second),
		CaptureTimeout:     getEnvDurationOrDefault("CAPTURE_TIMEOUT", 60*time.Second),
		ViewportWidth:      getEnvIntOrDefault("CAPTURE_VIEWPORT_WIDTH", 1920),
		ViewportHeight:     getEnvIntOrDefault("CAPTURE_VIEWPORT_HEIGHT", 1080),
		Exchange:           getEnvOrDefault("CHART_EXCHANGE", "BINANCE"),
		Theme:              getEnvOrDefault("CHART_THEME", "light"),
		Timeframe:          getEnvOrDefault("CHART_TIMEFRAME", "1D"),
		WindowDays:         getEnvIntOrDefault("CHART_WINDOW_DAYS", 365),
		FCMTopic:           getEnvOrDefault("FCM_TOPIC", "chart_fetch"),
	}

	return cfg, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

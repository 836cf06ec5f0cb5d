package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"

	"chartsnap-backend/internal/config"
	httpdelivery "chartsnap-backend/internal/delivery/http"
	wsdelivery "chartsnap-backend/internal/delivery/websocket"
	"chartsnap-backend/internal/domain"
	"chartsnap-backend/internal/infrastructure/binance"
	"chartsnap-backend/internal/infrastructure/capture"
	"chartsnap-backend/internal/infrastructure/db"
	"chartsnap-backend/internal/infrastructure/fcm"
	"chartsnap-backend/internal/infrastructure/markets"
	"chartsnap-backend/internal/infrastructure/storage"
	"chartsnap-backend/internal/infrastructure/system"
	"chartsnap-backend/internal/logging"
	"chartsnap-backend/internal/progress"
	"chartsnap-backend/internal/repository"
	"chartsnap-backend/internal/usecase"
)

// chartRepository is what main needs from a repository: both the write side
// the orchestrator uses and the read side the version routes use.
type chartRepository interface {
	domain.Persistence
	domain.VersionQuery
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.AppLogFile)

	ctx := context.Background()
	ids := system.UUIDGenerator{}
	clock := system.Clock{}

	// Persistence: Postgres when configured, in-memory otherwise.
	var repo chartRepository
	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.PoolConfigFromEnv())
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := db.Migrate(ctx, pool); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		repo = repository.NewPostgresChartRepository(pool, ids, clock)
		slog.Info("using postgres persistence")
	} else {
		repo = repository.NewInMemoryChartRepository(ids, clock)
		slog.Warn("DATABASE_URL not set, records are kept in memory only")
	}

	// Blob storage: GCS when a bucket is configured, local disk otherwise.
	var blobs domain.Storage
	if cfg.GCSBucket != "" {
		gcs, err := storage.NewGCSStorage(ctx, cfg.GCSBucket, cfg.GCSCredentialsPath)
		if err != nil {
			slog.Error("failed to init gcs storage", "error", err)
			os.Exit(1)
		}
		defer gcs.Close()
		blobs = gcs
		slog.Info("using gcs storage", "bucket", cfg.GCSBucket)
	} else {
		blobs = storage.NewFilesystemStorage(cfg.DataDir)
		slog.Info("using filesystem storage", "dir", cfg.DataDir)
	}

	viewport := domain.Viewport{Width: cfg.ViewportWidth, Height: cfg.ViewportHeight}
	capturer := capture.NewChromeCapturer(capture.Options{
		RemoteURL:   cfg.CDPRemoteURL,
		Viewport:    viewport,
		SettleDelay: cfg.CaptureSettle,
		Timeout:     cfg.CaptureTimeout,
	})
	defer capturer.Close()

	notifier, err := fcm.NewClient(ctx, cfg.FCMTopic)
	if err != nil {
		slog.Error("failed to init fcm client", "error", err)
		os.Exit(1)
	}

	jobCfg := usecase.FetchJobConfig{
		Exchange:        cfg.Exchange,
		Theme:           cfg.Theme,
		Timeframe:       cfg.Timeframe,
		WindowDays:      cfg.WindowDays,
		CollapseToolbar: true,
		Viewport:        viewport,
	}
	jobDeps := usecase.FetchJobDeps{
		Symbols:  markets.NewClient("", "", cfg.CMCAPIKey),
		Resolver: binance.NewClient(""),
		Capturer: capturer,
		Storage:  blobs,
		DB:       repo,
	}

	hub := progress.NewHub()

	var completion httpdelivery.CompletionNotifier
	if notifier.Enabled() {
		completion = notifier
	}

	fetchHandler := httpdelivery.NewFetchHandler(jobCfg, jobDeps, ids, clock, cfg.LogsDir, hub, completion)
	versionHandler := httpdelivery.NewVersionHandler(repo)
	wsHandler := wsdelivery.NewHandler(hub)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws/progress", wsHandler.Handle)
	mux.Handle("/", httpdelivery.NewRouter(fetchHandler, versionHandler))

	slog.Info("server listening", "addr", cfg.HTTPAddr)
	if err := http.ListenAndServe(cfg.HTTPAddr, mux); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

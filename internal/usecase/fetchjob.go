package usecase

import (
	"context"
	"fmt"

	"chartsnap-backend/internal/domain"
)

// FetchJobConfig carries the fixed chart parameters of a run. Everything is
// explicit; there is no ambient default lookup inside the pipeline.
type FetchJobConfig struct {
	Exchange        string
	Theme           string
	Timeframe       string
	WindowDays      int
	CollapseToolbar bool
	Viewport        domain.Viewport
}

// DefaultFetchJobConfig returns the production chart parameters: Binance
// venue, light theme, daily candles over a one-year window, toolbar
// collapsed, Full HD capture viewport.
func DefaultFetchJobConfig() FetchJobConfig {
	return FetchJobConfig{
		Exchange:        "BINANCE",
		Theme:           "light",
		Timeframe:       "1D",
		WindowDays:      365,
		CollapseToolbar: true,
		Viewport:        domain.Viewport{Width: 1920, Height: 1080},
	}
}

// FetchJobDeps is the injected port set of one run. Logger may be nil, in
// which case progress lines are dropped.
type FetchJobDeps struct {
	Symbols  domain.SymbolSource
	Resolver domain.PairResolver
	Capturer domain.Capturer
	Storage  domain.Storage
	DB       domain.Persistence
	Logger   domain.ProgressLogger
}

// FetchJobResult summarizes a completed run.
type FetchJobResult struct {
	VersionID      string `json:"versionId"`
	ProcessedPairs int    `json:"processedPairs"`
}

// FetchJobUsecase drives one fetch/capture run: list symbols, resolve pairs,
// create the version record, then capture, optionally anonymize, upload and
// persist each pair strictly in order.
type FetchJobUsecase struct {
	cfg  FetchJobConfig
	deps FetchJobDeps
}

func NewFetchJobUsecase(cfg FetchJobConfig, deps FetchJobDeps) *FetchJobUsecase {
	return &FetchJobUsecase{cfg: cfg, deps: deps}
}

// Run executes the pipeline. No retries and no partial-failure recovery:
// every port failure terminates the run at the point of failure, and records
// already written stay durable. Pairs are processed one at a time in
// resolution order, so progress lines come out monotonically.
func (uc *FetchJobUsecase) Run(ctx context.Context, params domain.FetchJobParams) (FetchJobResult, error) {
	symbols, err := uc.deps.Symbols.ListTopSymbols(ctx, domain.ListQuery{
		Limit:  params.Limit,
		Source: params.Source,
	})
	if err != nil {
		return FetchJobResult{}, fmt.Errorf("list top symbols: %w", err)
	}

	// Tickers without a tradable canonical pair are dropped silently.
	pairs := make([]domain.CanonicalPair, 0, len(symbols))
	for _, symbol := range symbols {
		pair, ok, err := uc.deps.Resolver.ResolvePreferredPair(ctx, symbol)
		if err != nil {
			return FetchJobResult{}, fmt.Errorf("resolve pair for %s: %w", symbol, err)
		}
		if ok {
			pairs = append(pairs, pair)
		}
	}

	version, err := uc.deps.DB.CreateVersion(ctx, params.Source, len(pairs))
	if err != nil {
		return FetchJobResult{}, fmt.Errorf("create version: %w", err)
	}

	if err := uc.logf(ctx, "job:start version=%s pairs=%d", version.ID, len(pairs)); err != nil {
		return FetchJobResult{}, err
	}

	processed := 0
	for _, pair := range pairs {
		if err := uc.processPair(ctx, version.ID, pair, params.IncludeAnonymized); err != nil {
			return FetchJobResult{}, err
		}
		processed++
		if err := uc.logf(ctx, "job:progress version=%s pair=%s processed=%d", version.ID, pair, processed); err != nil {
			return FetchJobResult{}, err
		}
	}

	if err := uc.logf(ctx, "job:complete version=%s processed=%d", version.ID, processed); err != nil {
		return FetchJobResult{}, err
	}

	return FetchJobResult{VersionID: version.ID, ProcessedPairs: processed}, nil
}

// processPair captures one pair and stores its artifacts. The image record
// is only inserted after its bytes were uploaded.
func (uc *FetchJobUsecase) processPair(ctx context.Context, versionID string, pair domain.CanonicalPair, includeAnonymized bool) error {
	url := domain.BuildChartURL(domain.ChartURLParams{
		Exchange:        uc.cfg.Exchange,
		Pair:            pair,
		Theme:           uc.cfg.Theme,
		Timeframe:       uc.cfg.Timeframe,
		WindowDays:      uc.cfg.WindowDays,
		CollapseToolbar: uc.cfg.CollapseToolbar,
	})

	full, err := uc.deps.Capturer.CaptureFullScreenshot(ctx, url)
	if err != nil {
		return fmt.Errorf("capture %s: %w", pair, err)
	}

	fullKey := artifactKey(versionID, pair, domain.ImageTypeFull)
	fullPath, err := uc.deps.Storage.Upload(ctx, fullKey, full)
	if err != nil {
		return fmt.Errorf("upload %s: %w", fullKey, err)
	}
	if _, err := uc.deps.DB.InsertImage(ctx, domain.NewImage{
		VersionID: versionID,
		Type:      domain.ImageTypeFull,
		Pair:      pair,
		Path:      fullPath,
	}); err != nil {
		return fmt.Errorf("insert full image for %s: %w", pair, err)
	}

	if !includeAnonymized {
		return nil
	}

	box, err := domain.ComputeAnonymizedCropBox(uc.cfg.Viewport)
	if err != nil {
		return fmt.Errorf("crop box for %s: %w", pair, err)
	}
	anon, err := uc.deps.Capturer.Crop(full, box)
	if err != nil {
		return fmt.Errorf("crop %s: %w", pair, err)
	}

	anonKey := artifactKey(versionID, pair, domain.ImageTypeAnon)
	anonPath, err := uc.deps.Storage.Upload(ctx, anonKey, anon)
	if err != nil {
		return fmt.Errorf("upload %s: %w", anonKey, err)
	}
	if _, err := uc.deps.DB.InsertImage(ctx, domain.NewImage{
		VersionID: versionID,
		Type:      domain.ImageTypeAnon,
		Pair:      pair,
		Path:      anonPath,
	}); err != nil {
		return fmt.Errorf("insert anon image for %s: %w", pair, err)
	}

	return nil
}

func (uc *FetchJobUsecase) logf(ctx context.Context, format string, args ...any) error {
	if uc.deps.Logger == nil {
		return nil
	}
	if err := uc.deps.Logger.Log(ctx, fmt.Sprintf(format, args...)); err != nil {
		return fmt.Errorf("progress log: %w", err)
	}
	return nil
}

// artifactKey is the storage key contract other tooling relies on:
// screens/{versionId}/{pair}/{full|anon}.png
func artifactKey(versionID string, pair domain.CanonicalPair, t domain.ImageType) string {
	return fmt.Sprintf("screens/%s/%s/%s.png", versionID, pair, t)
}

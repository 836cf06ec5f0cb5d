package domain

import (
	"context"
	"time"
)

// Ports consumed by the fetch job orchestrator. Each has at least a
// production implementation under internal/infrastructure or
// internal/repository, and an in-memory double for tests.

// ListQuery parameterizes a top-symbol listing.
type ListQuery struct {
	Limit  int
	Source Source
}

// SymbolSource lists up to Limit raw ticker symbols from the selected
// upstream. Ordering defines resolution priority.
type SymbolSource interface {
	ListTopSymbols(ctx context.Context, q ListQuery) ([]string, error)
}

// PairResolver maps a raw ticker to its preferred canonical pair.
// ok=false means the ticker has no tradable canonical pair on the configured
// venue; that is not an error. The resolution is deterministic per symbol.
type PairResolver interface {
	ResolvePreferredPair(ctx context.Context, symbol string) (pair CanonicalPair, ok bool, err error)
}

// Capturer produces screenshot bytes for a chart URL and crops them.
// Neither operation is retried by the orchestrator.
type Capturer interface {
	CaptureFullScreenshot(ctx context.Context, url string) ([]byte, error)
	Crop(data []byte, box CropBox) ([]byte, error)
}

// Storage persists artifact bytes under a key and returns the stored path
// recorded in the image record.
type Storage interface {
	Upload(ctx context.Context, key string, data []byte) (string, error)
}

// Persistence creates the relational records of a run. Each call assigns the
// record's id and timestamp and is atomic.
type Persistence interface {
	CreateVersion(ctx context.Context, source Source, coinCount int) (VersionRecord, error)
	InsertImage(ctx context.Context, img NewImage) (ImageRecord, error)
}

// VersionQuery is the read side backing the versions routes. Kept separate
// from Persistence so the orchestrator depends only on the two writes.
type VersionQuery interface {
	GetVersion(ctx context.Context, id string) (VersionRecord, error)
	ListVersions(ctx context.Context, limit, offset int) ([]VersionRecord, error)
	ListImagesByVersion(ctx context.Context, versionID string) ([]ImageRecord, error)
}

// IDGenerator mints opaque identifiers. The delivery layer uses it for job
// ids; persistence adapters use it for record ids.
type IDGenerator interface {
	GenerateID() string
}

// Clock is injected wherever wall time is stamped, so tests stay
// deterministic.
type Clock interface {
	Now() time.Time
}

// ProgressLogger receives the ordered progress lines of a run. Messages are
// free text carrying the job:start, job:progress and job:complete markers
// monitoring callers depend on.
type ProgressLogger interface {
	Log(ctx context.Context, message string) error
}

package domain

import "time"

// Source selects which upstream listing feeds the symbol source. The value is
// interpreted entirely inside the SymbolSource implementation.
type Source string

const (
	SourceCMC       Source = "cmc"
	SourceCoinGecko Source = "cg"
	SourceBoth      Source = "both"
)

// ValidSource reports whether s is one of the known source selectors.
func ValidSource(s Source) bool {
	return s == SourceCMC || s == SourceCoinGecko || s == SourceBoth
}

// ImageType distinguishes the two artifacts stored per pair.
type ImageType string

const (
	ImageTypeFull ImageType = "full"
	ImageTypeAnon ImageType = "anon"
)

// FetchJobParams is the caller-supplied parameter set for one fetch job run.
type FetchJobParams struct {
	Limit             int    `json:"limit"`
	Source            Source `json:"source"`
	IncludeAnonymized bool   `json:"includeAnonymized"`
}

// VersionRecord identifies one fetch job run. Created exactly once per run,
// never mutated. CoinCount counts resolved pairs, not raw symbols.
type VersionRecord struct {
	ID        string    `json:"id"`
	Source    Source    `json:"source"`
	CreatedAt time.Time `json:"createdAt"`
	CoinCount int       `json:"coinCount"`
}

// ImageRecord describes one stored screenshot artifact. Its VersionID always
// references a VersionRecord created earlier in the same run.
type ImageRecord struct {
	ID         string        `json:"id"`
	VersionID  string        `json:"versionId"`
	Type       ImageType     `json:"type"`
	Pair       CanonicalPair `json:"pair"`
	CapturedAt time.Time     `json:"capturedAt"`
	Path       string        `json:"path"`
	ThumbPath  string        `json:"thumbPath,omitempty"` // reserved, unused by the pipeline
}

// NewImage carries the caller-controlled fields of an image insert; the
// persistence adapter assigns ID and CapturedAt.
type NewImage struct {
	VersionID string
	Type      ImageType
	Pair      CanonicalPair
	Path      string
	ThumbPath string
}

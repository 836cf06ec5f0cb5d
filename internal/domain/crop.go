package domain

import (
	"errors"
	"fmt"
	"math"
)

// Band ratios hiding the chart provider's header and timeline chrome.
// Fixed empirically; no pixel inspection needed.
const (
	topBandRatio    = 0.08
	bottomBandRatio = 0.12
)

// ErrInvalidViewport is returned when the viewport is too small for both
// bands to fit.
var ErrInvalidViewport = errors.New("invalid crop box for given viewport")

// Viewport is a pixel viewport size.
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// CropBox is the rectangular sub-region kept after anonymization.
type CropBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// ComputeAnonymizedCropBox strips the top label band and the bottom timeline
// band from a screenshot of the given viewport. Negative input dimensions are
// not checked separately; they surface through the non-positive size check.
func ComputeAnonymizedCropBox(vp Viewport) (CropBox, error) {
	top := int(math.Round(float64(vp.Height) * topBandRatio))
	bottom := int(math.Round(float64(vp.Height) * bottomBandRatio))

	height := vp.Height - top - bottom
	if height <= 0 || vp.Width <= 0 {
		return CropBox{}, fmt.Errorf("%w: %dx%d", ErrInvalidViewport, vp.Width, vp.Height)
	}

	return CropBox{X: 0, Y: top, Width: vp.Width, Height: height}, nil
}

package capture

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"chartsnap-backend/internal/domain"
)

// CropPNG decodes data, copies the crop box region and re-encodes it as PNG.
// The box must lie fully inside the image bounds.
func CropPNG(data []byte, box domain.CropBox) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode png: %w", err)
	}

	rect := image.Rect(box.X, box.Y, box.X+box.Width, box.Y+box.Height)
	if !rect.In(img.Bounds()) {
		return nil, fmt.Errorf("crop box %v outside image bounds %v", rect, img.Bounds())
	}

	dst := image.NewRGBA(image.Rect(0, 0, box.Width, box.Height))
	draw.Draw(dst, dst.Bounds(), img, rect.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

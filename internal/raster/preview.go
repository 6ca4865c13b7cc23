package raster

import (
	"bytes"
	"fmt"
	"image"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

const (
	// DefaultPreviewWidth and DefaultPreviewHeight match a 16:9 feed tile
	DefaultPreviewWidth  = 320
	DefaultPreviewHeight = 180

	previewQuality = 80
)

// EncodePreview crop-fills img to width x height around its centre and
// encodes the result as lossy WebP.
func EncodePreview(img image.Image, width, height int) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("raster: nil image")
	}
	if width <= 0 || height <= 0 {
		width, height = DefaultPreviewWidth, DefaultPreviewHeight
	}

	filled := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	opts := &webp.Options{Lossless: false, Quality: previewQuality}
	if err := webp.Encode(&buf, filled, opts); err != nil {
		return nil, fmt.Errorf("raster: encode preview: %w", err)
	}
	return buf.Bytes(), nil
}

// Package raster turns uploaded bytes into the pixel buffers the analyzers
// read, and renders the small previews shown in the simulated feed.
package raster

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
)

var (
	// ErrEmptyInput is returned when there are no bytes to decode
	ErrEmptyInput = errors.New("raster: empty input")
	// ErrUnsupportedFormat is returned when no registered decoder accepts the bytes
	ErrUnsupportedFormat = errors.New("raster: unknown or unsupported format")
	// ErrTooLarge is returned when the header announces more pixels than allowed
	ErrTooLarge = errors.New("raster: image exceeds the pixel limit")
)

// DefaultMaxPixels is the pixel budget Decode applies
const DefaultMaxPixels = 50_000_000

// Image is a decoded, row-major RGBA buffer with stride 4*Width.
// Colour values are not premultiplied. It must not be modified after construction.
type Image struct {
	Width  int
	Height int
	Pix    []uint8
}

// FromImage copies any image.Image into a raster Image with origin (0,0)
func FromImage(img image.Image) *Image {
	if img == nil {
		return &Image{}
	}
	nrgba := imaging.Clone(img)
	b := nrgba.Bounds()
	return &Image{
		Width:  b.Dx(),
		Height: b.Dy(),
		Pix:    nrgba.Pix,
	}
}

// Offset returns the index of the red byte of pixel (x, y)
func (r *Image) Offset(x, y int) int {
	return (y*r.Width + x) * 4
}

// RGB returns the colour channels of pixel (x, y)
func (r *Image) RGB(x, y int) (uint8, uint8, uint8) {
	i := r.Offset(x, y)
	return r.Pix[i], r.Pix[i+1], r.Pix[i+2]
}

// PixelCount returns Width*Height
func (r *Image) PixelCount() int {
	return r.Width * r.Height
}

// Empty reports whether the image has no pixels
func (r *Image) Empty() bool {
	return r == nil || r.Width <= 0 || r.Height <= 0 || len(r.Pix) < r.PixelCount()*4
}

// Luma returns 0.299R+0.587G+0.114B for every pixel in row-major order
func (r *Image) Luma() []float64 {
	if r.Empty() {
		return nil
	}
	out := make([]float64, r.PixelCount())
	for i := range out {
		p := i * 4
		out[i] = Luma(r.Pix[p], r.Pix[p+1], r.Pix[p+2])
	}
	return out
}

// Luma is the perceptual grey value of one RGB triple
func Luma(r, g, b uint8) float64 {
	return 0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)
}

// Decode rasterizes jpeg, png, gif and webp bytes. The returned string is the
// format name reported by the decoder.
func Decode(data []byte) (image.Image, string, error) {
	return DecodeLimit(data, DefaultMaxPixels)
}

// DecodeLimit is Decode with a pixel budget read from the image header, so
// oversized images are refused before their pixels are allocated. A
// maxPixels of zero or less disables the check.
func DecodeLimit(data []byte, maxPixels int) (image.Image, string, error) {
	if len(data) == 0 {
		return nil, "", ErrEmptyInput
	}
	if maxPixels > 0 {
		if err := checkPixels(data, int64(maxPixels)); err != nil {
			return nil, "", err
		}
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return img, format, nil
	}

	// Some encoders emit webp variants the pure Go decoder rejects
	if wimg, werr := webp.Decode(bytes.NewReader(data)); werr == nil {
		return wimg, "webp", nil
	}

	return nil, "", fmt.Errorf("%w: %v", ErrUnsupportedFormat, err)
}

// checkPixels compares the header dimensions against maxPixels. Headers no
// decoder understands pass through; the full decode reports them.
func checkPixels(data []byte, maxPixels int64) error {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		cfg, err = webp.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil
		}
	}
	if int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return fmt.Errorf("%w: %dx%d", ErrTooLarge, cfg.Width, cfg.Height)
	}
	return nil
}

// Downscale fits img inside a maxDim x maxDim box, preserving aspect ratio.
// Images already within the box are copied unchanged.
func Downscale(img image.Image, maxDim int) *Image {
	if img == nil {
		return &Image{}
	}
	if maxDim <= 0 {
		return FromImage(img)
	}
	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return FromImage(img)
	}
	fitted := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
	fb := fitted.Bounds()
	return &Image{Width: fb.Dx(), Height: fb.Dy(), Pix: fitted.Pix}
}

package analyzer

import (
	"math"

	"github.com/anime-shed/thumbnail-inspector-go/internal/raster"
)

// Mask is a row-major binary image
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

// NewMask allocates an all-false mask
func NewMask(width, height int) Mask {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return Mask{Width: width, Height: height, Bits: make([]bool, width*height)}
}

// At reports whether (x, y) is set. Out-of-range coordinates are unset.
func (m Mask) At(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return false
	}
	return m.Bits[y*m.Width+x]
}

// Set marks (x, y)
func (m Mask) Set(x, y int) {
	m.Bits[y*m.Width+x] = true
}

// Count returns the number of set pixels
func (m Mask) Count() int {
	n := 0
	for _, b := range m.Bits {
		if b {
			n++
		}
	}
	return n
}

// DetectEdges marks pixels whose Sobel gradient magnitude on luma exceeds
// threshold. The outermost ring of pixels is never marked.
func DetectEdges(img *raster.Image, threshold float64) Mask {
	if img.Empty() {
		return NewMask(0, 0)
	}
	return detectEdgesFromLuma(img.Luma(), img.Width, img.Height, threshold)
}

func detectEdgesFromLuma(luma []float64, w, h int, threshold float64) Mask {
	mask := NewMask(w, h)
	l := func(x, y int) float64 { return luma[y*w+x] }

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := -l(x-1, y-1) + l(x+1, y-1) -
				2*l(x-1, y) + 2*l(x+1, y) -
				l(x-1, y+1) + l(x+1, y+1)
			gy := -l(x-1, y-1) - 2*l(x, y-1) - l(x+1, y-1) +
				l(x-1, y+1) + 2*l(x, y+1) + l(x+1, y+1)

			if math.Sqrt(gx*gx+gy*gy) > threshold {
				mask.Set(x, y)
			}
		}
	}
	return mask
}

package analyzer

import (
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/stat"

	"github.com/anime-shed/thumbnail-inspector-go/internal/raster"
)

const (
	// Every 4th pixel in flat order is sampled for dominant colours
	dominantSampleStride = 4
	dominantBucketSize   = 32
	dominantColorCount   = 3

	// Summed-RGB difference that counts as a sharp boundary
	boundaryThreshold = 100
)

// PixelStatistics holds the whole-image colour metrics
type PixelStatistics struct {
	Brightness      float64
	Contrast        float64
	Colorfulness    float64
	DominantColors  []DominantColor
	TextReadability float64
}

// ComputePixelStatistics measures brightness, contrast, colourfulness,
// dominant colours and boundary density on one raster. An empty raster
// yields zeros.
func ComputePixelStatistics(img *raster.Image) PixelStatistics {
	if img.Empty() {
		return PixelStatistics{DominantColors: []DominantColor{}}
	}

	mean, variance := stat.PopMeanVariance(img.Luma(), nil)

	return PixelStatistics{
		Brightness:      mean,
		Contrast:        math.Sqrt(variance),
		Colorfulness:    colorfulness(img),
		DominantColors:  dominantColors(img),
		TextReadability: boundaryDensity(img),
	}
}

// VisualImpact blends the pixel statistics into a single 0-100 value
func VisualImpact(s PixelStatistics) float64 {
	b := math.Min(s.Brightness/255*100, 100)
	c := math.Min(s.Contrast/50*100, 100)
	return b*0.2 + c*0.3 + s.Colorfulness*0.3 + math.Min(s.TextReadability, 100)*0.2
}

// colorfulness is the mean HSV-style saturation (max-min)/max, as a percentage
func colorfulness(img *raster.Image) float64 {
	var sum float64
	n := img.PixelCount()
	for i := 0; i < n; i++ {
		p := i * 4
		r := float64(img.Pix[p]) / 255
		g := float64(img.Pix[p+1]) / 255
		b := float64(img.Pix[p+2]) / 255
		hi := math.Max(r, math.Max(g, b))
		lo := math.Min(r, math.Min(g, b))
		if hi > 0 {
			sum += (hi - lo) / hi
		}
	}
	return sum / float64(n) * 100
}

type colorBucket struct {
	r, g, b uint8
}

func quantize(v uint8) uint8 {
	return v / dominantBucketSize * dominantBucketSize
}

// dominantColors returns the most frequent quantized buckets. Ties keep the
// order in which buckets were first seen.
func dominantColors(img *raster.Image) []DominantColor {
	counts := make(map[colorBucket]int)
	order := make([]colorBucket, 0, 64)

	n := img.PixelCount()
	for i := 0; i < n; i += dominantSampleStride {
		p := i * 4
		key := colorBucket{quantize(img.Pix[p]), quantize(img.Pix[p+1]), quantize(img.Pix[p+2])}
		if _, seen := counts[key]; !seen {
			order = append(order, key)
		}
		counts[key]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})

	if len(order) > dominantColorCount {
		order = order[:dominantColorCount]
	}

	out := make([]DominantColor, 0, len(order))
	for _, k := range order {
		out = append(out, DominantColor{
			R:     k.r,
			G:     k.g,
			B:     k.b,
			Hex:   hexColor(k.r, k.g, k.b),
			Count: counts[k],
		})
	}
	return out
}

func hexColor(r, g, b uint8) string {
	return colorful.Color{R: float64(r) / 255, G: float64(g) / 255, B: float64(b) / 255}.Hex()
}

// boundaryDensity counts interior pixels whose summed RGB differs sharply from
// the right or bottom neighbour, scaled so that 1% of pixels reads as 100
func boundaryDensity(img *raster.Image) float64 {
	w, h := img.Width, img.Height
	if w < 3 || h < 3 {
		return 0
	}

	sum := func(x, y int) int {
		r, g, b := img.RGB(x, y)
		return int(r) + int(g) + int(b)
	}

	count := 0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			cur := sum(x, y)
			if absInt(cur-sum(x+1, y)) > boundaryThreshold || absInt(cur-sum(x, y+1)) > boundaryThreshold {
				count++
			}
		}
	}

	return math.Min(float64(count)/float64(w*h)*10000, 100)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

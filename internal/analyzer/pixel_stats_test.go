package analyzer

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/anime-shed/thumbnail-inspector-go/internal/raster"
)

func TestComputePixelStatistics_Uniform(t *testing.T) {
	img := raster.FromImage(createTestImage(100, 100, color.RGBA{128, 128, 128, 255}))

	stats := ComputePixelStatistics(img)

	if math.Abs(stats.Brightness-128) > 0.01 {
		t.Errorf("Expected brightness ~128, got %f", stats.Brightness)
	}
	if stats.Contrast > 0.01 {
		t.Errorf("Expected zero contrast for a uniform image, got %f", stats.Contrast)
	}
	if stats.Colorfulness != 0 {
		t.Errorf("Expected zero colorfulness for grey, got %f", stats.Colorfulness)
	}
	if stats.TextReadability != 0 {
		t.Errorf("Expected no boundaries, got %f", stats.TextReadability)
	}
	if len(stats.DominantColors) != 1 {
		t.Fatalf("Expected 1 dominant color, got %d", len(stats.DominantColors))
	}

	dc := stats.DominantColors[0]
	if dc.R != 128 || dc.G != 128 || dc.B != 128 {
		t.Errorf("Expected bucket (128,128,128), got (%d,%d,%d)", dc.R, dc.G, dc.B)
	}
	if dc.Hex != "#808080" {
		t.Errorf("Expected hex #808080, got %s", dc.Hex)
	}
	if dc.Count != 2500 {
		t.Errorf("Expected 2500 sampled pixels, got %d", dc.Count)
	}
}

func TestComputePixelStatistics_PureRed(t *testing.T) {
	img := raster.FromImage(createTestImage(50, 50, color.RGBA{255, 0, 0, 255}))

	stats := ComputePixelStatistics(img)

	if math.Abs(stats.Colorfulness-100) > 0.001 {
		t.Errorf("Expected colorfulness 100, got %f", stats.Colorfulness)
	}
	if math.Abs(stats.Brightness-76.245) > 0.001 {
		t.Errorf("Expected brightness 76.245, got %f", stats.Brightness)
	}
	if stats.DominantColors[0].Hex != "#e00000" {
		t.Errorf("Expected quantized red #e00000, got %s", stats.DominantColors[0].Hex)
	}
}

func TestComputePixelStatistics_Black(t *testing.T) {
	img := raster.FromImage(createTestImage(20, 20, color.RGBA{0, 0, 0, 255}))

	stats := ComputePixelStatistics(img)

	if stats.Brightness != 0 || stats.Colorfulness != 0 {
		t.Errorf("Expected zero brightness and colorfulness, got %f and %f", stats.Brightness, stats.Colorfulness)
	}
}

func TestComputePixelStatistics_Empty(t *testing.T) {
	stats := ComputePixelStatistics(&raster.Image{})

	if stats.Brightness != 0 || stats.Contrast != 0 || len(stats.DominantColors) != 0 {
		t.Errorf("Expected zero statistics for an empty raster, got %+v", stats)
	}
}

func TestComputePixelStatistics_SplitImage(t *testing.T) {
	img := raster.FromImage(createSplitImage(100, 100))

	stats := ComputePixelStatistics(img)

	if math.Abs(stats.Brightness-127.5) > 0.01 {
		t.Errorf("Expected brightness ~127.5, got %f", stats.Brightness)
	}
	if math.Abs(stats.Contrast-127.5) > 0.01 {
		t.Errorf("Expected contrast ~127.5, got %f", stats.Contrast)
	}
	// One boundary column across the 98 interior rows
	if math.Abs(stats.TextReadability-98) > 0.001 {
		t.Errorf("Expected readability 98, got %f", stats.TextReadability)
	}
	if len(stats.DominantColors) != 2 {
		t.Fatalf("Expected 2 dominant colors, got %d", len(stats.DominantColors))
	}
	// Every 4th pixel lands on 13 black columns and 12 white ones
	if stats.DominantColors[0].Hex != "#000000" {
		t.Errorf("Expected black first, got %s", stats.DominantColors[0].Hex)
	}
}

func TestDominantColors_TopThree(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 40, 1))
	fills := []struct {
		n int
		c color.RGBA
	}{
		{4, color.RGBA{255, 0, 0, 255}},
		{8, color.RGBA{0, 255, 0, 255}},
		{12, color.RGBA{0, 0, 255, 255}},
		{16, color.RGBA{255, 255, 255, 255}},
	}
	x := 0
	for _, f := range fills {
		for i := 0; i < f.n; i++ {
			img.Set(x, 0, f.c)
			x++
		}
	}

	colors := dominantColors(raster.FromImage(img))

	if len(colors) != 3 {
		t.Fatalf("Expected 3 colors, got %d", len(colors))
	}
	expected := []string{"#e0e0e0", "#0000e0", "#00e000"}
	for i, hex := range expected {
		if colors[i].Hex != hex {
			t.Errorf("Expected color %d to be %s, got %s", i, hex, colors[i].Hex)
		}
	}
}

func TestVisualImpact(t *testing.T) {
	tests := []struct {
		name     string
		stats    PixelStatistics
		expected float64
	}{
		{"maxed", PixelStatistics{Brightness: 255, Contrast: 50, Colorfulness: 100, TextReadability: 100}, 100},
		{"zero", PixelStatistics{}, 0},
		{"capped inputs", PixelStatistics{Brightness: 255, Contrast: 120, Colorfulness: 0, TextReadability: 100}, 70},
		{"mid", PixelStatistics{Brightness: 127.5, Contrast: 25, Colorfulness: 50, TextReadability: 50}, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := VisualImpact(tt.stats)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Expected %f, got %f", tt.expected, got)
			}
		})
	}
}

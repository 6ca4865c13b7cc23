package analyzer

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"reflect"
	"testing"

	"github.com/anime-shed/thumbnail-inspector-go/internal/raster"
)

// createTestImage creates a test image with the specified color
func createTestImage(width, height int, fillColor color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, fillColor)
		}
	}
	return img
}

// createSplitImage creates a black left half and a white right half
func createSplitImage(width, height int) *image.RGBA {
	img := createTestImage(width, height, color.RGBA{0, 0, 0, 255})
	for y := 0; y < height; y++ {
		for x := width / 2; x < width; x++ {
			img.Set(x, y, color.RGBA{255, 255, 255, 255})
		}
	}
	return img
}

// fillRect paints a rectangle in place
func fillRect(img *image.RGBA, x0, y0, w, h int, c color.RGBA) {
	for y := y0; y < y0+h; y++ {
		for x := x0; x < x0+w; x++ {
			img.Set(x, y, c)
		}
	}
}

type panicTextDetector struct{}

func (panicTextDetector) Analyze(*raster.Image) TextAnalysis {
	panic("boom")
}

func TestNewThumbnailAnalyzer(t *testing.T) {
	analyzer := NewThumbnailAnalyzer(2)
	if analyzer == nil {
		t.Fatal("Expected non-nil analyzer")
	}
	if err := analyzer.Close(); err != nil {
		t.Errorf("Expected no error on close, got %v", err)
	}
}

func TestAnalyzeImage_Uniform(t *testing.T) {
	analyzer := NewThumbnailAnalyzer(2)
	defer analyzer.Close()

	img := createTestImage(800, 600, color.RGBA{128, 128, 128, 255})
	result := analyzer.AnalyzeImage(img, DefaultOptions())

	if result.Width != 800 || result.Height != 600 {
		t.Errorf("Expected source dimensions 800x600, got %dx%d", result.Width, result.Height)
	}
	if result.Degraded() {
		t.Errorf("Expected no warnings, got %v", result.Warnings)
	}
	if result.Text == nil || result.Person == nil {
		t.Fatal("Expected both sub-analyses to be present")
	}
	if result.Text.TextCount != 0 || result.Text.ReadabilityScore != 50 {
		t.Errorf("Expected default text analysis, got %+v", result.Text)
	}
	if result.Person.PersonCoverage != 0 || result.Person.DominantExpression != ExpressionNeutral {
		t.Errorf("Expected default person analysis, got %+v", result.Person)
	}
	if result.Brightness < 127 || result.Brightness > 129 {
		t.Errorf("Expected brightness ~128, got %f", result.Brightness)
	}
}

func TestAnalyzeImage_SkipsDisabledSubAnalyses(t *testing.T) {
	analyzer := NewThumbnailAnalyzer(1)
	defer analyzer.Close()

	img := createTestImage(100, 100, color.RGBA{10, 20, 30, 255})
	result := analyzer.AnalyzeImage(img, DefaultOptions().WithoutTextAnalysis().WithoutPersonAnalysis())

	if result.Text != nil {
		t.Error("Expected no text analysis")
	}
	if result.Person != nil {
		t.Error("Expected no person analysis")
	}
}

func TestAnalyzeImage_Title(t *testing.T) {
	analyzer := NewThumbnailAnalyzer(2)
	defer analyzer.Close()

	img := createTestImage(400, 200, color.RGBA{255, 255, 255, 255})
	fillRect(img, 150, 20, 100, 20, color.RGBA{0, 0, 0, 255})

	result := analyzer.AnalyzeImage(img, DefaultOptions())

	if result.Text == nil || !result.Text.HasTitle {
		t.Fatalf("Expected a title, got %+v", result.Text)
	}
	if result.Text.TextCount != 1 {
		t.Errorf("Expected 1 text region, got %d", result.Text.TextCount)
	}
}

func TestAnalyzeImage_Deterministic(t *testing.T) {
	analyzer := NewThumbnailAnalyzer(4)
	defer analyzer.Close()

	img := createTestImage(300, 200, color.RGBA{20, 40, 120, 255})
	fillRect(img, 100, 50, 90, 90, color.RGBA{224, 172, 140, 255})
	fillRect(img, 20, 10, 60, 12, color.RGBA{255, 255, 255, 255})

	first := analyzer.AnalyzeImage(img, DefaultOptions())
	second := analyzer.AnalyzeImage(img, DefaultOptions().WithoutWorkerPool())

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Expected identical analyses, got\n%+v\n%+v", first, second)
	}
}

func TestAnalyzeImage_RecoversSubAnalysisPanic(t *testing.T) {
	analyzer := NewThumbnailAnalyzer(2).(*coreAnalyzer)
	defer analyzer.Close()
	analyzer.newText = func(AnalysisOptions) TextDetector { return panicTextDetector{} }

	img := createTestImage(100, 100, color.RGBA{80, 80, 80, 255})
	result := analyzer.AnalyzeImage(img, DefaultOptions())

	if len(result.Warnings) != 1 || result.Warnings[0] != WarningTextAnalysisFailed {
		t.Fatalf("Expected a text failure warning, got %v", result.Warnings)
	}
	if result.Text == nil || result.Text.ReadabilityScore != 50 {
		t.Errorf("Expected default text analysis, got %+v", result.Text)
	}
	if result.Person == nil {
		t.Error("Expected person analysis to survive")
	}
}

func TestAnalyze_DecodeFailure(t *testing.T) {
	analyzer := NewThumbnailAnalyzer(1)
	defer analyzer.Close()

	result := analyzer.Analyze([]byte("not an image"), DefaultOptions())

	if len(result.Warnings) != 1 || result.Warnings[0] != WarningDecodeFailed {
		t.Fatalf("Expected decode warning, got %v", result.Warnings)
	}
	if result.Text == nil || result.Text.ReadabilityScore != 50 {
		t.Errorf("Expected default text analysis, got %+v", result.Text)
	}
	if result.Person == nil || result.Person.DominantExpression != ExpressionNeutral {
		t.Errorf("Expected default person analysis, got %+v", result.Person)
	}
	if result.Brightness != 0 || len(result.DominantColors) != 0 {
		t.Errorf("Expected zero statistics, got %+v", result)
	}
}

func TestAnalyze_PNGBytes(t *testing.T) {
	analyzer := NewThumbnailAnalyzer(1)
	defer analyzer.Close()

	var buf bytes.Buffer
	if err := png.Encode(&buf, createTestImage(64, 36, color.RGBA{200, 30, 30, 255})); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}

	result := analyzer.Analyze(buf.Bytes(), DefaultOptions())

	if result.Format != "png" {
		t.Errorf("Expected format png, got %q", result.Format)
	}
	if result.Width != 64 || result.Height != 36 {
		t.Errorf("Expected 64x36, got %dx%d", result.Width, result.Height)
	}
}

func TestFallbackAnalysis(t *testing.T) {
	result := FallbackAnalysis(DefaultOptions().WithoutPersonAnalysis(), WarningAnalysisTimedOut)

	if len(result.Warnings) != 1 || result.Warnings[0] != WarningAnalysisTimedOut {
		t.Fatalf("Expected timeout warning, got %v", result.Warnings)
	}
	if result.Text == nil || result.Person != nil {
		t.Errorf("Expected only the text default, got text=%v person=%v", result.Text, result.Person)
	}
	if !result.Degraded() {
		t.Error("Expected a degraded analysis")
	}
}

func TestAnalyzeImage_AfterClose(t *testing.T) {
	analyzer := NewThumbnailAnalyzer(1)
	analyzer.Close()
	analyzer.Close()

	result := analyzer.AnalyzeImage(createTestImage(50, 50, color.RGBA{1, 2, 3, 255}), DefaultOptions())
	if result.Text == nil || result.Person == nil {
		t.Error("Expected analysis to run inline after close")
	}
}

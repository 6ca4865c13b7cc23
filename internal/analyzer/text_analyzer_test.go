package analyzer

import (
	"image/color"
	"math"
	"testing"

	"github.com/anime-shed/thumbnail-inspector-go/internal/raster"
)

func TestTextDetector_TitleBar(t *testing.T) {
	img := createTestImage(400, 200, color.RGBA{255, 255, 255, 255})
	fillRect(img, 150, 20, 100, 20, color.RGBA{0, 0, 0, 255})

	result := NewTextDetector(DefaultOptions()).Analyze(raster.FromImage(img))

	if result.TextCount != 1 {
		t.Fatalf("Expected 1 detection, got %d", result.TextCount)
	}

	d := result.Detections[0]
	expectedBox := BoundingBox{X0: 149, Y0: 19, X1: 250, Y1: 40}
	if d.Box != expectedBox {
		t.Errorf("Expected box %+v, got %+v", expectedBox, d.Box)
	}
	if d.Text != "Text Region 1" || result.TotalText != "Text Region 1" {
		t.Errorf("Expected placeholder label, got %q / %q", d.Text, result.TotalText)
	}
	if d.Position != PositionTop {
		t.Errorf("Expected top position, got %s", d.Position)
	}
	if d.Confidence != 100 {
		t.Errorf("Expected confidence 100, got %d", d.Confidence)
	}
	if math.Abs(d.FontSize-10.5) > 1e-9 {
		t.Errorf("Expected font size 10.5, got %f", d.FontSize)
	}

	if !result.HasTitle {
		t.Error("Expected a title")
	}
	if result.TitleQuality != 100 {
		t.Errorf("Expected title quality 100, got %d", result.TitleQuality)
	}
	if result.AverageFontSize != 10.5 {
		t.Errorf("Expected average font size 10.5, got %f", result.AverageFontSize)
	}
	if math.Abs(result.TextCoverage-2.65) > 1e-9 {
		t.Errorf("Expected coverage 2.65, got %f", result.TextCoverage)
	}
	if result.ReadabilityScore != 100 {
		t.Errorf("Expected readability 100, got %d", result.ReadabilityScore)
	}
	if len(result.TextPositions) != 1 || result.TextPositions[0] != PositionTop {
		t.Errorf("Expected positions [top], got %v", result.TextPositions)
	}
}

func TestTextDetector_NoText(t *testing.T) {
	img := raster.FromImage(createTestImage(120, 80, color.RGBA{40, 40, 40, 255}))

	result := NewTextDetector(DefaultOptions()).Analyze(img)

	if result.TextCount != 0 || result.HasTitle || result.TitleQuality != 0 {
		t.Errorf("Expected empty analysis, got %+v", result)
	}
	if result.ReadabilityScore != 50 {
		t.Errorf("Expected default readability 50, got %d", result.ReadabilityScore)
	}
	if result.TextPositions == nil || len(result.TextPositions) != 0 {
		t.Errorf("Expected empty positions, got %v", result.TextPositions)
	}
}

func TestTextDetector_EmptyRaster(t *testing.T) {
	result := NewTextDetector(DefaultOptions()).Analyze(&raster.Image{})
	if result.ReadabilityScore != 50 {
		t.Errorf("Expected default analysis, got %+v", result)
	}
}

func TestIsLikelyTextBlock(t *testing.T) {
	tests := []struct {
		name     string
		box      BoundingBox
		expected bool
	}{
		{"wide word", BoundingBox{X0: 10, Y0: 10, X1: 60, Y1: 20}, true},
		{"flat line", BoundingBox{X0: 10, Y0: 10, X1: 60, Y1: 10}, false},
		{"too narrow", BoundingBox{X0: 10, Y0: 10, X1: 14, Y1: 20}, false},
		{"too elongated", BoundingBox{X0: 0, Y0: 10, X1: 110, Y1: 20}, false},
		{"too small", BoundingBox{X0: 0, Y0: 0, X1: 3, Y1: 3}, false},
		{"too large", BoundingBox{X0: 0, Y0: 0, X1: 100, Y1: 60}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isLikelyTextBlock(Blob{Box: tt.box}, 200, 100)
			if got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestTitleQuality_LargestFontWins(t *testing.T) {
	detections := []TextDetection{
		{FontSize: 5, Position: PositionTop, Readability: 50},
		{FontSize: 6, Position: PositionBottom, Readability: 100},
		{FontSize: 6, Position: PositionTop, Readability: 100},
	}

	got := titleQuality(detections)
	if got != 85 {
		t.Errorf("Expected 85 from the first largest font, got %f", got)
	}
}

func TestSummarizeText(t *testing.T) {
	detections := []TextDetection{
		{Text: "Text Region 1", Box: BoundingBox{X1: 20, Y1: 10}, FontSize: 5, Position: PositionCenter, Confidence: 90, Readability: 60},
		{Text: "Text Region 2", Box: BoundingBox{X1: 10, Y1: 10}, FontSize: 2, Position: PositionBottom, Confidence: 61, Readability: 31},
		{Text: "Text Region 3", Box: BoundingBox{X1: 10, Y1: 10}, FontSize: 2, Position: PositionCenter, Confidence: 70, Readability: 40},
	}

	result := summarizeText(detections, 100, 100)

	if result.AverageConfidence != 74 {
		t.Errorf("Expected average confidence 74, got %d", result.AverageConfidence)
	}
	if result.AverageFontSize != 3 {
		t.Errorf("Expected average font size 3, got %f", result.AverageFontSize)
	}
	if result.TextCoverage != 4 {
		t.Errorf("Expected coverage 4, got %f", result.TextCoverage)
	}
	if result.ReadabilityScore != 44 {
		t.Errorf("Expected readability 44, got %d", result.ReadabilityScore)
	}
	if !result.HasTitle {
		t.Error("Expected the first detection to count as a title")
	}
	expectedPositions := []Position{PositionCenter, PositionBottom}
	if len(result.TextPositions) != 2 || result.TextPositions[0] != expectedPositions[0] || result.TextPositions[1] != expectedPositions[1] {
		t.Errorf("Expected positions %v, got %v", expectedPositions, result.TextPositions)
	}
	if result.TotalText != "Text Region 1 Text Region 2 Text Region 3" {
		t.Errorf("Unexpected total text %q", result.TotalText)
	}
	// min(40, 5*8) + 30 + 60/100*30
	if result.TitleQuality != 88 {
		t.Errorf("Expected title quality 88, got %d", result.TitleQuality)
	}
}

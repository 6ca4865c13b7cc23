package analyzer

import (
	"fmt"
	"math"
	"strings"

	"github.com/anime-shed/thumbnail-inspector-go/internal/logger"
	"github.com/anime-shed/thumbnail-inspector-go/internal/raster"
)

// textRegionAnalyzer finds compact edge blobs that look like rendered text.
// Detections carry placeholder labels; no characters are recognised.
type textRegionAnalyzer struct {
	edgeThreshold float64
	minPixels     int
}

// NewTextDetector creates a text detector from the relevant options
func NewTextDetector(opts AnalysisOptions) TextDetector {
	opts = opts.normalized()
	return &textRegionAnalyzer{
		edgeThreshold: opts.TextEdgeThreshold,
		minPixels:     opts.MinTextBlobPixels,
	}
}

// Analyze runs edge detection and blob classification on the raster
func (ta *textRegionAnalyzer) Analyze(img *raster.Image) TextAnalysis {
	if img.Empty() {
		return DefaultTextAnalysis()
	}

	edges := DetectEdges(img, ta.edgeThreshold)
	blobs := LabelComponents(edges, LabelOptions{
		Connectivity: EightConnected,
		MinPixels:    ta.minPixels,
	})

	detections := make([]TextDetection, 0, blobs.Len())
	for _, b := range blobs.Blobs {
		if !isLikelyTextBlock(b, img.Width, img.Height) {
			continue
		}
		detections = append(detections, analyzeTextBlock(b, img.Width, img.Height, len(detections)))
	}

	logger.Component("text_analyzer").WithFields(map[string]interface{}{
		"blobs":      blobs.Len(),
		"detections": len(detections),
	}).Debug("Text regions classified")

	return summarizeText(detections, img.Width, img.Height)
}

func isLikelyTextBlock(b Blob, width, height int) bool {
	aspect := b.Box.AspectRatio()
	areaRatio := float64(b.Box.Area()) / float64(width*height)
	return aspect > 0.5 && aspect < 10 && areaRatio > 0.001 && areaRatio < 0.3
}

func analyzeTextBlock(b Blob, width, height, index int) TextDetection {
	fontSize := float64(b.Box.Height()) / float64(height) * 100
	position := b.Box.PositionIn(width, height)

	sizeScore := math.Min(100, fontSize*10)
	densityScore := math.Min(100, b.Density()*1000)
	readability := (sizeScore + densityScore) / 2

	confidence := 60
	if fontSize > 3 {
		confidence += 20
	}
	if position.Prominent() {
		confidence += 10
	}
	if b.Box.Width() > b.Box.Height()*2 {
		confidence += 10
	}

	return TextDetection{
		Text:        fmt.Sprintf("Text Region %d", index+1),
		Box:         b.Box,
		FontSize:    fontSize,
		Position:    position,
		Confidence:  min(100, confidence),
		Readability: readability,
	}
}

func summarizeText(detections []TextDetection, width, height int) TextAnalysis {
	if len(detections) == 0 {
		return DefaultTextAnalysis()
	}

	var confSum, fontSum, readSum float64
	var area int
	positions := make([]Position, 0, len(detections))
	labels := make([]string, 0, len(detections))
	hasTitle := false

	for _, d := range detections {
		confSum += float64(d.Confidence)
		fontSum += d.FontSize
		readSum += d.Readability
		area += d.Box.Area()
		positions = append(positions, d.Position)
		labels = append(labels, d.Text)

		if d.FontSize > 4 && d.Confidence > 70 && d.Position.Prominent() {
			hasTitle = true
		}
	}

	n := float64(len(detections))
	quality := 0.0
	if hasTitle {
		quality = titleQuality(detections)
	}

	return TextAnalysis{
		TotalText:         strings.Join(labels, " "),
		TextCount:         len(detections),
		AverageConfidence: int(math.Round(confSum / n)),
		AverageFontSize:   roundTo(fontSum/n, 1),
		TextCoverage:      roundTo(float64(area)/float64(width*height)*100, 2),
		ReadabilityScore:  int(math.Round(readSum / n)),
		TextPositions:     distinctPositions(positions),
		Detections:        detections,
		HasTitle:          hasTitle,
		TitleQuality:      int(math.Round(quality)),
	}
}

// titleQuality rates the detection with the largest font; the first one wins a tie
func titleQuality(detections []TextDetection) float64 {
	title := detections[0]
	for _, d := range detections[1:] {
		if d.FontSize > title.FontSize {
			title = d
		}
	}

	quality := math.Min(40, title.FontSize*8)
	if title.Position.Prominent() {
		quality += 30
	} else {
		quality += 15
	}
	quality += title.Readability / 100 * 30

	return math.Min(100, quality)
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

package analyzer

// Position is the coarse location of a region's centre, by thirds of the frame
type Position string

const (
	PositionTop    Position = "top"
	PositionCenter Position = "center"
	PositionBottom Position = "bottom"
	PositionLeft   Position = "left"
	PositionRight  Position = "right"
)

// Prominent reports whether the position is one viewers read first
func (p Position) Prominent() bool {
	return p == PositionTop || p == PositionCenter
}

// Warnings attached to an ImageAnalysis when part of it is a fallback value
const (
	WarningDecodeFailed         = "decode_failed"
	WarningTextAnalysisFailed   = "text_analysis_failed"
	WarningPersonAnalysisFailed = "person_analysis_failed"
	WarningImageTooLarge        = "image_too_large"
	WarningAnalysisTimedOut     = "analysis_timed_out"
)

// BoundingBox spans the extreme pixel coordinates of a blob. Width and
// height are MaxX-MinX and MaxY-MinY, so a single pixel has zero extent.
type BoundingBox struct {
	X0 int `json:"x0"`
	Y0 int `json:"y0"`
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
}

func (b BoundingBox) Width() int  { return b.X1 - b.X0 }
func (b BoundingBox) Height() int { return b.Y1 - b.Y0 }
func (b BoundingBox) Area() int   { return b.Width() * b.Height() }

// AspectRatio is width/height. A zero height yields +Inf or NaN, which fail
// every range check.
func (b BoundingBox) AspectRatio() float64 {
	return float64(b.Width()) / float64(b.Height())
}

// Center returns the midpoint of the box
func (b BoundingBox) Center() (float64, float64) {
	return float64(b.X0+b.X1) / 2, float64(b.Y0+b.Y1) / 2
}

// Overlaps reports whether the boxes share at least one coordinate, edges included
func (b BoundingBox) Overlaps(o BoundingBox) bool {
	return !(b.X1 < o.X0 || o.X1 < b.X0 || b.Y1 < o.Y0 || o.Y1 < b.Y0)
}

// Union returns the smallest box containing both
func (b BoundingBox) Union(o BoundingBox) BoundingBox {
	return BoundingBox{
		X0: min(b.X0, o.X0),
		Y0: min(b.Y0, o.Y0),
		X1: max(b.X1, o.X1),
		Y1: max(b.Y1, o.Y1),
	}
}

// PositionIn classifies the box centre by thirds of a width x height frame.
// Vertical placement wins over horizontal.
func (b BoundingBox) PositionIn(width, height int) Position {
	cx, cy := b.Center()
	rx := cx / float64(width)
	ry := cy / float64(height)

	switch {
	case ry < 0.33:
		return PositionTop
	case ry > 0.67:
		return PositionBottom
	case rx < 0.33:
		return PositionLeft
	case rx > 0.67:
		return PositionRight
	default:
		return PositionCenter
	}
}

// DominantColor is one quantized colour bucket
type DominantColor struct {
	R     uint8  `json:"r"`
	G     uint8  `json:"g"`
	B     uint8  `json:"b"`
	Hex   string `json:"hex"`
	Count int    `json:"count"`
}

// TextDetection is one edge blob classified as probable text
type TextDetection struct {
	Text        string      `json:"text"`
	Box         BoundingBox `json:"bbox"`
	FontSize    float64     `json:"font_size"`
	Position    Position    `json:"position"`
	Confidence  int         `json:"confidence"`
	Readability float64     `json:"readability"`
}

// TextAnalysis aggregates every text detection of one image
type TextAnalysis struct {
	TotalText         string          `json:"total_text"`
	TextCount         int             `json:"text_count"`
	AverageConfidence int             `json:"average_confidence"`
	AverageFontSize   float64         `json:"average_font_size"`
	TextCoverage      float64         `json:"text_coverage"`
	ReadabilityScore  int             `json:"readability_score"`
	TextPositions     []Position      `json:"text_positions"`
	Detections        []TextDetection `json:"detections"`
	HasTitle          bool            `json:"has_title"`
	TitleQuality      int             `json:"title_quality"`
}

// DefaultTextAnalysis is the result when no text-like region is found
func DefaultTextAnalysis() TextAnalysis {
	return TextAnalysis{
		ReadabilityScore: 50,
		TextPositions:    []Position{},
		Detections:       []TextDetection{},
	}
}

// HasPosition reports whether any detection sits at p
func (t TextAnalysis) HasPosition(p Position) bool {
	return containsPosition(t.TextPositions, p)
}

// PersonRegion is one merged edge or skin-tone blob classified as a probable person
type PersonRegion struct {
	Box         BoundingBox `json:"bbox"`
	Area        int         `json:"area"`
	AreaPercent float64     `json:"area_percent"`
	Position    Position    `json:"position"`
	Confidence  int         `json:"confidence"`
}

// PersonAnalysis aggregates the merged person regions of one image. It is a
// coarse skin and silhouette heuristic; no face or identity detection happens.
type PersonAnalysis struct {
	AverageRegionSize  float64        `json:"average_region_size"`
	PersonCoverage     float64        `json:"person_coverage"`
	DominantExpression string         `json:"dominant_expression"`
	HasCloseUp         bool           `json:"has_close_up"`
	Positions          []Position     `json:"positions"`
	AverageAge         *float64       `json:"average_age,omitempty"`
	Regions            []PersonRegion `json:"regions"`
}

// DefaultPersonAnalysis is the result when no person-like region is found
func DefaultPersonAnalysis() PersonAnalysis {
	return PersonAnalysis{
		DominantExpression: ExpressionNeutral,
		Positions:          []Position{},
		Regions:            []PersonRegion{},
	}
}

// HasPosition reports whether any merged region sits at p
func (p PersonAnalysis) HasPosition(pos Position) bool {
	return containsPosition(p.Positions, pos)
}

// Expression buckets derived from person coverage
const (
	ExpressionHappy   = "happy"
	ExpressionNeutral = "neutral"
)

// ImageAnalysis is the per-image bundle handed to scoring and comparison.
// It is never patched after creation; a changed input means a new analysis.
type ImageAnalysis struct {
	Width           int             `json:"width"`
	Height          int             `json:"height"`
	Format          string          `json:"format,omitempty"`
	Brightness      float64         `json:"brightness"`
	Contrast        float64         `json:"contrast"`
	Colorfulness    float64         `json:"colorfulness"`
	DominantColors  []DominantColor `json:"dominant_colors"`
	TextReadability float64         `json:"text_readability"`
	VisualImpact    float64         `json:"visual_impact"`
	Text            *TextAnalysis   `json:"text_analysis,omitempty"`
	Person          *PersonAnalysis `json:"person_analysis,omitempty"`
	Warnings        []string        `json:"warnings,omitempty"`
}

// Degraded reports whether any part of the analysis is a fallback value
func (a ImageAnalysis) Degraded() bool {
	return len(a.Warnings) > 0
}

func containsPosition(list []Position, p Position) bool {
	for _, v := range list {
		if v == p {
			return true
		}
	}
	return false
}

// distinctPositions keeps first-seen order
func distinctPositions(in []Position) []Position {
	out := make([]Position, 0, len(in))
	for _, p := range in {
		if !containsPosition(out, p) {
			out = append(out, p)
		}
	}
	return out
}

package analyzer

import (
	"image"

	"github.com/anime-shed/thumbnail-inspector-go/internal/raster"
)

// ThumbnailAnalyzer produces the per-image heuristics bundle
type ThumbnailAnalyzer interface {
	// Analyze decodes data and analyzes it. It never fails; a decode error
	// yields a default analysis carrying WarningDecodeFailed.
	Analyze(data []byte, options AnalysisOptions) ImageAnalysis

	AnalyzeImage(img image.Image, options AnalysisOptions) ImageAnalysis

	// Stats reports the worker pool counters
	Stats() PoolStats

	// Lifecycle management
	Close() error
}

// TextDetector finds text-like regions on a raster
type TextDetector interface {
	Analyze(img *raster.Image) TextAnalysis
}

// PersonDetector finds person-like regions on a raster
type PersonDetector interface {
	Analyze(img *raster.Image) PersonAnalysis
}

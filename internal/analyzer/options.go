package analyzer

// AnalysisOptions configures one analysis run
type AnalysisOptions struct {
	// Sub-analysis toggles
	IncludeTextAnalysis   bool
	IncludePersonAnalysis bool

	// Longest side of the raster used for pixel statistics and person
	// analysis. Text analysis always runs at full resolution.
	MaxDimension int

	// Sobel magnitude thresholds
	TextEdgeThreshold   float64
	PersonEdgeThreshold float64

	// Blob size limits, in pixels
	MinTextBlobPixels   int
	MinPersonEdgePixels int
	MinSkinPixels       int
	SkinRegionPixelCap  int

	// Performance options
	UseWorkerPool bool
}

// DefaultOptions returns default analysis options
func DefaultOptions() AnalysisOptions {
	return AnalysisOptions{
		IncludeTextAnalysis:   true,
		IncludePersonAnalysis: true,
		MaxDimension:          400,
		TextEdgeThreshold:     50,
		PersonEdgeThreshold:   30,
		MinTextBlobPixels:     10,
		MinPersonEdgePixels:   20,
		MinSkinPixels:         50,
		SkinRegionPixelCap:    1000,
		UseWorkerPool:         true,
	}
}

// WithoutTextAnalysis skips text region detection
func (opts AnalysisOptions) WithoutTextAnalysis() AnalysisOptions {
	opts.IncludeTextAnalysis = false
	return opts
}

// WithoutPersonAnalysis skips person region detection
func (opts AnalysisOptions) WithoutPersonAnalysis() AnalysisOptions {
	opts.IncludePersonAnalysis = false
	return opts
}

// WithMaxDimension sets the downscale bound; zero or less disables downscaling
func (opts AnalysisOptions) WithMaxDimension(maxDim int) AnalysisOptions {
	opts.MaxDimension = maxDim
	return opts
}

// WithEdgeThresholds overrides both Sobel thresholds
func (opts AnalysisOptions) WithEdgeThresholds(text, person float64) AnalysisOptions {
	opts.TextEdgeThreshold = text
	opts.PersonEdgeThreshold = person
	return opts
}

// WithoutWorkerPool runs sub-analyses on the calling goroutine
func (opts AnalysisOptions) WithoutWorkerPool() AnalysisOptions {
	opts.UseWorkerPool = false
	return opts
}

// normalized fills zero limits with defaults so a partially built options
// value still behaves
func (opts AnalysisOptions) normalized() AnalysisOptions {
	def := DefaultOptions()
	if opts.TextEdgeThreshold <= 0 {
		opts.TextEdgeThreshold = def.TextEdgeThreshold
	}
	if opts.PersonEdgeThreshold <= 0 {
		opts.PersonEdgeThreshold = def.PersonEdgeThreshold
	}
	if opts.MinTextBlobPixels <= 0 {
		opts.MinTextBlobPixels = def.MinTextBlobPixels
	}
	if opts.MinPersonEdgePixels <= 0 {
		opts.MinPersonEdgePixels = def.MinPersonEdgePixels
	}
	if opts.MinSkinPixels <= 0 {
		opts.MinSkinPixels = def.MinSkinPixels
	}
	if opts.SkinRegionPixelCap <= 0 {
		opts.SkinRegionPixelCap = def.SkinRegionPixelCap
	}
	return opts
}

package models

import (
	"time"

	"github.com/anime-shed/thumbnail-inspector-go/internal/analyzer"
	"github.com/anime-shed/thumbnail-inspector-go/internal/comparison"
	"github.com/anime-shed/thumbnail-inspector-go/internal/observer"
	"github.com/anime-shed/thumbnail-inspector-go/internal/raster"
	"github.com/anime-shed/thumbnail-inspector-go/internal/scoring"
	"github.com/anime-shed/thumbnail-inspector-go/internal/store"
)

// AnalyzeResponse is the stateless result of analysing one upload
type AnalyzeResponse struct {
	FileName          string                 `json:"file_name,omitempty"`
	Timestamp         time.Time              `json:"timestamp"`
	ProcessingTimeSec float64                `json:"processing_time_sec"`
	Analysis          analyzer.ImageAnalysis `json:"analysis"`
	Score             scoring.ThumbnailScore `json:"score"`
	EstimatedCTR      float64                `json:"estimated_ctr"`
	Metadata          *raster.Metadata       `json:"metadata,omitempty"`
}

// ThumbnailResponse is a stored thumbnail as rendered to clients
type ThumbnailResponse struct {
	store.Thumbnail
	FormattedViews string `json:"formatted_views"`
	PreviewURL     string `json:"preview_url"`
}

// NewThumbnailResponse wraps t with its derived display fields
func NewThumbnailResponse(t store.Thumbnail) ThumbnailResponse {
	return ThumbnailResponse{
		Thumbnail:      t,
		FormattedViews: t.FormattedViews(),
		PreviewURL:     "/thumbnails/" + t.ID + "/preview",
	}
}

// ThumbnailListResponse lists the stored thumbnails
type ThumbnailListResponse struct {
	Thumbnails []ThumbnailResponse `json:"thumbnails"`
	Count      int                 `json:"count"`
	Limit      int                 `json:"limit"`
}

// ThumbnailScoreResponse carries the score of one stored thumbnail
type ThumbnailScoreResponse struct {
	ThumbnailID  string                 `json:"thumbnail_id"`
	Score        scoring.ThumbnailScore `json:"score"`
	EstimatedCTR float64                `json:"estimated_ctr"`
}

// ComparisonResponse explains how two thumbnails differ
type ComparisonResponse struct {
	A                  string                  `json:"a"`
	B                  string                  `json:"b"`
	Suggestions        []comparison.Suggestion `json:"suggestions"`
	NoStrongDifference bool                    `json:"no_strong_difference"`
	PerceptualDistance *int                    `json:"perceptual_distance,omitempty"`
	NearDuplicate      bool                    `json:"near_duplicate"`
	ScoreA             *scoring.ThumbnailScore `json:"score_a,omitempty"`
	ScoreB             *scoring.ThumbnailScore `json:"score_b,omitempty"`
	ProcessingTimeSec  float64                 `json:"processing_time_sec"`
}

// StatsResponse is the observer counters plus the analyzer pool counters
type StatsResponse struct {
	observer.MetricsSnapshot
	WorkerPool analyzer.PoolStats `json:"worker_pool"`
}

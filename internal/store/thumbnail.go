package store

import (
	"fmt"
	"image"
	"time"

	"github.com/corona10/goimagehash"

	"github.com/anime-shed/thumbnail-inspector-go/internal/analyzer"
	"github.com/anime-shed/thumbnail-inspector-go/internal/raster"
)

// Thumbnail is one uploaded candidate together with its analysis and the
// simulated feed numbers shown next to it.
type Thumbnail struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	FileName       string                 `json:"file_name"`
	ContentType    string                 `json:"content_type"`
	Size           int64                  `json:"size"`
	Width          int                    `json:"width"`
	Height         int                    `json:"height"`
	Analysis       analyzer.ImageAnalysis `json:"analysis"`
	Metadata       *raster.Metadata       `json:"metadata,omitempty"`
	PerceptualHash string                 `json:"perceptual_hash,omitempty"`
	DuplicateOf    string                 `json:"duplicate_of,omitempty"`
	SimulatedCTR   float64                `json:"simulated_ctr"`
	SimulatedViews int                    `json:"simulated_views"`
	CreatedAt      time.Time              `json:"created_at"`

	preview []byte
	hash    *goimagehash.ImageHash
}

// Preview returns a copy of the encoded preview image
func (t Thumbnail) Preview() []byte {
	return cloneSlice(t.preview)
}

// Hash returns the perceptual hash, or nil when none was computed
func (t Thumbnail) Hash() *goimagehash.ImageHash {
	return t.hash
}

// FormattedViews renders SimulatedViews the way a video feed does
func (t Thumbnail) FormattedViews() string {
	return FormatViews(t.SimulatedViews)
}

// NewThumbnail carries everything the caller already derived from an upload
type NewThumbnail struct {
	Title       string
	FileName    string
	ContentType string
	Size        int64
	Analysis    analyzer.ImageAnalysis
	Metadata    *raster.Metadata
	Preview     []byte
	Hash        *goimagehash.ImageHash
}

// PerceptualHash computes the difference hash used for near-duplicate checks
func PerceptualHash(img image.Image) (*goimagehash.ImageHash, error) {
	if img == nil {
		return nil, fmt.Errorf("store: nil image")
	}
	return goimagehash.DifferenceHash(img)
}

// HashDistance returns the Hamming distance between two hashes. ok is false
// when either is missing.
func HashDistance(a, b *goimagehash.ImageHash) (distance int, ok bool) {
	if a == nil || b == nil {
		return 0, false
	}
	d, err := a.Distance(b)
	if err != nil {
		return 0, false
	}
	return d, true
}

// FormatViews renders 1.2M, 3.4K or the plain number below a thousand
func FormatViews(n int) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.1fM", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1fK", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d", n)
	}
}

// clone deep-copies the slices a caller could otherwise mutate
func (t Thumbnail) clone() Thumbnail {
	t.preview = t.Preview()
	t.Analysis = cloneAnalysis(t.Analysis)
	if t.Metadata != nil {
		m := *t.Metadata
		t.Metadata = &m
	}
	return t
}

func cloneAnalysis(a analyzer.ImageAnalysis) analyzer.ImageAnalysis {
	a.DominantColors = cloneSlice(a.DominantColors)
	a.Warnings = cloneSlice(a.Warnings)
	if a.Text != nil {
		text := *a.Text
		text.TextPositions = cloneSlice(text.TextPositions)
		text.Detections = cloneSlice(text.Detections)
		a.Text = &text
	}
	if a.Person != nil {
		person := *a.Person
		person.Positions = cloneSlice(person.Positions)
		person.Regions = cloneSlice(person.Regions)
		a.Person = &person
	}
	return a
}

// cloneSlice keeps nil and empty distinct so JSON renders the same
func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	return append(make([]T, 0, len(in)), in...)
}

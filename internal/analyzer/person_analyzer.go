package analyzer

import (
	"github.com/anime-shed/thumbnail-inspector-go/internal/logger"
	"github.com/anime-shed/thumbnail-inspector-go/internal/raster"
)

const (
	minPersonRegionPixels = 200
	minPersonSide         = 40
	closeUpCoverage       = 40
	happyCoverage         = 30
)

// personRegionAnalyzer estimates how much of the frame is taken by people,
// from silhouette edges and skin-tone patches
type personRegionAnalyzer struct {
	edgeThreshold float64
	minEdgePixels int
	minSkinPixels int
	skinCap       int
}

// NewPersonDetector creates a person detector from the relevant options
func NewPersonDetector(opts AnalysisOptions) PersonDetector {
	opts = opts.normalized()
	return &personRegionAnalyzer{
		edgeThreshold: opts.PersonEdgeThreshold,
		minEdgePixels: opts.MinPersonEdgePixels,
		minSkinPixels: opts.MinSkinPixels,
		skinCap:       opts.SkinRegionPixelCap,
	}
}

// Analyze classifies edge and skin blobs, merges overlapping ones and
// aggregates coverage
func (pa *personRegionAnalyzer) Analyze(img *raster.Image) PersonAnalysis {
	if img.Empty() {
		return DefaultPersonAnalysis()
	}
	w, h := img.Width, img.Height

	edgeBlobs := LabelComponents(DetectEdges(img, pa.edgeThreshold), LabelOptions{
		Connectivity: EightConnected,
		MinPixels:    pa.minEdgePixels,
	})
	skinBlobs := LabelComponents(SkinMask(img), LabelOptions{
		Connectivity: FourConnected,
		MinPixels:    pa.minSkinPixels,
		MaxPixels:    pa.skinCap,
		SeedStep:     2,
	})

	candidates := make([]PersonRegion, 0, edgeBlobs.Len()+skinBlobs.Len())
	for _, set := range []*BlobSet{edgeBlobs, skinBlobs} {
		for _, b := range set.Blobs {
			if isLikelyPersonRegion(b, w, h) {
				candidates = append(candidates, analyzePersonBlock(b, w, h))
			}
		}
	}

	merged := mergeOverlappingRegions(candidates, w, h)

	logger.Component("person_analyzer").WithFields(map[string]interface{}{
		"edge_blobs": edgeBlobs.Len(),
		"skin_blobs": skinBlobs.Len(),
		"candidates": len(candidates),
		"merged":     len(merged),
	}).Debug("Person regions classified")

	return summarizePersons(merged, w, h)
}

// IsSkinTone applies a fixed RGB skin heuristic with a darker and a very
// light branch
func IsSkinTone(r, g, b uint8) bool {
	ri, gi, bi := int(r), int(g), int(b)
	hi := max(ri, gi, bi)
	lo := min(ri, gi, bi)

	if ri > 95 && gi > 40 && bi > 20 && hi-lo > 15 && absInt(ri-gi) > 15 && ri > gi && ri > bi {
		return true
	}
	return ri > 220 && gi > 210 && bi > 170 && absInt(ri-gi) <= 15 && ri > bi && gi > bi
}

// SkinMask marks every skin-tone pixel of the raster
func SkinMask(img *raster.Image) Mask {
	mask := NewMask(img.Width, img.Height)
	if img.Empty() {
		return mask
	}
	for i := range mask.Bits {
		p := i * 4
		mask.Bits[i] = IsSkinTone(img.Pix[p], img.Pix[p+1], img.Pix[p+2])
	}
	return mask
}

func isLikelyPersonRegion(b Blob, width, height int) bool {
	if b.Count() < minPersonRegionPixels {
		return false
	}
	aspect := b.Box.AspectRatio()
	areaRatio := float64(b.Box.Area()) / float64(width*height)

	return aspect > 0.3 && aspect < 3.0 &&
		areaRatio > 0.02 && areaRatio < 0.4 &&
		b.Box.Width() > minPersonSide && b.Box.Height() > minPersonSide
}

func analyzePersonBlock(b Blob, width, height int) PersonRegion {
	area := b.Box.Area()
	size := float64(area) / float64(width*height) * 100
	position := b.Box.PositionIn(width, height)
	aspect := b.Box.AspectRatio()

	confidence := 40
	if size > 10 {
		confidence += 20
	}
	if position.Prominent() {
		confidence += 15
	}
	if aspect > 0.5 && aspect < 2.0 {
		confidence += 15
	}
	if b.Density() > 0.3 {
		confidence += 10
	}

	return PersonRegion{
		Box:         b.Box,
		Area:        area,
		AreaPercent: size,
		Position:    position,
		Confidence:  min(100, confidence),
	}
}

// mergeOverlappingRegions makes a single pass: each unused region absorbs
// every later unused region overlapping its grown box
func mergeOverlappingRegions(regions []PersonRegion, width, height int) []PersonRegion {
	if len(regions) == 0 {
		return nil
	}

	merged := make([]PersonRegion, 0, len(regions))
	used := make([]bool, len(regions))

	for i := range regions {
		if used[i] {
			continue
		}
		current := regions[i]
		used[i] = true

		for j := i + 1; j < len(regions); j++ {
			if used[j] || !current.Box.Overlaps(regions[j].Box) {
				continue
			}
			current = mergeRegions(current, regions[j], width, height)
			used[j] = true
		}
		merged = append(merged, current)
	}
	return merged
}

func mergeRegions(a, b PersonRegion, width, height int) PersonRegion {
	box := a.Box.Union(b.Box)
	return PersonRegion{
		Box:         box,
		Area:        box.Area(),
		AreaPercent: float64(box.Area()) / float64(width*height) * 100,
		Position:    box.PositionIn(width, height),
		Confidence:  max(a.Confidence, b.Confidence),
	}
}

func summarizePersons(regions []PersonRegion, width, height int) PersonAnalysis {
	if len(regions) == 0 {
		return DefaultPersonAnalysis()
	}

	imageArea := float64(width * height)
	var total int
	var sizeSum float64
	positions := make([]Position, 0, len(regions))

	for _, r := range regions {
		total += r.Area
		sizeSum += float64(r.Area) / imageArea * 100
		positions = append(positions, r.Box.PositionIn(width, height))
	}

	coverage := float64(total) / imageArea * 100
	expression := ExpressionNeutral
	if coverage > happyCoverage {
		expression = ExpressionHappy
	}

	return PersonAnalysis{
		AverageRegionSize:  sizeSum / float64(len(regions)),
		PersonCoverage:     coverage,
		DominantExpression: expression,
		HasCloseUp:         coverage > closeUpCoverage,
		Positions:          distinctPositions(positions),
		Regions:            regions,
	}
}

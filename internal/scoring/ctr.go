package scoring

import (
	"github.com/anime-shed/thumbnail-inspector-go/internal/analyzer"
)

// PredictCTR derives a click-through percentage from the overall score,
// with up to 10% jitter either way. The result is in [2, 25].
func (e *Engine) PredictCTR(overall int, a analyzer.ImageAnalysis) float64 {
	ctr := 3 + float64(overall)/100*12

	if a.Person != nil && a.Person.PersonCoverage > 20 {
		ctr *= 1.3
	}
	if a.Text != nil && a.Text.HasTitle {
		ctr *= 1.2
	}
	if a.VisualImpact > 70 {
		ctr *= 1.15
	}

	ctr *= 0.9 + e.random()*0.2

	return clamp(roundTo(ctr, 1), 2, 25)
}

var expressionCTRMultipliers = map[string]float64{
	"happy":     1.3,
	"surprised": 1.25,
	"neutral":   1.0,
	"angry":     1.15,
	"sad":       0.9,
	"fearful":   0.85,
	"disgusted": 0.8,
}

// EstimateCTR is the lighter CTR model used for quick estimates. It relies on
// person signals when they exist and falls back to pixel statistics.
func (e *Engine) EstimateCTR(a analyzer.ImageAnalysis) float64 {
	jitter := (e.random() - 0.5) * 2

	if p := a.Person; p != nil {
		ctr := 8.0
		switch {
		case p.PersonCoverage > 40:
			ctr *= 1.4
		case p.PersonCoverage > 20:
			ctr *= 1.3
		case p.PersonCoverage > 10:
			ctr *= 1.2
		}

		if p.HasCloseUp {
			ctr *= 1.3
		} else if p.AverageRegionSize > 10 {
			ctr *= 1.2
		}

		if m, ok := expressionCTRMultipliers[p.DominantExpression]; ok {
			ctr *= m
		}

		return roundTo(clamp(ctr+jitter, 3, 25), 1)
	}

	ctr := 8 * brightnessFactor(a.Brightness) *
		contrastFactor(a.Contrast) *
		colorfulnessFactor(a.Colorfulness) *
		readabilityFactor(a.TextReadability)

	return roundTo(clamp(ctr+jitter, 3, 20), 1)
}

func brightnessFactor(v float64) float64 {
	switch {
	case v > 120 && v < 200:
		return 1.2
	case v < 80:
		return 0.8
	default:
		return 1
	}
}

func contrastFactor(v float64) float64 {
	switch {
	case v > 40:
		return 1.3
	case v < 20:
		return 0.9
	default:
		return 1
	}
}

func colorfulnessFactor(v float64) float64 {
	switch {
	case v > 30 && v < 70:
		return 1.2
	case v < 15:
		return 0.9
	default:
		return 1
	}
}

func readabilityFactor(v float64) float64 {
	if v > 20 {
		return 1.1
	}
	return 0.95
}

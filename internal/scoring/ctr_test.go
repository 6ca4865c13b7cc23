package scoring

import (
	"testing"

	"github.com/anime-shed/thumbnail-inspector-go/internal/analyzer"
)

func TestPredictCTR_Jitter(t *testing.T) {
	a := grayAnalysis()

	tests := []struct {
		name     string
		random   float64
		expected float64
	}{
		{"low jitter", 0, 7.5},
		{"neutral jitter", 0.5, 8.3},
		{"high jitter", 0.99, 9.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(WithRandom(fixed(tt.random)))
			if got := engine.PredictCTR(44, a); got != tt.expected {
				t.Errorf("Expected %.1f, got %f", tt.expected, got)
			}
		})
	}
}

func TestPredictCTR_Bounds(t *testing.T) {
	best := analyzer.ImageAnalysis{
		VisualImpact: 100,
		Text:         &analyzer.TextAnalysis{HasTitle: true},
		Person:       &analyzer.PersonAnalysis{PersonCoverage: 50},
	}

	for _, r := range []float64{0, 0.25, 0.5, 0.75, 0.999999} {
		engine := NewEngine(WithRandom(fixed(r)))

		if got := engine.PredictCTR(100, best); got < 2 || got > 25 {
			t.Errorf("Expected CTR within [2,25] for the best case, got %f", got)
		}
		if got := engine.PredictCTR(0, analyzer.ImageAnalysis{}); got < 2 || got > 25 {
			t.Errorf("Expected CTR within [2,25] for the worst case, got %f", got)
		}
	}

	engine := NewEngine(WithRandom(fixed(0.999999)))
	if got := engine.PredictCTR(100, best); got != 25 {
		t.Errorf("Expected the best case to clamp at 25, got %f", got)
	}
}

func TestPredictCTR_Multipliers(t *testing.T) {
	engine := NewEngine(WithRandom(fixed(0.5)))
	a := analyzer.ImageAnalysis{
		Person: &analyzer.PersonAnalysis{PersonCoverage: 25},
		Text:   &analyzer.TextAnalysis{HasTitle: true},
	}

	// (3 + 6) * 1.3 * 1.2
	if got := engine.PredictCTR(50, a); got != 14 {
		t.Errorf("Expected 14.0, got %f", got)
	}
}

func TestEstimateCTR_PixelFallback(t *testing.T) {
	engine := NewEngine(WithRandom(fixed(0.5)))

	// 8 * 1.2 * 0.9 * 0.9 * 0.95
	if got := engine.EstimateCTR(grayAnalysis()); got != 7.4 {
		t.Errorf("Expected 7.4, got %f", got)
	}

	vivid := analyzer.ImageAnalysis{Brightness: 150, Contrast: 60, Colorfulness: 50, TextReadability: 40}
	// 8 * 1.2 * 1.3 * 1.2 * 1.1 = 16.47
	if got := engine.EstimateCTR(vivid); got != 16.5 {
		t.Errorf("Expected 16.5, got %f", got)
	}
}

func TestEstimateCTR_PersonSignals(t *testing.T) {
	tests := []struct {
		name     string
		person   analyzer.PersonAnalysis
		random   float64
		expected float64
	}{
		{"no coverage", analyzer.PersonAnalysis{DominantExpression: "neutral"}, 0.5, 8},
		{"no coverage low jitter", analyzer.PersonAnalysis{DominantExpression: "neutral"}, 0, 7},
		{"medium coverage", analyzer.PersonAnalysis{PersonCoverage: 15, DominantExpression: "neutral"}, 0.5, 9.6},
		{"big region", analyzer.PersonAnalysis{PersonCoverage: 25, AverageRegionSize: 25, DominantExpression: "neutral"}, 0.5, 12.5},
		{"close-up happy", analyzer.PersonAnalysis{PersonCoverage: 45, HasCloseUp: true, DominantExpression: "happy"}, 0.5, 18.9},
		{"unknown expression", analyzer.PersonAnalysis{DominantExpression: "bored"}, 0.5, 8},
		{"sad", analyzer.PersonAnalysis{DominantExpression: "sad"}, 0.5, 7.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewEngine(WithRandom(fixed(tt.random)))
			person := tt.person
			if got := engine.EstimateCTR(analyzer.ImageAnalysis{Person: &person}); got != tt.expected {
				t.Errorf("Expected %.1f, got %f", tt.expected, got)
			}
		})
	}
}

func TestEstimateCTR_Bounds(t *testing.T) {
	for _, r := range []float64{0, 0.5, 0.999999} {
		engine := NewEngine(WithRandom(fixed(r)))

		dull := analyzer.ImageAnalysis{}
		if got := engine.EstimateCTR(dull); got < 3 || got > 20 {
			t.Errorf("Expected fallback CTR within [3,20], got %f", got)
		}

		person := analyzer.PersonAnalysis{PersonCoverage: 90, HasCloseUp: true, DominantExpression: "disgusted"}
		if got := engine.EstimateCTR(analyzer.ImageAnalysis{Person: &person}); got < 3 || got > 25 {
			t.Errorf("Expected person CTR within [3,25], got %f", got)
		}
	}
}

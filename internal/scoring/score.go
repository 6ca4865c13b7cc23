// Package scoring turns an image analysis into category scores, a letter
// grade, a predicted click-through rate and rule-based advice.
package scoring

import (
	"math"
	"math/rand/v2"

	"github.com/anime-shed/thumbnail-inspector-go/internal/analyzer"
)

// RandomSource returns values in [0, 1)
type RandomSource func() float64

// CategoryScores are the four weighted components of the overall score
type CategoryScores struct {
	Visual     int `json:"visual"`
	Text       int `json:"text"`
	Person     int `json:"person"`
	Engagement int `json:"engagement"`
}

// ThumbnailScore is the full assessment of one thumbnail
type ThumbnailScore struct {
	OverallScore    int              `json:"overall_score"`
	CategoryScores  CategoryScores   `json:"category_scores"`
	Recommendations []Recommendation `json:"recommendations"`
	Strengths       []string         `json:"strengths"`
	Weaknesses      []string         `json:"weaknesses"`
	Grade           string           `json:"grade"`
	PredictedCTR    float64          `json:"predicted_ctr"`
}

// Engine scores analyses. Category scores are deterministic; the CTR
// prediction carries bounded jitter from the random source.
type Engine struct {
	random RandomSource
}

// Option configures an Engine
type Option func(*Engine)

// WithRandom pins the jitter source, typically for tests
func WithRandom(src RandomSource) Option {
	return func(e *Engine) {
		if src != nil {
			e.random = src
		}
	}
}

// NewEngine creates a scoring engine
func NewEngine(opts ...Option) *Engine {
	e := &Engine{random: rand.Float64}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Score assesses one analysis
func (e *Engine) Score(a analyzer.ImageAnalysis) ThumbnailScore {
	scores := CategoryScores{
		Visual:     VisualScore(a),
		Text:       TextScore(a),
		Person:     PersonScore(a),
		Engagement: EngagementScore(a),
	}
	overall := OverallScore(scores)

	return ThumbnailScore{
		OverallScore:    overall,
		CategoryScores:  scores,
		Recommendations: Recommendations(a, scores),
		Strengths:       Strengths(a, scores),
		Weaknesses:      Weaknesses(a, scores),
		Grade:           Grade(overall),
		PredictedCTR:    e.PredictCTR(overall, a),
	}
}

// OverallScore weights the categories 25/25/30/20
func OverallScore(s CategoryScores) int {
	return roundInt(float64(s.Visual)*0.25 +
		float64(s.Text)*0.25 +
		float64(s.Person)*0.30 +
		float64(s.Engagement)*0.20)
}

// Grade maps an overall score to a letter
func Grade(score int) string {
	switch {
	case score >= 95:
		return "A+"
	case score >= 90:
		return "A"
	case score >= 85:
		return "B+"
	case score >= 80:
		return "B"
	case score >= 70:
		return "C+"
	case score >= 60:
		return "C"
	default:
		return "D"
	}
}

// VisualScore rates brightness, contrast, colourfulness and visual impact
func VisualScore(a analyzer.ImageAnalysis) int {
	score := brightnessBands.score(a.Brightness)*0.3 +
		contrastBands.score(a.Contrast)*0.3 +
		colorfulnessBands.score(a.Colorfulness)*0.25 +
		math.Min(100, a.VisualImpact)*0.15
	return roundInt(score)
}

// TextScore is 50 when text analysis was skipped
func TextScore(a analyzer.ImageAnalysis) int {
	t := a.Text
	if t == nil {
		return 50
	}

	title := 20.0
	if t.HasTitle {
		title = float64(t.TitleQuality)
	}

	score := math.Min(100, float64(t.ReadabilityScore))*0.4 +
		title*0.3 +
		fontSizeBands.score(t.AverageFontSize)*0.2 +
		textCoverageBands.score(t.TextCoverage)*0.1
	return roundInt(score)
}

// PersonScore is 40 when person analysis was skipped
func PersonScore(a analyzer.ImageAnalysis) int {
	p := a.Person
	if p == nil {
		return 40
	}

	closeUp := 60.0
	if p.HasCloseUp {
		closeUp = 100
	}

	score := personCoverageBands.score(p.PersonCoverage)*0.6 +
		closeUp*0.25 +
		ExpressionScore(p.DominantExpression)*0.15
	return roundInt(score)
}

// EngagementScore rates impact, colour attraction, composition and clarity
func EngagementScore(a analyzer.ImageAnalysis) int {
	score := math.Min(100, a.VisualImpact)*0.4 +
		colorAttraction(a.Colorfulness, a.Contrast)*0.3 +
		compositionScore(a)*0.2 +
		math.Min(100, a.TextReadability*2)*0.1
	return roundInt(score)
}

var expressionScores = map[string]float64{
	"happy":     100,
	"surprised": 90,
	"excited":   95,
	"neutral":   70,
	"serious":   60,
	"angry":     80,
	"sad":       50,
	"fearful":   40,
	"disgusted": 30,
}

// ExpressionScore looks up an expression bucket; unknown buckets score 70
func ExpressionScore(expression string) float64 {
	if s, ok := expressionScores[expression]; ok {
		return s
	}
	return 70
}

func colorAttraction(colorfulness, contrast float64) float64 {
	var score float64
	switch {
	case colorfulness >= 35:
		score += 60
	case colorfulness >= 25:
		score += 50
	case colorfulness >= 15:
		score += 40
	default:
		score += 25
	}

	switch {
	case contrast >= 50:
		score += 40
	case contrast >= 35:
		score += 35
	case contrast >= 25:
		score += 30
	default:
		score += 20
	}
	return math.Min(100, score)
}

func compositionScore(a analyzer.ImageAnalysis) float64 {
	score := 70.0

	if p := a.Person; p != nil && p.PersonCoverage > 0 {
		if p.HasPosition(analyzer.PositionCenter) {
			score += 15
		} else if p.HasPosition(analyzer.PositionTop) {
			score += 10
		}
		if p.PersonCoverage >= 20 && p.PersonCoverage <= 60 {
			score += 15
		}
	}

	if t := a.Text; t != nil && t.TextCount > 0 {
		if t.HasPosition(analyzer.PositionTop) || t.HasPosition(analyzer.PositionCenter) {
			score += 10
		}
	}

	return math.Min(100, score)
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

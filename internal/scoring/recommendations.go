package scoring

import (
	"sort"

	"github.com/anime-shed/thumbnail-inspector-go/internal/analyzer"
)

// Category names a scoring component
type Category string

const (
	CategoryVisual     Category = "visual"
	CategoryText       Category = "text"
	CategoryPerson     Category = "person"
	CategoryEngagement Category = "engagement"
)

// Priority orders recommendations
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	default:
		return 1
	}
}

// Recommendation is one actionable piece of advice
type Recommendation struct {
	Category    Category `json:"category"`
	Priority    Priority `json:"priority"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Impact      string   `json:"impact"`
	Actionable  bool     `json:"actionable"`
}

// rule emits a recommendation when its category gate and condition hold
type rule struct {
	category  Category
	priority  Priority
	title     string
	desc      string
	impact    string
	condition func(analyzer.ImageAnalysis) bool
}

var recommendationRules = []rule{
	{CategoryVisual, PriorityHigh, "Increase Brightness",
		"Current brightness is too low, consider increasing brightness for better visibility",
		"Improve CTR by 15-25%",
		func(a analyzer.ImageAnalysis) bool { return a.Brightness < 120 }},
	{CategoryVisual, PriorityHigh, "Enhance Contrast",
		"Low contrast affects text and image clarity",
		"Improve readability and appeal",
		func(a analyzer.ImageAnalysis) bool { return a.Contrast < 40 }},
	{CategoryVisual, PriorityMedium, "Add More Colors",
		"Richer colors can attract more attention",
		"Increase visual appeal",
		func(a analyzer.ImageAnalysis) bool { return a.Colorfulness < 25 }},
	{CategoryText, PriorityHigh, "Add Title Text",
		"Thumbnail lacks clear title text",
		"Improve CTR by 20-30%",
		func(a analyzer.ImageAnalysis) bool { return !a.Text.HasTitle }},
	{CategoryText, PriorityHigh, "Increase Font Size",
		"Text is too small for mobile devices",
		"Improve mobile CTR",
		func(a analyzer.ImageAnalysis) bool { return a.Text.AverageFontSize < 4 }},
	{CategoryText, PriorityMedium, "Improve Text Readability",
		"Increase text-background contrast, use clearer fonts",
		"Improve user comprehension",
		func(a analyzer.ImageAnalysis) bool { return a.Text.ReadabilityScore < 60 }},
	{CategoryPerson, PriorityMedium, "Increase Person Size",
		"Person appears small in frame, consider enlarging or cropping",
		"Improve emotional connection and CTR",
		func(a analyzer.ImageAnalysis) bool { return a.Person.PersonCoverage < 15 }},
	{CategoryPerson, PriorityLow, "Consider Close-up Shots",
		"Close-up shots create stronger visual impact",
		"Enhance emotional appeal",
		func(a analyzer.ImageAnalysis) bool { return !a.Person.HasCloseUp && a.Person.PersonCoverage > 0 }},
	{CategoryEngagement, PriorityMedium, "Enhance Visual Impact",
		"Use brighter colors, higher contrast, or more eye-catching composition",
		"Improve overall engagement",
		func(analyzer.ImageAnalysis) bool { return true }},
}

// gateOpen reports whether a category is weak enough to advise on. Text and
// person advice also needs the matching sub-analysis.
func gateOpen(c Category, a analyzer.ImageAnalysis, s CategoryScores) bool {
	switch c {
	case CategoryVisual:
		return s.Visual < 70
	case CategoryText:
		return s.Text < 70 && a.Text != nil
	case CategoryPerson:
		return s.Person < 70 && a.Person != nil
	case CategoryEngagement:
		return s.Engagement < 70
	}
	return false
}

// Recommendations lists advice sorted high, medium, low. Equal priorities
// keep rule order.
func Recommendations(a analyzer.ImageAnalysis, s CategoryScores) []Recommendation {
	out := make([]Recommendation, 0, len(recommendationRules))
	for _, r := range recommendationRules {
		if !gateOpen(r.category, a, s) || !r.condition(a) {
			continue
		}
		out = append(out, Recommendation{
			Category:    r.category,
			Priority:    r.priority,
			Title:       r.title,
			Description: r.desc,
			Impact:      r.impact,
			Actionable:  true,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority.rank() > out[j].Priority.rank()
	})
	return out
}

// Strengths lists what the thumbnail does well
func Strengths(a analyzer.ImageAnalysis, s CategoryScores) []string {
	out := []string{}
	if s.Visual >= 80 {
		out = append(out, "Excellent visual quality - good brightness, contrast and color balance")
	}
	if s.Text >= 80 {
		out = append(out, "Clear text presentation - excellent font size and readability")
	}
	if s.Person >= 80 {
		out = append(out, "Outstanding person presence - good proportion and expression")
	}
	if s.Engagement >= 80 {
		out = append(out, "Strong visual appeal - effectively attracts viewer attention")
	}

	if a.Brightness >= 120 && a.Brightness <= 200 {
		out = append(out, "Ideal brightness level")
	}
	if a.Contrast >= 40 {
		out = append(out, "Good contrast")
	}
	if a.Colorfulness >= 30 {
		out = append(out, "Rich color presentation")
	}
	if a.Text != nil && a.Text.HasTitle && a.Text.TitleQuality >= 80 {
		out = append(out, "High-quality title design")
	}
	if a.Person != nil && a.Person.HasCloseUp {
		out = append(out, "Effective close-up shots")
	}
	return out
}

// Weaknesses lists what holds the thumbnail back
func Weaknesses(a analyzer.ImageAnalysis, s CategoryScores) []string {
	out := []string{}
	if s.Visual < 60 {
		out = append(out, "Visual quality needs improvement - brightness, contrast or color issues")
	}
	if s.Text < 60 {
		out = append(out, "Poor text effectiveness - font size or readability needs improvement")
	}
	if s.Person < 60 {
		out = append(out, "Insufficient person presence - person size or expression needs optimization")
	}
	if s.Engagement < 60 {
		out = append(out, "Insufficient visual appeal - overall impact needs strengthening")
	}

	if a.Brightness < 100 {
		out = append(out, "Brightness too low, affects visibility")
	}
	if a.Contrast < 30 {
		out = append(out, "Insufficient contrast, affects clarity")
	}
	if a.Colorfulness < 20 {
		out = append(out, "Colors too monotone, lacks visual appeal")
	}
	if a.Text != nil && !a.Text.HasTitle {
		out = append(out, "Missing clear title text")
	}
	if a.Text != nil && a.Text.AverageFontSize < 3 {
		out = append(out, "Font too small, poor mobile readability")
	}
	if a.Person != nil && a.Person.PersonCoverage < 10 {
		out = append(out, "Person too small, lacks emotional connection")
	}
	return out
}

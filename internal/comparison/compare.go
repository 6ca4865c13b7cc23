// Package comparison explains how two analysed thumbnails differ. Every
// dimension has a noise threshold; only differences above it are reported.
package comparison

import (
	"fmt"
	"math"
	"sort"

	"github.com/anime-shed/thumbnail-inspector-go/internal/analyzer"
)

// Winner labels the side a suggestion favours
type Winner string

const (
	WinnerA Winner = "A"
	WinnerB Winner = "B"
)

// Suggestion types
const (
	TypeBrightness       = "brightness"
	TypeContrast         = "contrast"
	TypeColorfulness     = "colorfulness"
	TypeReadability      = "readability"
	TypeImpact           = "impact"
	TypeTextAmount       = "text_amount"
	TypeTextSize         = "text_size"
	TypeTextReadability  = "text_readability"
	TypeTitleQuality     = "title_quality"
	TypeTextPosition     = "text_position"
	TypePersonCoverage   = "person_coverage"
	TypePersonSize       = "person_size"
	TypePersonExpression = "person_expression"
)

// Suggestion is one reported difference. Score is a 0-100 importance
// proportional to the size of the difference.
type Suggestion struct {
	Type        string  `json:"type"`
	Message     string  `json:"message"`
	Winner      Winner  `json:"winner"`
	Improvement string  `json:"improvement"`
	Score       float64 `json:"score"`
	Details     string  `json:"details,omitempty"`
}

// Compare reports every dimension where a and b differ beyond its threshold,
// most important first. Identical inputs yield an empty list.
func Compare(a, b analyzer.ImageAnalysis) []Suggestion {
	suggestions := pixelSuggestions(a, b)

	if a.Text != nil && b.Text != nil {
		suggestions = append(suggestions, sortByScore(textSuggestions(*a.Text, *b.Text))...)
	}
	if a.Person != nil && b.Person != nil {
		suggestions = append(suggestions, sortByScore(personSuggestions(*a.Person, *b.Person))...)
	}

	return sortByScore(suggestions)
}

// pick returns the winner with the winning and losing values. Ties go to A.
func pick[T int | float64](a, b T) (Winner, T, T) {
	if b > a {
		return WinnerB, b, a
	}
	return WinnerA, a, b
}

func pixelSuggestions(a, b analyzer.ImageAnalysis) []Suggestion {
	out := []Suggestion{}

	if diff := math.Abs(a.Brightness - b.Brightness); diff > 20 {
		winner, brighter, darker := pick(a.Brightness, b.Brightness)
		improvement := "Moderate brightness helps with text readability"
		if brighter > 180 {
			improvement = "Bright thumbnails are more noticeable on mobile devices"
		}
		out = append(out, Suggestion{
			Type:        TypeBrightness,
			Message:     fmt.Sprintf("Version %s is significantly brighter (%d vs %d)", winner, roundInt(brighter), roundInt(darker)),
			Winner:      winner,
			Improvement: improvement,
			Score:       math.Min(diff/50*100, 100),
		})
	}

	if diff := math.Abs(a.Contrast - b.Contrast); diff > 10 {
		winner, higher, lower := pick(a.Contrast, b.Contrast)
		out = append(out, Suggestion{
			Type:        TypeContrast,
			Message:     fmt.Sprintf("Version %s has higher contrast (%d vs %d)", winner, roundInt(higher), roundInt(lower)),
			Winner:      winner,
			Improvement: "Higher contrast makes text clearer and improves click-through rates",
			Score:       math.Min(diff/30*100, 100),
		})
	}

	if diff := math.Abs(a.Colorfulness - b.Colorfulness); diff > 8 {
		winner, more, less := pick(a.Colorfulness, b.Colorfulness)
		improvement := "Moderate colors help with professionalism"
		if more > 40 {
			improvement = "Rich colors attract more attention"
		}
		out = append(out, Suggestion{
			Type:        TypeColorfulness,
			Message:     fmt.Sprintf("Version %s is more colorful (%d%% vs %d%%)", winner, roundInt(more), roundInt(less)),
			Winner:      winner,
			Improvement: improvement,
			Score:       math.Min(diff/20*100, 100),
		})
	}

	if diff := math.Abs(a.TextReadability - b.TextReadability); diff > 3 {
		winner, _, _ := pick(a.TextReadability, b.TextReadability)
		out = append(out, Suggestion{
			Type:        TypeReadability,
			Message:     fmt.Sprintf("Version %s has clearer text areas", winner),
			Winner:      winner,
			Improvement: "Clear text boundaries improve title readability",
			Score:       math.Min(diff/10*100, 100),
		})
	}

	if diff := math.Abs(a.VisualImpact - b.VisualImpact); diff > 3 {
		winner, _, _ := pick(a.VisualImpact, b.VisualImpact)
		out = append(out, Suggestion{
			Type:        TypeImpact,
			Message:     fmt.Sprintf("Version %s has better overall visual impact", winner),
			Winner:      winner,
			Improvement: "Better visual impact typically leads to higher click-through rates",
			Score:       math.Min(diff/10*100, 100),
		})
	}

	return out
}

// sortByScore orders descending; equal scores keep their order
func sortByScore(s []Suggestion) []Suggestion {
	sort.SliceStable(s, func(i, j int) bool {
		return s[i].Score > s[j].Score
	})
	return s
}

func roundInt(v float64) int {
	return int(math.Round(v))
}

package comparison

import (
	"fmt"
	"math"

	"github.com/anime-shed/thumbnail-inspector-go/internal/analyzer"
)

func textSuggestions(a, b analyzer.TextAnalysis) []Suggestion {
	out := []Suggestion{}

	if diff := absInt(a.TextCount - b.TextCount); diff > 0 {
		winner, more, less := pick(a.TextCount, b.TextCount)
		improvement := "Appropriate amount of text for clear communication"
		if more > 3 {
			improvement = "More text can provide context but may clutter the design"
		}
		out = append(out, Suggestion{
			Type:        TypeTextAmount,
			Message:     fmt.Sprintf("Version %s has more text regions (%d vs %d)", winner, more, less),
			Winner:      winner,
			Improvement: improvement,
			Score:       math.Min(float64(diff)*25, 100),
			Details:     fmt.Sprintf("Text regions difference: %d", diff),
		})
	}

	if diff := math.Abs(a.AverageFontSize - b.AverageFontSize); diff > 0.5 {
		winner, larger, smaller := pick(a.AverageFontSize, b.AverageFontSize)
		out = append(out, Suggestion{
			Type:        TypeTextSize,
			Message:     fmt.Sprintf("Version %s has larger text (%.1f%% vs %.1f%% of image height)", winner, larger, smaller),
			Winner:      winner,
			Improvement: "Larger text is more readable on mobile devices and attracts more attention",
			Score:       math.Min(diff*30, 100),
			Details:     fmt.Sprintf("Font size difference: %.1f%%", diff),
		})
	}

	if diff := absInt(a.ReadabilityScore - b.ReadabilityScore); diff > 10 {
		winner, higher, lower := pick(a.ReadabilityScore, b.ReadabilityScore)
		out = append(out, Suggestion{
			Type:        TypeTextReadability,
			Message:     fmt.Sprintf("Version %s has better text readability (%d vs %d score)", winner, higher, lower),
			Winner:      winner,
			Improvement: "Better text readability leads to higher click-through rates",
			Score:       math.Min(float64(diff)*2, 100),
			Details:     "Readability is based on text size, density, and positioning",
		})
	}

	if a.HasTitle || b.HasTitle {
		if diff := absInt(a.TitleQuality - b.TitleQuality); diff > 15 {
			winner, higher, lower := pick(a.TitleQuality, b.TitleQuality)
			out = append(out, Suggestion{
				Type:        TypeTitleQuality,
				Message:     fmt.Sprintf("Version %s has better title quality (%d vs %d score)", winner, higher, lower),
				Winner:      winner,
				Improvement: "High-quality titles with good size and positioning increase engagement",
				Score:       math.Min(float64(diff)*2, 100),
				Details:     "Title quality considers size, position, and readability",
			})
		}
	}

	if diff := math.Abs(a.TextCoverage - b.TextCoverage); diff > 1 {
		winner, higher, lower := pick(a.TextCoverage, b.TextCoverage)
		adjective := "more"
		improvement := "More text can provide more context, but may clutter the design"
		if higher < 20 {
			adjective = "better"
			improvement = "Optimal text coverage balances information and visual appeal"
		}
		out = append(out, Suggestion{
			Type:        TypeTextAmount,
			Message:     fmt.Sprintf("Version %s has %s text coverage (%.1f%% vs %.1f%%)", winner, adjective, higher, lower),
			Winner:      winner,
			Improvement: improvement,
			Score:       math.Min(diff*15, 100),
			Details:     fmt.Sprintf("Text coverage: %.1f%% difference", diff),
		})
	}

	if !samePositions(a.TextPositions, b.TextPositions) {
		topA := a.HasPosition(analyzer.PositionTop)
		topB := b.HasPosition(analyzer.PositionTop)
		if topA != topB {
			winner := WinnerA
			if topB {
				winner = WinnerB
			}
			out = append(out, Suggestion{
				Type:        TypeTextPosition,
				Message:     fmt.Sprintf("Version %s has text in the top area, which is more visible", winner),
				Winner:      winner,
				Improvement: "Top-positioned text is more likely to be seen first by viewers",
				Score:       60,
				Details:     "Text positioning affects visual hierarchy and attention flow",
			})
		}
	}

	return out
}

// samePositions treats the lists as sets of equal size
func samePositions(a, b []analyzer.Position) bool {
	if len(a) != len(b) {
		return false
	}
	for _, p := range a {
		found := false
		for _, q := range b {
			if p == q {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

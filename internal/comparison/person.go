package comparison

import (
	"fmt"
	"math"

	"github.com/anime-shed/thumbnail-inspector-go/internal/analyzer"
)

var expressionAppeal = map[string]int{
	"happy":     90,
	"surprised": 80,
	"neutral":   60,
	"sad":       40,
	"angry":     70,
	"fearful":   50,
	"disgusted": 30,
}

func appeal(expression string) int {
	if v, ok := expressionAppeal[expression]; ok {
		return v
	}
	return 50
}

func personSuggestions(a, b analyzer.PersonAnalysis) []Suggestion {
	out := []Suggestion{}

	if diff := math.Abs(a.PersonCoverage - b.PersonCoverage); diff > 5 {
		winner, higher, lower := pick(a.PersonCoverage, b.PersonCoverage)
		out = append(out, Suggestion{
			Type:        TypePersonCoverage,
			Message:     fmt.Sprintf("Version %s has better person coverage (%.1f%% vs %.1f%%)", winner, higher, lower),
			Winner:      winner,
			Improvement: "Optimal person coverage (20-50%) creates strong visual impact and engagement",
			Score:       math.Min(diff*3, 100),
			Details:     fmt.Sprintf("Person coverage difference: %.1f%%", diff),
		})
	}

	if a.PersonCoverage > 0 && b.PersonCoverage > 0 {
		if diff := math.Abs(a.AverageRegionSize - b.AverageRegionSize); diff > 5 {
			winner, larger, smaller := pick(a.AverageRegionSize, b.AverageRegionSize)
			out = append(out, Suggestion{
				Type:        TypePersonSize,
				Message:     fmt.Sprintf("Version %s has larger person presence (%.1f%% vs %.1f%% of image)", winner, larger, smaller),
				Winner:      winner,
				Improvement: "Larger person presence is more engaging and creates stronger visual impact",
				Score:       math.Min(diff*5, 100),
				Details:     fmt.Sprintf("Person size difference: %.1f%%", diff),
			})
		}
	}

	if a.HasCloseUp != b.HasCloseUp {
		winner := WinnerA
		if b.HasCloseUp {
			winner = WinnerB
		}
		out = append(out, Suggestion{
			Type:        TypePersonSize,
			Message:     fmt.Sprintf("Version %s has close-up person shots", winner),
			Winner:      winner,
			Improvement: "Close-up shots create stronger emotional impact and higher engagement",
			Score:       80,
			Details:     "Close-up shots (>40% of image area) are more attention-grabbing",
		})
	}

	if a.DominantExpression != b.DominantExpression {
		scoreA, scoreB := appeal(a.DominantExpression), appeal(b.DominantExpression)
		if diff := absInt(scoreA - scoreB); diff > 10 {
			winner, expression := WinnerA, a.DominantExpression
			if scoreB > scoreA {
				winner, expression = WinnerB, b.DominantExpression
			}
			out = append(out, Suggestion{
				Type:        TypePersonExpression,
				Message:     fmt.Sprintf("Version %s has more engaging expression (%s)", winner, expression),
				Winner:      winner,
				Improvement: "Positive expressions like happy and surprised attract more clicks",
				Score:       float64(diff),
				Details:     fmt.Sprintf("Expression comparison: %s vs %s", a.DominantExpression, b.DominantExpression),
			})
		}
	}

	return out
}

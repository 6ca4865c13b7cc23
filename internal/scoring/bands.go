package scoring

import "math"

// band awards points when a value falls in [lo, hi]. Bands are tried in
// order; the first match wins.
type band struct {
	lo, hi float64
	points float64
}

type bandTable struct {
	bands    []band
	fallback float64
}

func (t bandTable) score(v float64) float64 {
	for _, b := range t.bands {
		if v >= b.lo && v <= b.hi {
			return b.points
		}
	}
	return t.fallback
}

// above is the open lower bound used for "greater than zero" bands
var above = math.Nextafter(0, 1)

var (
	brightnessBands = bandTable{
		bands: []band{
			{120, 200, 100},
			{100, 220, 85},
			{80, 240, 70},
			{60, 255, 55},
		},
		fallback: 30,
	}

	contrastBands = bandTable{
		bands: []band{
			{40, 80, 100},
			{30, 90, 85},
			{20, 100, 70},
			{10, math.Inf(1), 55},
		},
		fallback: 30,
	}

	colorfulnessBands = bandTable{
		bands: []band{
			{30, 60, 100},
			{20, 70, 85},
			{15, 80, 70},
			{10, math.Inf(1), 55},
		},
		fallback: 40,
	}

	fontSizeBands = bandTable{
		bands: []band{
			{4, 8, 100},
			{3, 10, 85},
			{2, 12, 70},
			{1, math.Inf(1), 50},
		},
		fallback: 20,
	}

	textCoverageBands = bandTable{
		bands: []band{
			{5, 20, 100},
			{3, 25, 85},
			{1, 30, 70},
			{above, math.Inf(1), 50},
		},
		fallback: 20,
	}

	personCoverageBands = bandTable{
		bands: []band{
			{20, 50, 100},
			{15, 60, 90},
			{10, 70, 80},
			{5, 80, 70},
			{above, math.Inf(1), 50},
		},
		fallback: 30,
	}
)

package border

import "math"

// Search parameters for CalculateOptimalMinBorder.
const (
	OptimalSearchSpan = 0.5
	OptimalSearchStep = 0.01
	SnapIncrement     = 0.25
)

// CalculateOptimalMinBorder searches startBorder±0.5in in 0.01in steps for
// the minimum border whose blade readings land closest to a multiple of
// 1/4in. Ties go to the candidate nearest startBorder. A zero ratio height
// returns startBorder unchanged, as does a search where no candidate yields
// a print.
func CalculateOptimalMinBorder(paperW, paperH, ratioW, ratioH, startBorder float64) float64 {
	if ratioH == 0 {
		return startBorder
	}

	steps := int(math.Round(OptimalSearchSpan / OptimalSearchStep))
	best, bestScore := startBorder, math.Inf(1)

	for i := -steps; i <= steps; i++ {
		candidate := round2(startBorder + float64(i)*OptimalSearchStep)
		if candidate < 0 {
			continue
		}
		size := ComputePrintSize(paperW, paperH, ratioW, ratioH, candidate)
		if size.IsZero() {
			continue
		}
		blades := BladeReadings(size.Width, size.Height, 0, 0)
		score := snapDistance(blades.Left) + snapDistance(blades.Top)

		switch {
		case score < bestScore-eps:
			best, bestScore = candidate, score
		case math.Abs(score-bestScore) <= eps &&
			math.Abs(candidate-startBorder) < math.Abs(best-startBorder):
			best = candidate
		}
	}
	return best
}

// snapDistance is the distance from x to the nearest SnapIncrement multiple.
func snapDistance(x float64) float64 {
	r := math.Mod(x, SnapIncrement)
	if r < 0 {
		r += SnapIncrement
	}
	return math.Min(r, SnapIncrement-r)
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }

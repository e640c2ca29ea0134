package border

import "math"

// Slot is an oriented easel opening in inches.
type Slot struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// EaselMatch is the easel chosen for a sheet of paper.
//
// EaselSize is always canonical (Width <= Height) so the same easel reports
// the same size whatever the paper orientation. EffectiveSlot is that easel
// turned to match the paper.
type EaselMatch struct {
	EaselSize              EaselSize `json:"easel_size"`
	EffectiveSlot          Slot      `json:"effective_slot"`
	IsNonStandardPaperSize bool      `json:"is_non_standard_paper_size"`
}

// FindCenteringOffsets picks the easel slot for paperW x paperH.
//
// An exact match with a standard easel (in either orientation) is reported
// as standard. Otherwise the smallest-area easel that contains the paper
// is used, and if the paper exceeds every easel the paper itself stands in
// as the slot. The landscape flag breaks the tie for square paper, where
// the dimensions alone do not tell which way the slot is turned.
func FindCenteringOffsets(paperW, paperH float64, isLandscape bool) EaselMatch {
	short, long := math.Min(paperW, paperH), math.Max(paperW, paperH)
	landscape := paperW > paperH || (paperW == paperH && isLandscape)

	orient := func(e EaselSize) Slot {
		if landscape {
			return Slot{Width: e.Height, Height: e.Width}
		}
		return Slot{Width: e.Width, Height: e.Height}
	}

	for _, e := range EaselSizes {
		if sameSize(e.Width, short) && sameSize(e.Height, long) {
			return EaselMatch{EaselSize: e, EffectiveSlot: orient(e)}
		}
	}

	for _, e := range EaselSizes {
		if fits(e, short, long) {
			return EaselMatch{EaselSize: e, EffectiveSlot: orient(e), IsNonStandardPaperSize: true}
		}
	}

	return EaselMatch{
		EaselSize:              EaselSize{Width: short, Height: long, Label: Custom},
		EffectiveSlot:          Slot{Width: paperW, Height: paperH},
		IsNonStandardPaperSize: true,
	}
}

func sameSize(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

// fits reports whether the paper fits the easel in either orientation.
func fits(e EaselSize, w, h float64) bool {
	return (e.Width >= w-eps && e.Height >= h-eps) ||
		(e.Width >= h-eps && e.Height >= w-eps)
}

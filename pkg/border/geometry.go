package border

import "math"

const eps = 1e-9

// Blade thickness tuning. The baseline is drawn on the largest standard
// paper; smaller sheets get proportionally thicker lines up to the cap.
const (
	BaseBladeThickness = 15.0
	baseBladeArea      = 20.0 * 24.0
	maxBladeScale      = 2.0
)

// Warnings emitted by ClampOffsets.
const (
	WarnOffsetMinBorder = "Offsets adjusted to honor the min-border."
	WarnOffsetOnPaper   = "Offsets adjusted to keep the print on paper."
)

// PrintSize is the print rectangle in inches.
type PrintSize struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether the print is degenerate.
func (p PrintSize) IsZero() bool { return p.Width <= 0 || p.Height <= 0 }

// ClampResult is the outcome of ClampOffsets. HalfW and HalfH are the
// centered half-slack on each axis.
type ClampResult struct {
	Horizontal float64 `json:"horizontal"`
	Vertical   float64 `json:"vertical"`
	HalfW      float64 `json:"half_w"`
	HalfH      float64 `json:"half_h"`
	Warning    string  `json:"warning,omitempty"`
}

// Clamped reports whether either offset was adjusted.
func (c ClampResult) Clamped() bool { return c.Warning != "" }

// Borders are the four paper margins around the print, in inches.
type Borders struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// Blades are the four easel blade readings, in inches.
type Blades struct {
	Left   float64 `json:"left"`
	Right  float64 `json:"right"`
	Top    float64 `json:"top"`
	Bottom float64 `json:"bottom"`
}

// ComputePrintSize returns the largest ratioW:ratioH print that fits inside
// the paper less minBorder on every side. Any non-positive input, or a
// border that leaves no room, yields a zero PrintSize. NaN and infinite
// inputs count as out of range.
func ComputePrintSize(paperW, paperH, ratioW, ratioH, minBorder float64) PrintSize {
	if !positive(paperW) || !positive(paperH) || !positive(ratioW) || !positive(ratioH) ||
		!(minBorder >= 0) || math.IsInf(minBorder, 1) {
		return PrintSize{}
	}
	availW := paperW - 2*minBorder
	availH := paperH - 2*minBorder
	if availW <= 0 || availH <= 0 {
		return PrintSize{}
	}

	ratio := ratioW / ratioH
	if availW/availH > ratio {
		// Height binds: a full-height print is narrower than the space.
		return PrintSize{Width: availH * ratio, Height: availH}
	}
	return PrintSize{Width: availW, Height: availW / ratio}
}

// ClampOffsets limits the requested offsets so the print stays on the
// paper. Unless ignoreMinBorder is set the tighter limit applies: every
// border must stay at least minBorder wide. Clamping never flips the sign
// of an offset and the returned warning is empty when nothing changed.
func ClampOffsets(paperW, paperH, printW, printH, minBorder, horizontal, vertical float64, ignoreMinBorder bool) ClampResult {
	halfW := (paperW - printW) / 2
	halfH := (paperH - printH) / 2

	maxH, maxV := halfW, halfH
	if !ignoreMinBorder {
		maxH = halfW - minBorder
		maxV = halfH - minBorder
	}
	maxH = math.Max(maxH, 0)
	maxV = math.Max(maxV, 0)

	h := clamp(horizontal, -maxH, maxH)
	v := clamp(vertical, -maxV, maxV)

	res := ClampResult{Horizontal: h, Vertical: v, HalfW: halfW, HalfH: halfH}
	if h != horizontal || v != vertical {
		if ignoreMinBorder {
			res.Warning = WarnOffsetOnPaper
		} else {
			res.Warning = WarnOffsetMinBorder
		}
	}
	return res
}

// positive reports whether x is finite and greater than zero.
func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

func clamp(x, lo, hi float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return math.Max(lo, math.Min(hi, x))
}

// BordersFromGaps converts half-slack and (already clamped) offsets into
// the four borders. A positive horizontal offset widens the right border;
// a positive vertical offset widens the top border.
func BordersFromGaps(halfW, halfH, horizontal, vertical float64) Borders {
	return Borders{
		Left:   halfW - horizontal,
		Right:  halfW + horizontal,
		Bottom: halfH - vertical,
		Top:    halfH + vertical,
	}
}

// BladeReadings converts a print size and shift into easel blade positions.
// Moving the print by s moves one blade by 2s relative to its mirror, since
// easel scales read the opening, not the edge.
func BladeReadings(printW, printH, horizontalShift, verticalShift float64) Blades {
	return Blades{
		Left:   printW - 2*horizontalShift,
		Right:  printW + 2*horizontalShift,
		Top:    printH - 2*verticalShift,
		Bottom: printH + 2*verticalShift,
	}
}

// ValidatePrintFits reports whether the print, centered and then shifted by
// the offsets, lies within [0, paperW] x [0, paperH]. An exact fit is valid.
func ValidatePrintFits(paperW, paperH, printW, printH, horizontal, vertical float64) bool {
	b := BordersFromGaps((paperW-printW)/2, (paperH-printH)/2, horizontal, vertical)
	return b.Left >= -eps && b.Right >= -eps && b.Top >= -eps && b.Bottom >= -eps
}

// CalculateBladeThickness scales the preview blade thickness inversely with
// paper area relative to 20x24, capped at twice the baseline. Non-positive
// or non-finite dimensions return the baseline.
func CalculateBladeThickness(paperW, paperH float64) float64 {
	if !positive(paperW) || !positive(paperH) {
		return BaseBladeThickness
	}
	scale := math.Min(baseBladeArea/(paperW*paperH), maxBladeScale)
	return math.Round(BaseBladeThickness * scale)
}

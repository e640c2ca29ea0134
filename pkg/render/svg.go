package render

import (
	"bytes"
	"fmt"
	"math"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/darkroom/pkg/border"
	"github.com/matzehuels/darkroom/pkg/errors"
)

// Defaults for SVG output.
const (
	DefaultScale  = 40.0 // pixels per inch
	DefaultMargin = 24   // pixels around the drawing

	// bladeScale converts the calculator's blade thickness, tuned for a
	// 40px-per-inch preview, to the requested scale.
	bladeScale = DefaultScale
)

const (
	stylePaper    = "fill:#fafafa;stroke:#333;stroke-width:1"
	styleSlot     = "fill:none;stroke:#999;stroke-width:1;stroke-dasharray:6,4"
	stylePrint    = "fill:#d9d9d9;stroke:#555;stroke-width:0.5"
	styleBlade    = "fill:#222;fill-opacity:0.75"
	styleReading  = "font-family:sans-serif;font-size:11px;fill:#c00;text-anchor:middle"
	styleDimLabel = "font-family:sans-serif;font-size:12px;fill:#333;text-anchor:middle"
)

// Option configures SVG rendering.
type Option func(*renderer)

type renderer struct {
	scale      float64
	margin     int
	blades     bool
	readings   bool
	dimensions bool
}

// WithScale sets pixels per inch. Non-positive values keep the default.
func WithScale(pxPerInch float64) Option {
	return func(r *renderer) {
		if pxPerInch > 0 {
			r.scale = pxPerInch
		}
	}
}

// WithBlades draws the easel blades around the print.
func WithBlades() Option { return func(r *renderer) { r.blades = true } }

// WithReadings labels each blade with its scale reading.
func WithReadings() Option { return func(r *renderer) { r.readings = true } }

// WithDimensions labels the print with its size.
func WithDimensions() Option { return func(r *renderer) { r.dimensions = true } }

// SVG renders calc as an SVG document.
func SVG(calc border.PrintCalculation, opts ...Option) ([]byte, error) {
	if calc.PaperWidth <= 0 || calc.PaperHeight <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidDimension, "nothing to draw: paper is %gx%g", calc.PaperWidth, calc.PaperHeight)
	}
	r := renderer{scale: DefaultScale, margin: DefaultMargin}
	for _, opt := range opts {
		opt(&r)
	}

	slot := calc.Easel.EffectiveSlot
	frameW := math.Max(calc.PaperWidth, slot.Width)
	frameH := math.Max(calc.PaperHeight, slot.Height)

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Start(r.px(frameW)+2*r.margin, r.px(frameH)+2*r.margin)
	canvas.Title(fmt.Sprintf("%gx%g paper, %s easel", calc.PaperWidth, calc.PaperHeight, calc.Easel.EaselSize.Label))

	// The paper sits against the top-left stops of the easel slot.
	x0, y0 := r.margin, r.margin
	if calc.Easel.IsNonStandardPaperSize && slot.Width > 0 && slot.Height > 0 {
		canvas.Rect(x0, y0, r.px(slot.Width), r.px(slot.Height), styleSlot)
	}
	canvas.Rect(x0, y0, r.px(calc.PaperWidth), r.px(calc.PaperHeight), stylePaper)

	if calc.PrintWidth > 0 && calc.PrintHeight > 0 {
		px, py := x0+r.px(calc.Borders.Left), y0+r.px(calc.Borders.Top)
		pw, ph := r.px(calc.PrintWidth), r.px(calc.PrintHeight)
		canvas.Gid("print")
		canvas.Rect(px, py, pw, ph, stylePrint)
		if r.dimensions {
			canvas.Text(px+pw/2, py+ph/2+4, fmt.Sprintf("%.2f × %.2f in", calc.PrintWidth, calc.PrintHeight), styleDimLabel)
		}
		canvas.Gend()

		if r.blades {
			r.drawBlades(canvas, calc, px, py, pw, ph, x0, y0)
		}
	}

	canvas.End()
	return buf.Bytes(), nil
}

func (r renderer) drawBlades(canvas *svg.SVG, calc border.PrintCalculation, px, py, pw, ph, x0, y0 int) {
	t := int(math.Max(1, math.Round(calc.BladeThickness*r.scale/bladeScale)))
	paperW, paperH := r.px(calc.PaperWidth), r.px(calc.PaperHeight)

	canvas.Gid("blades")
	canvas.Rect(px-t, y0, t, paperH, styleBlade)
	canvas.Rect(px+pw, y0, t, paperH, styleBlade)
	canvas.Rect(x0, py-t, paperW, t, styleBlade)
	canvas.Rect(x0, py+ph, paperW, t, styleBlade)
	canvas.Gend()

	if !r.readings {
		return
	}
	b := calc.Blades
	midX, midY := px+pw/2, py+ph/2
	canvas.Gid("readings")
	canvas.Text(px+12+t, midY-14, reading(b.Left), styleReading)
	canvas.Text(px+pw-12-t, midY-14, reading(b.Right), styleReading)
	canvas.Text(midX, py+14+t, reading(b.Top), styleReading)
	canvas.Text(midX, py+ph-6-t, reading(b.Bottom), styleReading)
	canvas.Gend()
}

func (r renderer) px(inches float64) int {
	return int(math.Round(inches * r.scale))
}

func reading(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

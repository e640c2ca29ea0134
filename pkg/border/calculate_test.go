package border

import (
	"math"
	"reflect"
	"strings"
	"testing"
)

func TestCalculateDefaults(t *testing.T) {
	eng := NewEngine(0)
	calc := eng.Calculate(Input{MinBorder: 0.5})

	if calc.PaperWidth != 8 || calc.PaperHeight != 10 {
		t.Fatalf("paper = %vx%v, want 8x10", calc.PaperWidth, calc.PaperHeight)
	}
	if !approx(calc.PrintWidth, 7) || !approx(calc.PrintHeight, 4.6667) {
		t.Errorf("print = %vx%v, want 7x4.667", calc.PrintWidth, calc.PrintHeight)
	}
	if !approx(calc.Borders.Left, 0.5) || !approx(calc.Borders.Right, 0.5) {
		t.Errorf("side borders = %v/%v, want 0.5", calc.Borders.Left, calc.Borders.Right)
	}
	if !approx(calc.Borders.Top, 2.6667) || !approx(calc.Borders.Bottom, 2.6667) {
		t.Errorf("top/bottom = %v/%v, want 2.667", calc.Borders.Top, calc.Borders.Bottom)
	}
	if calc.Easel.EaselSize.Label != "8x10" || calc.Easel.IsNonStandardPaperSize {
		t.Errorf("easel = %+v, want standard 8x10", calc.Easel)
	}
	if calc.HasWarnings() {
		t.Errorf("unexpected warnings: %v", calc.Warnings)
	}
	if !calc.Fits {
		t.Error("print should fit")
	}
	if calc.BladeThickness != 30 {
		t.Errorf("blade thickness = %v, want 30", calc.BladeThickness)
	}
}

func TestCalculateScenarios(t *testing.T) {
	tests := []struct {
		name         string
		in           Input
		wantPrint    [2]float64
		wantBorders  Borders
		wantBlades   Blades
		wantWarnings []string
	}{
		{
			name:        "landscape 8x10",
			in:          Input{PaperSize: "8x10", AspectRatio: "3:2", MinBorder: 0.5, IsLandscape: true},
			wantPrint:   [2]float64{9, 6},
			wantBorders: Borders{Left: 0.5, Right: 0.5, Top: 1, Bottom: 1},
			wantBlades:  Blades{Left: 9, Right: 9, Top: 6, Bottom: 6},
		},
		{
			name: "offset clamped to min-border",
			in: Input{PaperSize: "8x10", AspectRatio: "3:2", MinBorder: 0.5, IsLandscape: true,
				EnableOffset: true, HorizontalOffset: 0.25, VerticalOffset: 0.5},
			wantPrint:    [2]float64{9, 6},
			wantBorders:  Borders{Left: 0.5, Right: 0.5, Top: 1.5, Bottom: 0.5},
			wantBlades:   Blades{Left: 9, Right: 9, Top: 5, Bottom: 7},
			wantWarnings: []string{"min-border"},
		},
		{
			name: "offsets ignored when disabled",
			in: Input{PaperSize: "8x10", AspectRatio: "3:2", MinBorder: 0.5, IsLandscape: true,
				HorizontalOffset: 3, VerticalOffset: 3},
			wantPrint:   [2]float64{9, 6},
			wantBorders: Borders{Left: 0.5, Right: 0.5, Top: 1, Bottom: 1},
			wantBlades:  Blades{Left: 9, Right: 9, Top: 6, Bottom: 6},
		},
		{
			name: "offset onto border when ignoring min-border",
			in: Input{PaperSize: "8x10", AspectRatio: "3:2", MinBorder: 0.5, IsLandscape: true,
				EnableOffset: true, IgnoreMinBorder: true, HorizontalOffset: 0.25},
			wantPrint:   [2]float64{9, 6},
			wantBorders: Borders{Left: 0.25, Right: 0.75, Top: 1, Bottom: 1},
			wantBlades:  Blades{Left: 8.5, Right: 9.5, Top: 6, Bottom: 6},
		},
		{
			name:        "flipped ratio",
			in:          Input{PaperSize: "8x10", AspectRatio: "3:2", MinBorder: 0.5, IsRatioFlipped: true},
			wantPrint:   [2]float64{6, 9},
			wantBorders: Borders{Left: 1, Right: 1, Top: 0.5, Bottom: 0.5},
			wantBlades:  Blades{Left: 6, Right: 6, Top: 9, Bottom: 9},
		},
		{
			name: "custom paper in larger easel",
			in: Input{PaperSize: Custom, CustomPaperWidth: 6, CustomPaperHeight: 9,
				AspectRatio: "1:1", MinBorder: 0.5},
			wantPrint:    [2]float64{5, 5},
			wantBorders:  Borders{Left: 0.5, Right: 0.5, Top: 2, Bottom: 2},
			wantBlades:   Blades{Left: 3, Right: 7, Top: 4, Bottom: 6},
			wantWarnings: []string{"8x10"},
		},
		{
			name: "custom ratio",
			in: Input{PaperSize: "11x14", AspectRatio: Custom, CustomAspectWidth: 1, CustomAspectHeight: 2,
				MinBorder: 1},
			wantPrint:   [2]float64{6, 12},
			wantBorders: Borders{Left: 2.5, Right: 2.5, Top: 1, Bottom: 1},
			wantBlades:  Blades{Left: 6, Right: 6, Top: 12, Bottom: 12},
		},
	}

	eng := NewEngine(8)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := eng.Calculate(tt.in)
			if !approx(calc.PrintWidth, tt.wantPrint[0]) || !approx(calc.PrintHeight, tt.wantPrint[1]) {
				t.Errorf("print = %vx%v, want %vx%v", calc.PrintWidth, calc.PrintHeight, tt.wantPrint[0], tt.wantPrint[1])
			}
			if !bordersApprox(calc.Borders, tt.wantBorders) {
				t.Errorf("borders = %+v, want %+v", calc.Borders, tt.wantBorders)
			}
			if !bladesApprox(calc.Blades, tt.wantBlades) {
				t.Errorf("blades = %+v, want %+v", calc.Blades, tt.wantBlades)
			}
			if len(calc.Warnings) != len(tt.wantWarnings) {
				t.Fatalf("warnings = %v, want %d mentioning %v", calc.Warnings, len(tt.wantWarnings), tt.wantWarnings)
			}
			for i, w := range tt.wantWarnings {
				if !strings.Contains(calc.Warnings[i], w) {
					t.Errorf("warning[%d] = %q, want it to mention %q", i, calc.Warnings[i], w)
				}
			}
		})
	}
}

func TestCalculateDegenerate(t *testing.T) {
	tests := []struct {
		name        string
		in          Input
		wantWarning string
	}{
		{"unknown paper", Input{PaperSize: "9x12", AspectRatio: "3:2"}, WarnUnknownPaper},
		{"unknown ratio", Input{PaperSize: "8x10", AspectRatio: "4:1"}, WarnUnknownRatio},
		{"border too wide", Input{PaperSize: "8x10", AspectRatio: "3:2", MinBorder: 5}, WarnNoPrintArea},
		{"zero custom paper", Input{PaperSize: Custom, AspectRatio: "3:2"}, WarnNoPrintArea},
		{"zero custom ratio", Input{PaperSize: "8x10", AspectRatio: Custom, CustomAspectWidth: 2}, WarnNoPrintArea},
		{"paper larger than every easel", Input{PaperSize: Custom, CustomPaperWidth: 30, CustomPaperHeight: 40,
			AspectRatio: "3:2", MinBorder: 1}, WarnExceedsEasels},
		{"NaN custom paper", Input{PaperSize: Custom, CustomPaperWidth: math.NaN(), CustomPaperHeight: 10,
			AspectRatio: "3:2", MinBorder: 0.5}, WarnNoPrintArea},
		{"infinite custom paper", Input{PaperSize: Custom, CustomPaperWidth: 8, CustomPaperHeight: math.Inf(1),
			AspectRatio: "3:2", MinBorder: 0.5}, WarnNoPrintArea},
		{"NaN custom ratio", Input{PaperSize: "8x10", AspectRatio: Custom, CustomAspectWidth: math.NaN(),
			CustomAspectHeight: 2, MinBorder: 0.5}, WarnNoPrintArea},
		{"NaN border", Input{PaperSize: "8x10", AspectRatio: "3:2", MinBorder: math.NaN()}, WarnNoPrintArea},
		{"infinite border", Input{PaperSize: "8x10", AspectRatio: "3:2", MinBorder: math.Inf(1)}, WarnNoPrintArea},
	}

	eng := NewEngine(8)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calc := eng.Calculate(tt.in)
			for _, v := range []float64{calc.PaperWidth, calc.PaperHeight, calc.PrintWidth, calc.PrintHeight,
				calc.Borders.Left, calc.Borders.Right, calc.Borders.Top, calc.Borders.Bottom, calc.BladeThickness} {
				if math.IsNaN(v) || math.IsInf(v, 0) {
					t.Fatalf("non-finite value in %+v", calc)
				}
			}
			found := false
			for _, w := range calc.Warnings {
				if w == tt.wantWarning {
					found = true
				}
			}
			if !found {
				t.Errorf("warnings = %v, want %q", calc.Warnings, tt.wantWarning)
			}
		})
	}

	calc := eng.Calculate(Input{PaperSize: "8x10", AspectRatio: "3:2", MinBorder: 5})
	if calc.PrintWidth != 0 || calc.PrintHeight != 0 {
		t.Errorf("print = %vx%v, want zero", calc.PrintWidth, calc.PrintHeight)
	}
	if !approx(calc.Borders.Left+calc.Borders.Right, 8) {
		t.Errorf("degenerate borders should still cover the paper: %+v", calc.Borders)
	}
}

func TestCalculateBorderSumInvariant(t *testing.T) {
	eng := NewEngine(0)
	for _, paper := range PaperSizes[:len(PaperSizes)-1] {
		for _, ratio := range AspectRatios[:len(AspectRatios)-1] {
			for _, mb := range []float64{0, 0.25, 1} {
				for _, off := range []float64{-1, 0, 0.7} {
					for _, ignore := range []bool{false, true} {
						in := Input{
							PaperSize: paper.Key, AspectRatio: ratio.Key, MinBorder: mb,
							EnableOffset: true, IgnoreMinBorder: ignore,
							HorizontalOffset: off, VerticalOffset: -off,
						}
						calc := eng.Calculate(in)
						if calc.PrintWidth == 0 {
							continue
						}
						b := calc.Borders
						if !approx(calc.PrintWidth+b.Left+b.Right, calc.PaperWidth) ||
							!approx(calc.PrintHeight+b.Top+b.Bottom, calc.PaperHeight) {
							t.Errorf("%+v: borders %+v do not add up", in, b)
						}
						if !calc.Fits {
							t.Errorf("%+v: clamped print should fit", in)
						}
						if !ignore && (b.Left < mb-1e-9 || b.Right < mb-1e-9 || b.Top < mb-1e-9 || b.Bottom < mb-1e-9) {
							t.Errorf("%+v: border below minimum: %+v", in, b)
						}
					}
				}
			}
		}
	}
}

func TestCalculateIdempotent(t *testing.T) {
	eng := NewEngine(0)
	in := Input{PaperSize: "11x14", AspectRatio: "65:24", MinBorder: 0.75,
		EnableOffset: true, HorizontalOffset: 0.3, VerticalOffset: -0.2, IsLandscape: true}
	a, b := eng.Calculate(in), eng.Calculate(in)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("repeated calculation differs:\n%+v\n%+v", a, b)
	}
}

func TestOptimalMinBorder(t *testing.T) {
	eng := NewEngine(0)
	if got := eng.OptimalMinBorder(Input{PaperSize: "8x10", AspectRatio: "1:1", MinBorder: 0.55}); got != 0.5 {
		t.Errorf("OptimalMinBorder() = %v, want 0.5", got)
	}
	if got := eng.OptimalMinBorder(Input{PaperSize: "nope", MinBorder: 0.55}); got != 0.55 {
		t.Errorf("unknown paper should return the start border, got %v", got)
	}
}

func bordersApprox(a, b Borders) bool {
	return approx(a.Left, b.Left) && approx(a.Right, b.Right) && approx(a.Top, b.Top) && approx(a.Bottom, b.Bottom)
}

func bladesApprox(a, b Blades) bool {
	return approx(a.Left, b.Left) && approx(a.Right, b.Right) && approx(a.Top, b.Top) && approx(a.Bottom, b.Bottom)
}

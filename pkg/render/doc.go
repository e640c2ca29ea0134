// Package render draws enlarging-easel diagrams for a border calculation.
//
// [SVG] renders the paper, the easel slot (when the paper is smaller than
// the easel it sits in), the print area and the four easel blades. Blade
// stroke width follows [border.CalculateBladeThickness] so large papers get
// proportionally thinner blades.
//
//	calc := engine.Calculate(in)
//	svg, err := render.SVG(calc, render.WithReadings(), render.WithScale(30))
//
// [ToPNG] and [ToPDF] convert the SVG with rsvg-convert from librsvg;
// [JSON] serializes the calculation itself.
package render

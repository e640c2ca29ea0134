package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/darkroom/pkg/border"
	"github.com/matzehuels/darkroom/pkg/render"
)

// RenderFormat produces one artifact from a calculation.
func RenderFormat(ctx context.Context, calc border.PrintCalculation, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatJSON:
		return render.JSON(calc)
	case FormatSVG:
		return render.SVG(calc, opts.RenderOptions()...)
	case FormatPNG, FormatPDF:
		svg, err := render.SVG(calc, opts.RenderOptions()...)
		if err != nil {
			return nil, err
		}
		if format == FormatPNG {
			return render.ToPNG(ctx, svg, opts.PNGZoom)
		}
		return render.ToPDF(ctx, svg)
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// Package pipeline runs the calculate → render flow shared by the CLI and
// the HTTP server.
//
// # Architecture
//
// The pipeline has two stages:
//
//  1. Calculate: resolve paper and ratio, size the print, clamp offsets and
//     derive borders, blades and the easel match ([border.Engine]).
//  2. Render: produce outputs in the requested formats (SVG, PNG, PDF,
//     JSON) from the calculation.
//
// Calculation is cheap and never cached. Rendered artifacts are cached per
// format, keyed by the input and the render options.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Input:   border.Input{PaperSize: "8x10", AspectRatio: "3:2", MinBorder: 0.5},
//	    Formats: []string{pipeline.FormatSVG},
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/darkroom/pkg/border"
	"github.com/matzehuels/darkroom/pkg/cache"
	"github.com/matzehuels/darkroom/pkg/errors"
	"github.com/matzehuels/darkroom/pkg/render"
)

// Default render settings.
const (
	DefaultScale   = render.DefaultScale
	DefaultPNGZoom = 2.0

	// MaxScale and MaxPNGZoom bound the canvas and raster size of a preview.
	MaxScale   = 400.0
	MaxPNGZoom = 8.0
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// Options contains all configuration for one pipeline run.
// This struct supports JSON serialization for API requests.
type Options struct {
	Input border.Input `json:"input"`

	// Render options
	Formats        []string `json:"formats,omitempty"`
	Scale          float64  `json:"scale,omitempty"`
	ShowBlades     bool     `json:"show_blades,omitempty"`
	ShowReadings   bool     `json:"show_readings,omitempty"`
	ShowDimensions bool     `json:"show_dimensions,omitempty"`
	PNGZoom        float64  `json:"png_zoom,omitempty"`

	// Refresh skips cache reads but still writes fresh artifacts.
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Calculation is the border calculation the artifacts were drawn from.
	Calculation border.PrintCalculation

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing information.
	Stats Stats

	// CacheInfo tracks which formats came from the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Warnings      int
	CalculateTime time.Duration
	RenderTime    time.Duration
}

// CacheInfo tracks cache hits per format.
type CacheInfo struct {
	Hits      map[string]bool
	RenderHit bool // every requested format came from the cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ParseFormats splits a comma-separated format list, defaulting to SVG.
func ParseFormats(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// ValidateAndSetDefaults checks numeric input and applies render defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := ValidateInput(o.Input); err != nil {
		return err
	}
	o.SetRenderDefaults()
	if !(o.Scale <= MaxScale) {
		return errors.New(errors.ErrCodeInvalidInput, "scale must be at most %g px/in, got %g", MaxScale, o.Scale)
	}
	if !(o.PNGZoom <= MaxPNGZoom) {
		return errors.New(errors.ErrCodeInvalidInput, "png_zoom must be at most %g, got %g", MaxPNGZoom, o.PNGZoom)
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	o.Input = o.Input.WithDefaults()
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}
	if o.PNGZoom <= 0 {
		o.PNGZoom = DefaultPNGZoom
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// PreviewKeyOpts returns cache key options for one rendered format.
func (o *Options) PreviewKeyOpts(format string) cache.PreviewKeyOpts {
	scale := o.Scale
	if format == FormatPNG {
		scale *= o.PNGZoom
	}
	return cache.PreviewKeyOpts{
		Format:        format,
		Scale:         scale,
		ShowBlades:    o.ShowBlades,
		ShowReadings:  o.ShowReadings,
		ShowDimension: o.ShowDimensions,
	}
}

// RenderOptions converts the options into SVG render options.
func (o *Options) RenderOptions() []render.Option {
	opts := []render.Option{render.WithScale(o.Scale)}
	if o.ShowBlades {
		opts = append(opts, render.WithBlades())
	}
	if o.ShowReadings {
		opts = append(opts, render.WithReadings())
	}
	if o.ShowDimensions {
		opts = append(opts, render.WithDimensions())
	}
	return opts
}

// ValidateInput rejects non-finite and absurdly large numbers. Unknown
// table keys and zero dimensions are left to the calculator, which reports
// them as warnings.
func ValidateInput(in border.Input) error {
	fields := []struct {
		name string
		v    float64
	}{
		{"min_border", in.MinBorder},
		{"horizontal_offset", in.HorizontalOffset},
		{"vertical_offset", in.VerticalOffset},
		{"custom_paper_width", in.CustomPaperWidth},
		{"custom_paper_height", in.CustomPaperHeight},
		{"custom_aspect_width", in.CustomAspectWidth},
		{"custom_aspect_height", in.CustomAspectHeight},
	}
	for _, f := range fields {
		if err := errors.ValidateBorder(f.name, f.v, true); err != nil {
			return err
		}
	}
	return nil
}

// Package preset shares and stores border calculator settings.
//
// A [Preset] is a named snapshot of everything the border calculator needs
// plus two display toggles. Presets travel in two ways:
//
//   - As a share code ([Encode], [Decode]): a compact, URL-safe string that
//     fits in a link. The format is stable across versions; see codec.go.
//   - As stored records ([Store]): saved under a generated ID in memory, on
//     disk, in Redis or in MongoDB.
//
// # Usage
//
//	code, err := preset.Encode(p)
//	...
//	p, err := preset.Decode(code)
//	if err != nil {
//	    // Recoverable: log it and fall back to preset.Default().
//	}
package preset

import (
	"github.com/matzehuels/darkroom/pkg/border"
	"github.com/matzehuels/darkroom/pkg/errors"
)

// Preset is a named set of border calculator settings.
type Preset struct {
	Name               string  `json:"name"`
	AspectRatio        string  `json:"aspect_ratio"`
	PaperSize          string  `json:"paper_size"`
	CustomAspectWidth  float64 `json:"custom_aspect_width,omitempty"`
	CustomAspectHeight float64 `json:"custom_aspect_height,omitempty"`
	CustomPaperWidth   float64 `json:"custom_paper_width,omitempty"`
	CustomPaperHeight  float64 `json:"custom_paper_height,omitempty"`
	MinBorder          float64 `json:"min_border"`
	EnableOffset       bool    `json:"enable_offset"`
	IgnoreMinBorder    bool    `json:"ignore_min_border"`
	HorizontalOffset   float64 `json:"horizontal_offset"`
	VerticalOffset     float64 `json:"vertical_offset"`
	ShowBlades         bool    `json:"show_blades"`
	ShowBladeReadings  bool    `json:"show_blade_readings"`
	IsLandscape        bool    `json:"is_landscape"`
	IsRatioFlipped     bool    `json:"is_ratio_flipped"`
}

// Default returns the settings used when nothing else is known.
func Default() Preset {
	return Preset{
		Name:              "Default",
		AspectRatio:       border.DefaultAspectRatio,
		PaperSize:         border.DefaultPaperSize,
		MinBorder:         border.DefaultMinBorder,
		ShowBlades:        true,
		ShowBladeReadings: true,
		IsLandscape:       true,
	}
}

// FromInput captures calculator input under a name. Display toggles are
// taken from display.
func FromInput(name string, in border.Input, display Preset) Preset {
	return Preset{
		Name:               name,
		AspectRatio:        in.AspectRatio,
		PaperSize:          in.PaperSize,
		CustomAspectWidth:  in.CustomAspectWidth,
		CustomAspectHeight: in.CustomAspectHeight,
		CustomPaperWidth:   in.CustomPaperWidth,
		CustomPaperHeight:  in.CustomPaperHeight,
		MinBorder:          in.MinBorder,
		EnableOffset:       in.EnableOffset,
		IgnoreMinBorder:    in.IgnoreMinBorder,
		HorizontalOffset:   in.HorizontalOffset,
		VerticalOffset:     in.VerticalOffset,
		ShowBlades:         display.ShowBlades,
		ShowBladeReadings:  display.ShowBladeReadings,
		IsLandscape:        in.IsLandscape,
		IsRatioFlipped:     in.IsRatioFlipped,
	}
}

// Input returns the calculator input described by the preset.
func (p Preset) Input() border.Input {
	return border.Input{
		PaperSize:          p.PaperSize,
		CustomPaperWidth:   p.CustomPaperWidth,
		CustomPaperHeight:  p.CustomPaperHeight,
		AspectRatio:        p.AspectRatio,
		CustomAspectWidth:  p.CustomAspectWidth,
		CustomAspectHeight: p.CustomAspectHeight,
		MinBorder:          p.MinBorder,
		EnableOffset:       p.EnableOffset,
		IgnoreMinBorder:    p.IgnoreMinBorder,
		HorizontalOffset:   p.HorizontalOffset,
		VerticalOffset:     p.VerticalOffset,
		IsLandscape:        p.IsLandscape,
		IsRatioFlipped:     p.IsRatioFlipped,
	}
}

// Validate checks the preset name, table keys and numeric fields.
func (p Preset) Validate() error {
	if err := errors.ValidatePresetName(p.Name); err != nil {
		return err
	}
	if border.RatioIndex(p.AspectRatio) < 0 {
		return errors.New(errors.ErrCodeUnknownRatio, "unknown aspect ratio: %q", p.AspectRatio)
	}
	if border.PaperIndex(p.PaperSize) < 0 {
		return errors.New(errors.ErrCodeUnknownPaper, "unknown paper size: %q", p.PaperSize)
	}
	if p.AspectRatio == border.Custom {
		if err := errors.ValidateDimension("custom_aspect_width", p.CustomAspectWidth); err != nil {
			return err
		}
		if err := errors.ValidateDimension("custom_aspect_height", p.CustomAspectHeight); err != nil {
			return err
		}
	}
	if p.PaperSize == border.Custom {
		if err := errors.ValidateDimension("custom_paper_width", p.CustomPaperWidth); err != nil {
			return err
		}
		if err := errors.ValidateDimension("custom_paper_height", p.CustomPaperHeight); err != nil {
			return err
		}
	}
	if err := errors.ValidateBorder("min_border", p.MinBorder, false); err != nil {
		return err
	}
	if err := errors.ValidateBorder("horizontal_offset", p.HorizontalOffset, true); err != nil {
		return err
	}
	return errors.ValidateBorder("vertical_offset", p.VerticalOffset, true)
}

func (p Preset) hasCustomDims() bool {
	return p.AspectRatio == border.Custom || p.PaperSize == border.Custom
}

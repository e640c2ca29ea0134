package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/darkroom/pkg/border"
	"github.com/matzehuels/darkroom/pkg/config"
	"github.com/matzehuels/darkroom/pkg/pipeline"
	"github.com/matzehuels/darkroom/pkg/preset"
)

// inputFlags holds the calculator flags shared by border, optimal, preview
// and preset commands.
type inputFlags struct {
	code         string  // share code; other flags override its fields
	paper        string  // paper table key or "custom"
	paperWidth   float64 // custom paper width (in)
	paperHeight  float64 // custom paper height (in)
	ratio        string  // aspect ratio table key or "custom"
	ratioWidth   float64 // custom ratio width
	ratioHeight  float64 // custom ratio height
	minBorder    float64 // minimum border (in)
	horizontal   float64 // horizontal offset (in)
	vertical     float64 // vertical offset (in)
	ignoreBorder bool    // let offsets eat into the minimum border
	landscape    bool    // turn the paper
	flipped      bool    // swap the ratio's sides

	cmd *cobra.Command
}

// bind registers the flags on cmd.
func (f *inputFlags) bind(cmd *cobra.Command) {
	f.cmd = cmd
	fl := cmd.Flags()
	fl.StringVar(&f.code, "code", "", "start from a preset share code")
	fl.StringVarP(&f.paper, "paper", "p", "", "paper size: 4x5, 4x6, 5x7, 8x10, 11x14, 16x20, 20x24 or custom")
	fl.Float64Var(&f.paperWidth, "paper-width", 0, "custom paper width in inches")
	fl.Float64Var(&f.paperHeight, "paper-height", 0, "custom paper height in inches")
	fl.StringVarP(&f.ratio, "ratio", "r", "", "aspect ratio, e.g. 3:2, 6:4.5, 1:1, 5:4 or custom")
	fl.Float64Var(&f.ratioWidth, "ratio-width", 0, "custom ratio width")
	fl.Float64Var(&f.ratioHeight, "ratio-height", 0, "custom ratio height")
	fl.Float64VarP(&f.minBorder, "border", "b", border.DefaultMinBorder, "minimum border in inches")
	fl.Float64Var(&f.horizontal, "h-offset", 0, "horizontal offset in inches (positive widens the right border, moving the print left)")
	fl.Float64Var(&f.vertical, "v-offset", 0, "vertical offset in inches (positive widens the top border, moving the print down)")
	fl.BoolVar(&f.ignoreBorder, "ignore-border", false, "allow offsets to cut into the minimum border")
	fl.BoolVarP(&f.landscape, "landscape", "l", true, "landscape paper orientation (default from config)")
	fl.BoolVar(&f.flipped, "flip", false, "flip the aspect ratio")
}

func (f *inputFlags) changed(name string) bool {
	return f.cmd != nil && f.cmd.Flags().Changed(name)
}

// preset resolves the flags into a preset. The base is the decoded share
// code, or the config defaults when no code is given; flags set on the
// command line override it. Non-finite or oversized numbers are rejected
// with INVALID_INPUT.
func (f *inputFlags) preset(defaults config.DefaultsConfig) (preset.Preset, error) {
	base := preset.Default()
	base.AspectRatio = defaults.AspectRatio
	base.PaperSize = defaults.PaperSize
	base.MinBorder = defaults.MinBorder
	base.IsLandscape = defaults.Landscape

	if f.code != "" {
		p, err := preset.Decode(f.code)
		if err != nil {
			return preset.Preset{}, err
		}
		base = *p
	}

	if f.changed("paper") {
		base.PaperSize = f.paper
	}
	if f.changed("paper-width") {
		base.CustomPaperWidth = f.paperWidth
	}
	if f.changed("paper-height") {
		base.CustomPaperHeight = f.paperHeight
	}
	if f.changed("ratio") {
		base.AspectRatio = f.ratio
	}
	if f.changed("ratio-width") {
		base.CustomAspectWidth = f.ratioWidth
	}
	if f.changed("ratio-height") {
		base.CustomAspectHeight = f.ratioHeight
	}
	if f.changed("border") {
		base.MinBorder = f.minBorder
	}
	if f.changed("h-offset") {
		base.HorizontalOffset = f.horizontal
	}
	if f.changed("v-offset") {
		base.VerticalOffset = f.vertical
	}
	if f.changed("ignore-border") {
		base.IgnoreMinBorder = f.ignoreBorder
	}
	if f.changed("landscape") {
		base.IsLandscape = f.landscape
	}
	if f.changed("flip") {
		base.IsRatioFlipped = f.flipped
	}
	if f.changed("h-offset") || f.changed("v-offset") {
		base.EnableOffset = base.HorizontalOffset != 0 || base.VerticalOffset != 0
	}
	if err := pipeline.ValidateInput(base.Input()); err != nil {
		return preset.Preset{}, err
	}
	return base, nil
}

// input resolves the flags into calculator input.
func (f *inputFlags) input(defaults config.DefaultsConfig) (border.Input, error) {
	p, err := f.preset(defaults)
	if err != nil {
		return border.Input{}, err
	}
	return p.Input(), nil
}

package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/darkroom/pkg/config"
	"github.com/matzehuels/darkroom/pkg/pipeline"
)

const defaultPreviewBase = "darkroom-preview"

// previewOpts holds the command-line flags for the preview command.
type previewOpts struct {
	output     string  // output file (single format) or base path (several)
	formats    string  // comma-separated formats
	scale      float64 // pixels per inch
	blades     bool    // draw easel blades
	readings   bool    // label blade readings
	dimensions bool    // label print dimensions
	pngZoom    float64 // PNG zoom factor
	noCache    bool    // skip the artifact cache
	refresh    bool    // re-render and overwrite cached artifacts
}

// previewCommand creates the preview command: draw the paper, print and
// blades to SVG, PNG, PDF or JSON files.
func (c *CLI) previewCommand() *cobra.Command {
	var in inputFlags
	opts := previewOpts{
		scale:    pipeline.DefaultScale,
		blades:   true,
		readings: true,
		pngZoom:  pipeline.DefaultPNGZoom,
	}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Render a preview of the print on the easel",
		Example: `  darkroom preview -p 8x10 -r 3:2 -o print.svg
  darkroom preview -p 11x14 -r 6:4.5 -f svg,png -o prints/11x14`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireFeature(config.FeaturePreview); err != nil {
				return err
			}
			input, err := in.input(c.Config.Defaults)
			if err != nil {
				return err
			}

			popts := pipeline.Options{
				Input:          input,
				Formats:        pipeline.ParseFormats(opts.formats),
				Scale:          opts.scale,
				ShowBlades:     opts.blades,
				ShowReadings:   opts.readings,
				ShowDimensions: opts.dimensions,
				PNGZoom:        opts.pngZoom,
				Refresh:        opts.refresh,
				Logger:         c.Logger,
			}
			if err := popts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			runner, err := c.newRunner(cmd.Context(), opts.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			prog := newProgress(c.Logger)
			var spin *spinner
			if needsConversion(popts.Formats) {
				spin = startSpinner(cmd.Context(), "Rendering preview...")
			}
			result, err := runner.Execute(cmd.Context(), popts)
			if spin != nil {
				if err != nil {
					spin.fail("Render failed")
				} else {
					spin.stop()
				}
			}
			if err != nil {
				return err
			}

			paths := outputPaths(opts.output, popts.Formats)
			for _, format := range popts.Formats {
				path := paths[format]
				if dir := filepath.Dir(path); dir != "." {
					if err := os.MkdirAll(dir, 0o755); err != nil {
						return fmt.Errorf("create output dir: %w", err)
					}
				}
				if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
					return fmt.Errorf("write %s: %w", path, err)
				}
			}
			prog.done(fmt.Sprintf("Rendered %d file(s)", len(popts.Formats)))

			printSuccess("Preview %.2f x %.2f in on %g x %g in paper",
				result.Calculation.PrintWidth, result.Calculation.PrintHeight,
				result.Calculation.PaperWidth, result.Calculation.PaperHeight)
			for _, format := range popts.Formats {
				printFile(paths[format])
				printCacheStatus(format, result.CacheInfo.Hits[format])
			}
			for _, w := range result.Calculation.Warnings {
				printWarning("%s", w)
			}
			return nil
		},
	}

	in.bind(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", "", "output format(s): svg (default), png, pdf, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "pixels per inch")
	cmd.Flags().BoolVar(&opts.blades, "blades", opts.blades, "draw the easel blades")
	cmd.Flags().BoolVar(&opts.readings, "readings", opts.readings, "label the blade readings")
	cmd.Flags().BoolVar(&opts.dimensions, "dimensions", false, "label the print dimensions")
	cmd.Flags().Float64Var(&opts.pngZoom, "png-zoom", opts.pngZoom, "zoom factor for PNG output")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "re-render even when cached")
	return cmd
}

// outputPaths maps each format to a file path. A single format uses output
// as given (adding the extension when it has none); several formats treat
// output as a base path.
func outputPaths(output string, formats []string) map[string]string {
	paths := make(map[string]string, len(formats))
	if len(formats) == 1 && output != "" {
		path := output
		if filepath.Ext(path) == "" {
			path += "." + formats[0]
		}
		paths[formats[0]] = path
		return paths
	}

	base := output
	if base == "" {
		base = defaultPreviewBase
	}
	base = strings.TrimSuffix(base, filepath.Ext(base))
	for _, f := range formats {
		paths[f] = base + "." + f
	}
	return paths
}

// needsConversion reports whether any format goes through rsvg-convert.
func needsConversion(formats []string) bool {
	for _, f := range formats {
		if f == pipeline.FormatPNG || f == pipeline.FormatPDF {
			return true
		}
	}
	return false
}

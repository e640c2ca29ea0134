package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/darkroom/pkg/border"
	"github.com/matzehuels/darkroom/pkg/config"
	"github.com/matzehuels/darkroom/pkg/errors"
	"github.com/matzehuels/darkroom/pkg/exposure"
)

// exposureCommand creates the exposure command group: f-stop timing,
// print resizing and reciprocity correction.
func (c *CLI) exposureCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exposure",
		Short: "Exposure time calculators for printing",
	}

	cmd.AddCommand(c.exposureStopsCommand())
	cmd.AddCommand(c.exposureResizeCommand())
	cmd.AddCommand(c.exposureReciprocityCommand())

	return cmd
}

func (c *CLI) exposureStopsCommand() *cobra.Command {
	var (
		base      float64
		stops     float64
		increment string
		span      int
	)
	cmd := &cobra.Command{
		Use:   "stops",
		Short: "Change an exposure time by stops, or print a test-strip ladder",
		Example: `  darkroom exposure stops -t 12 -s 0.5
  darkroom exposure stops -t 12 --strip third --span 1`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireFeature(config.FeatureExposure); err != nil {
				return err
			}
			t, err := exposure.AdjustTime(base, stops)
			if err != nil {
				return err
			}
			printKeyValue("Base", seconds(base))
			printKeyValue("Change", exposure.FormatStops(stops)+" stops")
			printKeyValue("New time", StyleNumber.Render(seconds(t)))

			if increment == "" {
				return nil
			}
			inc, err := parseIncrement(increment)
			if err != nil {
				return err
			}
			steps, err := exposure.StopSteps(t, inc, span)
			if err != nil {
				return err
			}
			printNewline()
			rows := make([][]string, 0, len(steps))
			for _, s := range steps {
				rows = append(rows, []string{exposure.FormatStops(s.Stops), seconds(s.Time)})
			}
			printTable([]string{"Stops", "Time"}, rows)
			return nil
		},
	}
	cmd.Flags().Float64VarP(&base, "time", "t", 10, "base exposure time in seconds")
	cmd.Flags().Float64VarP(&stops, "stops", "s", 0, "stops to add (negative to subtract)")
	cmd.Flags().StringVar(&increment, "strip", "", "print a test-strip ladder: full, half or third")
	cmd.Flags().IntVar(&span, "span", 2, "test-strip span in stops on each side")
	return cmd
}

func (c *CLI) exposureResizeCommand() *cobra.Command {
	var origW, origH, newW, newH, t float64
	cmd := &cobra.Command{
		Use:     "resize",
		Short:   "Scale an exposure time to a new print size",
		Example: `  darkroom exposure resize --from 8x10 --to 16x20 -t 12`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireFeature(config.FeatureExposure); err != nil {
				return err
			}
			r, err := exposure.ResizeExposure(origW, origH, newW, newH, t)
			if err != nil {
				return err
			}
			printKeyValue("Original", fmt.Sprintf("%g x %g in · %s", origW, origH, seconds(r.OriginalTime)))
			printKeyValue("New", fmt.Sprintf("%g x %g in · %s", newW, newH, StyleNumber.Render(seconds(r.NewTime))))
			printKeyValue("Change", fmt.Sprintf("%s stops (area x%.2f)", exposure.FormatStops(r.Stops), r.AreaRatio))
			return nil
		},
	}
	cmd.Flags().Float64Var(&origW, "from-width", 8, "original print width")
	cmd.Flags().Float64Var(&origH, "from-height", 10, "original print height")
	cmd.Flags().Float64Var(&newW, "to-width", 16, "new print width")
	cmd.Flags().Float64Var(&newH, "to-height", 20, "new print height")
	cmd.Flags().Float64VarP(&t, "time", "t", 10, "original exposure time in seconds")

	var from, to string
	cmd.Flags().StringVar(&from, "from", "", "original paper size key (sets --from-width/--from-height)")
	cmd.Flags().StringVar(&to, "to", "", "new paper size key (sets --to-width/--to-height)")
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if from != "" {
			w, h, err := paperDims(from)
			if err != nil {
				return err
			}
			origW, origH = w, h
		}
		if to != "" {
			w, h, err := paperDims(to)
			if err != nil {
				return err
			}
			newW, newH = w, h
		}
		return nil
	}
	return cmd
}

func (c *CLI) exposureReciprocityCommand() *cobra.Command {
	var (
		metered float64
		film    string
		factor  float64
	)
	cmd := &cobra.Command{
		Use:   "reciprocity",
		Short: "Correct a long exposure for reciprocity failure",
		Example: `  darkroom exposure reciprocity -t 30 --film hp5
  darkroom exposure reciprocity -t 30 --factor 1.4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireFeature(config.FeatureExposure); err != nil {
				return err
			}
			name := "custom"
			if !cmd.Flags().Changed("factor") {
				f, err := exposure.LookupFilm(film)
				if err != nil {
					return err
				}
				factor, name = f.Factor, f.Name
			}
			r, err := exposure.CorrectedTime(metered, factor)
			if err != nil {
				return err
			}
			printKeyValue("Film", fmt.Sprintf("%s (factor %.2f)", name, r.Factor))
			printKeyValue("Metered", seconds(r.Metered))
			printKeyValue("Corrected", StyleNumber.Render(seconds(r.Corrected)))
			printKeyValue("Change", exposure.FormatStops(r.Stops)+" stops")
			return nil
		},
	}
	cmd.Flags().Float64VarP(&metered, "time", "t", 1, "metered exposure time in seconds")
	cmd.Flags().StringVar(&film, "film", "hp5", "film key (see darkroom tables films)")
	cmd.Flags().Float64Var(&factor, "factor", 0, "Schwarzschild exponent, overrides --film")
	return cmd
}

func parseIncrement(s string) (float64, error) {
	switch s {
	case "full", "1":
		return exposure.FullStop, nil
	case "half", "1/2":
		return exposure.HalfStop, nil
	case "third", "1/3":
		return exposure.ThirdStop, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidInput, "unknown strip increment %q (full, half or third)", s)
}

func paperDims(key string) (float64, float64, error) {
	p, err := border.LookupPaper(key)
	if err != nil {
		return 0, 0, err
	}
	return p.Width, p.Height, nil
}

func seconds(t float64) string {
	return fmt.Sprintf("%.1fs", t)
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/darkroom/pkg/config"
	"github.com/matzehuels/darkroom/pkg/pipeline"
	"github.com/matzehuels/darkroom/pkg/preset"
	"github.com/matzehuels/darkroom/pkg/render"
)

// borderCommand creates the border command: calculate and print blade
// positions.
func (c *CLI) borderCommand() *cobra.Command {
	var (
		in      inputFlags
		asJSON  bool
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "border",
		Short: "Calculate print size, borders and easel blade positions",
		Example: `  darkroom border -p 8x10 -r 3:2 -b 0.5
  darkroom border -p custom --paper-width 9.5 --paper-height 12 -r 6:4.5
  darkroom border --code VGVzdC0wLTMtNTAtMC0xMDAwMC0xMg --h-offset 0.25`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := in.input(c.Config.Defaults)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), noCache || !asJSON)
			if err != nil {
				return err
			}
			defer runner.Close()

			if asJSON {
				result, err := runner.Execute(cmd.Context(), pipeline.Options{
					Input:   input,
					Formats: []string{pipeline.FormatJSON},
				})
				if err != nil {
					return err
				}
				fmt.Fprintln(stdout, string(result.Artifacts[pipeline.FormatJSON]))
				return nil
			}

			printCalculation(runner.Calculate(cmd.Context(), input))
			if c.Config.Features.PresetSharing {
				p, _ := in.preset(c.Config.Defaults)
				p.Name = "Print"
				if code, err := preset.Encode(p); err == nil {
					printDetail("share code: %s", code)
				}
			}
			return nil
		},
	}

	in.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the calculation as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "skip the artifact cache")
	return cmd
}

// optimalCommand creates the optimal command: find a minimum border near
// the given one that puts blade readings on quarter-inch marks.
func (c *CLI) optimalCommand() *cobra.Command {
	var (
		in     inputFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "optimal",
		Short: "Suggest a minimum border that gives round blade readings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireFeature(config.FeatureOptimalBorder); err != nil {
				return err
			}
			input, err := in.input(c.Config.Defaults)
			if err != nil {
				return err
			}
			runner, err := c.newRunner(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer runner.Close()

			best := runner.OptimalMinBorder(cmd.Context(), input)
			input.MinBorder = best
			calc := runner.Calculate(cmd.Context(), input)

			if asJSON {
				data, err := render.JSON(calc)
				if err != nil {
					return err
				}
				fmt.Fprintf(stdout, "{\"optimal_min_border\":%g,\"calculation\":%s}\n", best, data)
				return nil
			}

			printSuccess("Optimal minimum border: %s", StyleNumber.Render(fmt.Sprintf("%.2f in", best)))
			printNewline()
			printCalculation(calc)
			printNextStep("Use it", fmt.Sprintf("darkroom border -b %.2f", best))
			return nil
		},
	}

	in.bind(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

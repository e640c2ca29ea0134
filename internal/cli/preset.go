package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/darkroom/pkg/border"
	"github.com/matzehuels/darkroom/pkg/config"
	"github.com/matzehuels/darkroom/pkg/preset"
)

// presetCommand creates the preset command group: share codes and the
// preset store.
func (c *CLI) presetCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "preset",
		Aliases: []string{"presets"},
		Short:   "Encode, decode and store calculator presets",
	}

	cmd.AddCommand(c.presetEncodeCommand())
	cmd.AddCommand(c.presetDecodeCommand())
	cmd.AddCommand(c.presetSaveCommand())
	cmd.AddCommand(c.presetListCommand())
	cmd.AddCommand(c.presetGetCommand())
	cmd.AddCommand(c.presetDeleteCommand())

	return cmd
}

func (c *CLI) presetEncodeCommand() *cobra.Command {
	var (
		in   inputFlags
		name string
	)
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the share code for a set of calculator flags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := in.preset(c.Config.Defaults)
			if err != nil {
				return err
			}
			p.Name = name
			if err := p.Validate(); err != nil {
				return err
			}
			code, err := preset.Encode(p)
			if err != nil {
				return err
			}
			fmt.Fprintln(stdout, code)
			return nil
		},
	}
	in.bind(cmd)
	cmd.Flags().StringVarP(&name, "name", "n", "Preset", "preset name")
	return cmd
}

func (c *CLI) presetDecodeCommand() *cobra.Command {
	var lenient bool
	cmd := &cobra.Command{
		Use:   "decode CODE",
		Short: "Show the settings stored in a share code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p preset.Preset
			if lenient {
				p = preset.DecodeOrDefault(args[0], c.Logger)
			} else {
				decoded, err := preset.Decode(args[0])
				if err != nil {
					return err
				}
				p = *decoded
			}
			printPreset(p)
			return nil
		},
	}
	cmd.Flags().BoolVar(&lenient, "lenient", false, "fall back to the default preset when the code is invalid")
	return cmd
}

func (c *CLI) presetSaveCommand() *cobra.Command {
	var (
		in   inputFlags
		name string
	)
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Store a preset built from flags or a share code",
		Example: `  darkroom preset save -n "Portra 11x14" -p 11x14 -r 6:4.5 -b 0.75
  darkroom preset save -n Shared --code VGVzdC0wLTMtNTAtMC0xMDAwMC0xMg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireFeature(config.FeaturePresetSharing); err != nil {
				return err
			}
			p, err := in.preset(c.Config.Defaults)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") || in.code == "" {
				p.Name = name
			}
			rec, err := preset.NewRecord(p)
			if err != nil {
				return err
			}

			store, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Save(cmd.Context(), rec); err != nil {
				return err
			}
			printSuccess("Saved preset %s", StyleHighlight.Render(rec.Preset.Name))
			printKeyValue("ID", rec.ID)
			printKeyValue("Code", rec.Code)
			return nil
		},
	}
	in.bind(cmd)
	cmd.Flags().StringVarP(&name, "name", "n", "Preset", "preset name")
	return cmd
}

func (c *CLI) presetListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored presets",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireFeature(config.FeaturePresetSharing); err != nil {
				return err
			}
			store, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			recs, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				printInfo("No presets stored")
				printNextStep("Save one", "darkroom preset save -n NAME")
				return nil
			}

			rows := make([][]string, 0, len(recs))
			for _, r := range recs {
				rows = append(rows, []string{
					r.ID,
					r.Preset.Name,
					r.Preset.PaperSize,
					r.Preset.AspectRatio,
					fmt.Sprintf("%.2f", r.Preset.MinBorder),
					r.CreatedAt.Local().Format("2006-01-02 15:04"),
				})
			}
			printTable([]string{"ID", "Name", "Paper", "Ratio", "Border", "Created"}, rows)
			return nil
		},
	}
}

func (c *CLI) presetGetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get ID",
		Short: "Show a stored preset and its calculation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireFeature(config.FeaturePresetSharing); err != nil {
				return err
			}
			store, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			rec, err := store.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printPreset(rec.Preset)
			printKeyValue("Code", rec.Code)
			printNewline()

			runner, err := c.newRunner(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer runner.Close()
			printCalculation(runner.Calculate(cmd.Context(), rec.Preset.Input()))
			return nil
		},
	}
}

func (c *CLI) presetDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "delete ID",
		Aliases: []string{"rm"},
		Short:   "Delete a stored preset",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.requireFeature(config.FeaturePresetSharing); err != nil {
				return err
			}
			store, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted preset %s", args[0])
			return nil
		},
	}
}

// printPreset prints every field of a preset.
func printPreset(p preset.Preset) {
	fmt.Fprintln(stdout, StyleTitle.Render(p.Name))
	paper := p.PaperSize
	if p.PaperSize == border.Custom {
		paper = fmt.Sprintf("custom %g x %g in", p.CustomPaperWidth, p.CustomPaperHeight)
	}
	ratio := p.AspectRatio
	if p.AspectRatio == border.Custom {
		ratio = fmt.Sprintf("custom %g:%g", p.CustomAspectWidth, p.CustomAspectHeight)
	}
	printKeyValue("Paper", paper)
	printKeyValue("Ratio", ratio)
	printKeyValue("Min border", fmt.Sprintf("%.2f in", p.MinBorder))
	if p.EnableOffset {
		printKeyValue("Offset", fmt.Sprintf("h %+.2f  v %+.2f", p.HorizontalOffset, p.VerticalOffset))
	}
	var flags []string
	if p.IsLandscape {
		flags = append(flags, "landscape")
	}
	if p.IsRatioFlipped {
		flags = append(flags, "flipped")
	}
	if p.IgnoreMinBorder {
		flags = append(flags, "ignore border")
	}
	if p.ShowBlades {
		flags = append(flags, "blades")
	}
	if p.ShowBladeReadings {
		flags = append(flags, "readings")
	}
	printKeyValue("Options", joinComma(flags))
}

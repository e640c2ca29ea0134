package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/darkroom/pkg/border"
	"github.com/matzehuels/darkroom/pkg/exposure"
)

// tablesCommand creates the tables command: list the paper sizes, aspect
// ratios, easels and films the calculators know.
func (c *CLI) tablesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "tables [papers|ratios|easels|films]",
		Aliases:   []string{"papers"},
		Short:     "List known paper sizes, aspect ratios, easels and films",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"papers", "ratios", "easels", "films"},
		RunE: func(cmd *cobra.Command, args []string) error {
			which := "all"
			if len(args) == 1 {
				which = args[0]
			} else if cmd.CalledAs() == "papers" {
				which = "papers"
			}
			show := func(name string) bool { return which == "all" || which == name }

			if show("papers") {
				printPapers()
			}
			if show("ratios") {
				printRatios()
			}
			if show("easels") {
				printEasels()
			}
			if show("films") && c.Config.Features.Exposure {
				printFilms()
			}
			return nil
		},
	}
	return cmd
}

func printPapers() {
	rows := make([][]string, 0, len(border.PaperSizes))
	for i, p := range border.PaperSizes {
		size := "-"
		if p.Key != border.Custom {
			size = fmt.Sprintf("%g x %g in", p.Size.Width, p.Size.Height)
		}
		rows = append(rows, []string{fmt.Sprint(i), p.Key, p.Label, size})
	}
	fmt.Fprintln(stdout, StyleTitle.Render("Paper sizes"))
	printTable([]string{"#", "Key", "Label", "Size"}, rows)
}

func printRatios() {
	rows := make([][]string, 0, len(border.AspectRatios))
	for i, r := range border.AspectRatios {
		ratio := "-"
		if r.Key != border.Custom {
			ratio = fmt.Sprintf("%.3f", r.Ratio.Ratio())
		}
		rows = append(rows, []string{fmt.Sprint(i), r.Key, r.Label, ratio})
	}
	fmt.Fprintln(stdout, StyleTitle.Render("Aspect ratios"))
	printTable([]string{"#", "Key", "Label", "W/H"}, rows)
}

func printEasels() {
	rows := make([][]string, 0, len(border.EaselSizes))
	for _, e := range border.EaselSizes {
		rows = append(rows, []string{e.Label, fmt.Sprintf("%g x %g in", e.Width, e.Height), fmt.Sprintf("%g", e.Area())})
	}
	fmt.Fprintln(stdout, StyleTitle.Render("Easel slots"))
	printTable([]string{"Easel", "Slot", "Area"}, rows)
}

func printFilms() {
	rows := make([][]string, 0, len(exposure.Films))
	for _, f := range exposure.Films {
		rows = append(rows, []string{f.Key, f.Name, fmt.Sprintf("%.2f", f.Factor)})
	}
	fmt.Fprintln(stdout, StyleTitle.Render("Reciprocity factors"))
	printTable([]string{"Key", "Film", "Factor"}, rows)
}

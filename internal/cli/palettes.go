package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/skoehler/geomap/pkg/palette"
)

// newPalettesCmd creates the palettes command. By default it prints every
// built-in palette with a swatch row; --browse opens an interactive
// browser where the class count can be adjusted live.
func newPalettesCmd() *cobra.Command {
	var (
		browse  bool
		classes int
	)

	cmd := &cobra.Command{
		Use:   "palettes",
		Short: "List or browse the built-in color palettes",
		RunE: func(cmd *cobra.Command, args []string) error {
			if browse {
				return runPaletteBrowser(classes)
			}
			return listPalettes(classes)
		},
	}

	cmd.Flags().BoolVar(&browse, "browse", false, "open the interactive palette browser")
	cmd.Flags().IntVarP(&classes, "classes", "n", 7, "number of classes to sample per palette")

	return cmd
}

// listPalettes prints one swatch row per palette.
func listPalettes(classes int) error {
	fmt.Println(StyleTitle.Render("Palettes") + StyleDim.Render(fmt.Sprintf("  (%d classes)", classes)))
	for _, name := range palette.Names() {
		colors, err := palette.Colors(name, classes)
		if err != nil {
			return err
		}
		fmt.Printf("  %-10s %s\n", name, swatch(colors))
	}
	return nil
}

// runPaletteBrowser starts the bubbletea browser and prints the selected
// palette's colors on exit.
func runPaletteBrowser(classes int) error {
	m := newPaletteModel(classes)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return err
	}
	pm, ok := final.(paletteModel)
	if !ok || pm.chosen == "" {
		return nil
	}
	colors, err := palette.Colors(pm.chosen, pm.classes)
	if err != nil {
		return err
	}
	printSuccess("%s with %d classes", pm.chosen, pm.classes)
	for _, c := range colors {
		printDetail("%s", c)
	}
	return nil
}

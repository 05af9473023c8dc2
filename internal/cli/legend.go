package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skoehler/geomap/pkg/errors"
	"github.com/skoehler/geomap/pkg/legend"
	"github.com/skoehler/geomap/pkg/palette"
	"github.com/skoehler/geomap/pkg/pipeline"
	"github.com/skoehler/geomap/pkg/render/sink"
)

// legendOpts holds the command-line flags for the legend command.
type legendOpts struct {
	breaksStr string // comma-separated class boundaries, inf/-inf allowed
	colorsStr string // comma-separated hex colors
	palName   string // palette name instead of explicit colors
	reverse   bool   // reverse the palette order
	direction string // "vertical" or "horizontal"
	spacing   string // "constant" or "natural"
	title     string // legend title text
	expand    float64
	barWidth  float64
	format    string // "svg", "json", or "png"
	output    string // output path, "-" for stdout
}

// newLegendCmd creates the legend command for building a standalone legend
// scene without any grid data. It is primarily a debugging and design tool:
// pick breaks and colors, tweak layout flags, and inspect the result.
func newLegendCmd() *cobra.Command {
	opts := legendOpts{
		direction: legend.Vertical.String(),
		spacing:   legend.Constant.String(),
		expand:    0.3,
		barWidth:  0.1,
		format:    pipeline.FormatSVG,
	}

	cmd := &cobra.Command{
		Use:   "legend",
		Short: "Build and export a standalone color-bar legend",
		Example: `  geomap legend --breaks -inf,0,10,20,inf --palette rdylbu --title "Temperature (°C)"
  geomap legend --breaks 0,25,50,75,100 --colors "#deebf7,#9ecae1,#4292c6,#084594" -f png -o bar.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLegend(&opts)
		},
	}

	cmd.Flags().StringVar(&opts.breaksStr, "breaks", "", "class boundaries, ascending, comma-separated (inf/-inf for open ends)")
	cmd.Flags().StringVar(&opts.colorsStr, "colors", "", "hex fill colors, one per class, comma-separated")
	cmd.Flags().StringVar(&opts.palName, "palette", "", "palette name instead of --colors (see 'geomap palettes')")
	cmd.Flags().BoolVar(&opts.reverse, "reverse", false, "reverse the palette order")
	cmd.Flags().StringVar(&opts.direction, "direction", opts.direction, "bar orientation: vertical, horizontal")
	cmd.Flags().StringVar(&opts.spacing, "spacing", opts.spacing, "bin sizing: constant, natural")
	cmd.Flags().StringVar(&opts.title, "title", "", "legend title")
	cmd.Flags().Float64Var(&opts.expand, "expand", opts.expand, "padding fraction beyond the bar for tick labels")
	cmd.Flags().Float64Var(&opts.barWidth, "bar-width", opts.barWidth, "bar thickness as a fraction of the plot area")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: svg (default), json, png")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output path (default legend.<format>, '-' for stdout)")
	_ = cmd.MarkFlagRequired("breaks")

	return cmd
}

// parseBreaks parses a comma-separated boundary list. strconv accepts
// "inf", "+inf" and "-inf" for the open-ended boundaries.
func parseBreaks(s string) (legend.Breaks, error) {
	parts := strings.Split(s, ",")
	breaks := make(legend.Breaks, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, errors.New(errors.ErrCodeInvalidBreaks, "invalid break %q", p)
		}
		breaks = append(breaks, v)
	}
	return breaks, nil
}

// parseColorList splits a comma-separated color list, trimming whitespace.
func parseColorList(s string) []string {
	parts := strings.Split(s, ",")
	colors := make([]string, 0, len(parts))
	for _, p := range parts {
		if c := strings.TrimSpace(p); c != "" {
			colors = append(colors, c)
		}
	}
	return colors
}

// legendColors resolves the fill colors from --colors or --palette.
// With a palette, one color per class is sampled.
func legendColors(opts *legendOpts, nClasses int) ([]string, error) {
	switch {
	case opts.colorsStr != "" && opts.palName != "":
		return nil, errors.New(errors.ErrCodeInvalidColors, "--colors and --palette are mutually exclusive")
	case opts.colorsStr != "":
		return parseColorList(opts.colorsStr), nil
	case opts.palName != "":
		colors, err := palette.Colors(opts.palName, nClasses)
		if err != nil {
			return nil, err
		}
		if opts.reverse {
			colors = palette.Reverse(colors)
		}
		return colors, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidColors, "either --colors or --palette is required")
	}
}

// legendArtifact parses the options, builds the scene and serializes it in
// the requested format. Shared by the legend command and the preview
// server's /v1/legend endpoint.
func legendArtifact(opts *legendOpts) ([]byte, error) {
	breaks, err := parseBreaks(opts.breaksStr)
	if err != nil {
		return nil, err
	}
	if err := breaks.Validate(); err != nil {
		return nil, err
	}

	// Open-ended boundaries are drawn as triangles sharing the extreme bin
	// colors, so the palette is sampled per finite bin only.
	colors, err := legendColors(opts, breaks.Bins())
	if err != nil {
		return nil, err
	}

	dir, err := legend.ParseDirection(opts.direction)
	if err != nil {
		return nil, err
	}
	sp, err := legend.ParseSpacing(opts.spacing)
	if err != nil {
		return nil, err
	}

	cfg := legend.DefaultConfig()
	cfg.Title = opts.title
	cfg.Direction = dir
	cfg.Spacing = sp
	cfg.ExpandSize = opts.expand
	cfg.BarWidth = opts.barWidth

	scene, err := legend.Build(breaks, colors, cfg)
	if err != nil {
		return nil, err
	}

	switch opts.format {
	case pipeline.FormatSVG:
		return sink.RenderSVG(scene), nil
	case pipeline.FormatJSON:
		return sink.RenderJSON(scene)
	case pipeline.FormatPNG:
		return sink.RenderPNG(scene)
	}
	return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported legend format %q", opts.format)
}

// runLegend builds the scene and writes it in the requested format.
func runLegend(opts *legendOpts) error {
	data, err := legendArtifact(opts)
	if err != nil {
		return err
	}

	if opts.output == "-" {
		_, err = os.Stdout.Write(data)
		return err
	}
	path := opts.output
	if path == "" {
		path = "legend." + opts.format
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	printSuccess("Generated %s", path)
	return nil
}

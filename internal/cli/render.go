package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/skoehler/geomap/pkg/config"
	"github.com/skoehler/geomap/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string   // output file path (single format) or base path (multiple)
	formats  []string // output formats: "png", "svg", "json"
	refresh  bool     // bypass all caches and recompute
	noCache  bool     // disable caching entirely
	redisURL string   // optional Redis URL for the stage cache
}

// newRenderCmd creates the render command for producing plot artifacts.
// It reads a TOML plot spec, runs the full pipeline (load, classify,
// build legend, render), and writes one file per requested format.
//
// Default settings:
//   - format: png (composed map plus legend)
//   - output: derived from the spec file name
func newRenderCmd() *cobra.Command {
	var formatsStr string
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [spec.toml]",
		Short: "Render a plot spec to map and legend artifacts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			for _, f := range opts.formats {
				if err := pipeline.ValidateFormat(f); err != nil {
					return err
				}
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): png (default), svg, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass caches and recompute every stage")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching entirely")
	cmd.Flags().StringVar(&opts.redisURL, "redis", "", "Redis URL for the stage cache (e.g. redis://localhost:6379/0)")

	return cmd
}

// parseFormats parses the --format flag into a slice of output formats.
// If empty, defaults to ["png"].
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatPNG}
	}
	return strings.Split(s, ",")
}

// basePath derives the base output path from the output and spec file paths.
// If output is empty, it strips the extension from the spec path.
// If output has a format extension (.png, .svg, .json), it strips that
// extension. This is used when writing multiple artifact files.
func basePath(output, specPath string) string {
	if output == "" {
		return strings.TrimSuffix(specPath, filepath.Ext(specPath))
	}
	ext := filepath.Ext(output)
	for _, f := range pipeline.SupportedFormats {
		if ext == "."+f {
			return strings.TrimSuffix(output, ext)
		}
	}
	return output
}

// artifactPath builds the output path for one format. With a single
// requested format and an explicit --output, that path is used verbatim.
func artifactPath(opts *renderOpts, specPath, format string) string {
	if opts.output != "" && len(opts.formats) == 1 {
		return opts.output
	}
	return basePath(opts.output, specPath) + "." + format
}

// runRender loads the plot spec, executes the pipeline, and writes all
// requested artifacts next to the spec (or to --output).
func runRender(ctx context.Context, specPath string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", specPath)

	spec, err := config.Load(specPath)
	if err != nil {
		return err
	}

	runner, err := newRunner(ctx, logger, opts.noCache, opts.redisURL)
	if err != nil {
		return err
	}
	defer runner.Close()

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		Spec:    spec,
		Formats: opts.formats,
		Refresh: opts.refresh,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Rendered %d artifact(s)", len(result.Artifacts)))

	cached := result.CacheInfo.GridHit && result.CacheInfo.SceneHit && result.CacheInfo.RenderHit
	printStats(result.Stats.Rows, result.Stats.Cols, result.Stats.Missing, cached)

	for _, format := range opts.formats {
		path := artifactPath(opts, specPath, format)
		if err := os.WriteFile(path, result.Artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		printFile(path)
	}
	return nil
}

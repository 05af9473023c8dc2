// Package pipeline wires the plotting stages together: load a grid,
// classify it, build the legend scene, and render artifacts. The Runner
// adds per-stage caching on top so both the CLI and the preview server
// share one execution path.
package pipeline

import (
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/skoehler/geomap/pkg/cache"
	"github.com/skoehler/geomap/pkg/config"
	"github.com/skoehler/geomap/pkg/errors"
)

// Output formats.
const (
	// FormatPNG is the composed map plus legend raster.
	FormatPNG = "png"
	// FormatSVG is the legend scene as a standalone vector document.
	FormatSVG = "svg"
	// FormatJSON is the legend scene as structured data.
	FormatJSON = "json"
)

// SupportedFormats lists the valid entries for Options.Formats.
var SupportedFormats = []string{FormatPNG, FormatSVG, FormatJSON}

// Options control one pipeline execution.
type Options struct {
	// Spec is the plot description. Required.
	Spec *config.PlotSpec `json:"spec"`

	// Formats selects the artifacts to produce. Defaults to ["png"].
	Formats []string `json:"formats,omitempty"`

	// Refresh bypasses all caches and recomputes every stage.
	Refresh bool `json:"refresh,omitempty"`

	// Logger used during execution. Defaults to the runner's logger.
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if o.Spec == nil {
		return errors.New(errors.ErrCodeInvalidConfig, "plot spec is required")
	}
	o.Spec.ApplyDefaults()
	if err := o.Spec.Validate(); err != nil {
		return err
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatPNG}
	}
	for _, f := range o.Formats {
		if !slices.Contains(SupportedFormats, f) {
			return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (supported: %s)", f, strings.Join(SupportedFormats, ", "))
		}
	}
	o.validated = true
	return nil
}

// SourceFormat resolves the data format, auto-detecting from the file
// extension when the spec leaves it empty.
func (o *Options) SourceFormat() string {
	if o.Spec.Data.Format != "" {
		return o.Spec.Data.Format
	}
	if filepath.Ext(o.Spec.Data.Path) == ".csv" {
		return "csv"
	}
	return "netcdf"
}

// RegionLabel names the region for cache keys and logs.
func (o *Options) RegionLabel() string {
	if o.Spec.Region.Bounds != nil {
		return o.Spec.Region.Bounds.String()
	}
	return o.Spec.Region.Name
}

// GridKeyOpts builds the cache key options for the load stage.
func (o *Options) GridKeyOpts() cache.GridKeyOpts {
	return cache.GridKeyOpts{
		Variable: o.Spec.Data.Variable,
		Region:   o.RegionLabel(),
	}
}

// SceneKeyOpts builds the cache key options for the scene stage.
func (o *Options) SceneKeyOpts() cache.SceneKeyOpts {
	return cache.SceneKeyOpts{
		Direction: o.Spec.Legend.Direction,
		Spacing:   o.Spec.Legend.Spacing,
		Title:     o.Spec.Legend.Title,
		Expand:    o.Spec.Legend.ExpandSize,
		BarWidth:  o.Spec.Legend.BarWidth,
	}
}

// ArtifactKeyOpts builds the cache key options for one rendered format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Width:  o.Spec.Map.Width,
	}
}

// ValidateFormat checks a single format string.
func ValidateFormat(f string) error {
	if !slices.Contains(SupportedFormats, f) {
		return errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q (supported: %s)", f, strings.Join(SupportedFormats, ", "))
	}
	return nil
}

// String summarizes the options for logging.
func (o *Options) String() string {
	return fmt.Sprintf("source=%s var=%s region=%s formats=%v", o.Spec.Data.Path, o.Spec.Data.Variable, o.RegionLabel(), o.Formats)
}

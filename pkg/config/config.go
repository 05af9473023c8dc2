// Package config loads and validates TOML plot specifications.
//
// A plot spec describes one map render end to end: the data source, the
// geographic region, the class breaks and colors, the legend settings and
// the map appearance. The CLI's render command consumes these files, and
// the preview server accepts them as request bodies.
package config

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/skoehler/geomap/pkg/errors"
	"github.com/skoehler/geomap/pkg/geo"
	"github.com/skoehler/geomap/pkg/legend"
	"github.com/skoehler/geomap/pkg/palette"
)

// PlotSpec is a complete description of one map plot.
type PlotSpec struct {
	Data   Data   `toml:"data"`
	Region Region `toml:"region"`
	Class  Class  `toml:"classes"`
	Legend Legend `toml:"legend"`
	Map    Map    `toml:"map"`
}

// Data locates the gridded input.
type Data struct {
	Path     string `toml:"path"`
	Variable string `toml:"variable"`
	LatName  string `toml:"lat_name"`
	LonName  string `toml:"lon_name"`
	Format   string `toml:"format"` // "netcdf", "csv" or "" for auto-detect
}

// Region selects the drawn extent, either by name or by explicit bounds.
// Explicit bounds win when both are set.
type Region struct {
	Name   string   `toml:"name"`
	Bounds *geo.BBox `toml:"bounds"`
}

// Class defines the discrete classification. Colors can be given directly
// or derived from a named palette; explicit colors win.
type Class struct {
	Breaks  []float64 `toml:"breaks"`
	Colors  []string  `toml:"colors"`
	Palette string    `toml:"palette"`
	Reverse bool      `toml:"reverse"`
}

// Legend mirrors legend.Config in TOML form.
type Legend struct {
	Title       string  `toml:"title"`
	Direction   string  `toml:"direction"`
	Spacing     string  `toml:"spacing"`
	ExpandSize  float64 `toml:"expand_size"`
	BarWidth    float64 `toml:"bar_width"`
	FontSize    float64 `toml:"font_size"`
	BorderColor string  `toml:"border_color"`
	Background  string  `toml:"background"`
}

// Map controls the raster map appearance.
type Map struct {
	Width        int     `toml:"width"`
	OceanColor   string  `toml:"ocean_color"`
	MissingColor string  `toml:"missing_color"`
	Coastline    bool    `toml:"coastline"`
	Countries    bool    `toml:"countries"`
	LineWidth    float64 `toml:"line_width"`
	Scale        string  `toml:"scale"` // Natural Earth scale: 110m, 50m or 10m
}

// Load reads and validates a plot spec file, applying defaults for
// omitted fields.
func Load(path string) (*PlotSpec, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.New(errors.ErrCodeFileNotFound, "plot spec not found: %s", path)
	}

	var spec PlotSpec
	if _, err := toml.DecodeFile(path, &spec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}

	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Decode parses a plot spec from TOML text, applying defaults and
// validating. Used by the preview server for request bodies.
func Decode(data []byte) (*PlotSpec, error) {
	var spec PlotSpec
	if err := toml.Unmarshal(data, &spec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse plot spec")
	}
	spec.ApplyDefaults()
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return &spec, nil
}

// ApplyDefaults fills omitted fields with their standard values.
func (s *PlotSpec) ApplyDefaults() {
	if s.Data.LatName == "" {
		s.Data.LatName = "lat"
	}
	if s.Data.LonName == "" {
		s.Data.LonName = "lon"
	}
	if s.Region.Name == "" && s.Region.Bounds == nil {
		s.Region.Name = "global"
	}

	def := legend.DefaultConfig()
	if s.Legend.Direction == "" {
		s.Legend.Direction = legend.Vertical.String()
	}
	if s.Legend.Spacing == "" {
		s.Legend.Spacing = legend.Constant.String()
	}
	if s.Legend.ExpandSize == 0 {
		s.Legend.ExpandSize = def.ExpandSize
	}
	if s.Legend.BarWidth == 0 {
		s.Legend.BarWidth = def.BarWidth
	}
	if s.Legend.FontSize == 0 {
		s.Legend.FontSize = def.FontSize
	}

	if s.Map.Width == 0 {
		s.Map.Width = 1000
	}
	if s.Map.LineWidth == 0 {
		s.Map.LineWidth = 1
	}
	if s.Map.Scale == "" {
		s.Map.Scale = "110m"
	}
}

// Validate checks the spec for configuration errors. All returned errors
// carry INVALID_* codes except the missing-file case handled in Load.
func (s *PlotSpec) Validate() error {
	if s.Data.Path == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "data.path is required")
	}
	switch s.Data.Format {
	case "", "netcdf", "csv":
	default:
		return errors.New(errors.ErrCodeInvalidFormat, "data.format must be netcdf or csv, got %q", s.Data.Format)
	}

	if s.Region.Bounds != nil {
		if err := s.Region.Bounds.Validate(); err != nil {
			return err
		}
	} else if _, err := geo.Region(s.Region.Name); err != nil {
		return err
	}

	if err := legend.Breaks(s.Class.Breaks).Validate(); err != nil {
		return err
	}
	if len(s.Class.Colors) == 0 && s.Class.Palette == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "classes needs either colors or a palette name")
	}

	if _, err := s.LegendConfig(); err != nil {
		return err
	}

	for _, hex := range []string{s.Map.OceanColor, s.Map.MissingColor} {
		if err := errors.ValidateHexColor(hex); err != nil {
			return err
		}
	}
	if s.Map.Width < 16 {
		return errors.New(errors.ErrCodeInvalidConfig, "map.width must be at least 16, got %d", s.Map.Width)
	}
	switch s.Map.Scale {
	case "110m", "50m", "10m":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "map.scale must be 110m, 50m or 10m, got %q", s.Map.Scale)
	}
	return nil
}

// BBox resolves the region to concrete bounds.
func (s *PlotSpec) BBox() (geo.BBox, error) {
	if s.Region.Bounds != nil {
		return *s.Region.Bounds, s.Region.Bounds.Validate()
	}
	return geo.Region(s.Region.Name)
}

// Colors resolves the class colors, either the explicit list or the named
// palette sized to the number of finite bins.
func (s *PlotSpec) Colors() ([]string, error) {
	working, _, _ := legend.Breaks(s.Class.Breaks).Strip()
	nBins := len(working) - 1

	if len(s.Class.Colors) > 0 {
		colors := s.Class.Colors
		if s.Class.Reverse {
			colors = palette.Reverse(colors)
		}
		return colors, nil
	}

	colors, err := palette.Colors(s.Class.Palette, nBins)
	if err != nil {
		return nil, err
	}
	if s.Class.Reverse {
		colors = palette.Reverse(colors)
	}
	return colors, nil
}

// LegendConfig converts the TOML legend section into a legend.Config.
func (s *PlotSpec) LegendConfig() (legend.Config, error) {
	dir, err := legend.ParseDirection(s.Legend.Direction)
	if err != nil {
		return legend.Config{}, err
	}
	sp, err := legend.ParseSpacing(s.Legend.Spacing)
	if err != nil {
		return legend.Config{}, err
	}
	cfg := legend.Config{
		Title:       s.Legend.Title,
		Direction:   dir,
		Spacing:     sp,
		ExpandSize:  s.Legend.ExpandSize,
		BarWidth:    s.Legend.BarWidth,
		FontSize:    s.Legend.FontSize,
		BorderColor: s.Legend.BorderColor,
		Background:  s.Legend.Background,
	}
	return cfg, cfg.Validate()
}

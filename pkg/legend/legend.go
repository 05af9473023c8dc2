package legend

import (
	"strconv"
	"strings"

	"github.com/skoehler/geomap/pkg/errors"
)

// Direction is the orientation of the color bar.
type Direction int

const (
	// Vertical lays bins bottom-to-top with ticks beside the bar.
	Vertical Direction = iota
	// Horizontal lays bins left-to-right with ticks below the bar.
	Horizontal
)

// String returns the lowercase name of the direction.
func (d Direction) String() string {
	switch d {
	case Vertical:
		return "vertical"
	case Horizontal:
		return "horizontal"
	}
	return "unknown"
}

// ParseDirection parses "vertical" or "horizontal" (case-insensitive).
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(s) {
	case "vertical":
		return Vertical, nil
	case "horizontal":
		return Horizontal, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidDirection, "invalid direction: %q (must be 'vertical' or 'horizontal')", s)
}

// Spacing controls how bin widths map to visual extents.
type Spacing int

const (
	// Constant draws every bin with the same visual size regardless of its
	// numeric width.
	Constant Spacing = iota
	// Natural draws bins proportional to their boundary-to-boundary
	// distance. Incompatible with infinite boundaries.
	Natural
)

// String returns the lowercase name of the spacing mode.
func (s Spacing) String() string {
	switch s {
	case Constant:
		return "constant"
	case Natural:
		return "natural"
	}
	return "unknown"
}

// ParseSpacing parses "constant" or "natural" (case-insensitive).
func ParseSpacing(s string) (Spacing, error) {
	switch strings.ToLower(s) {
	case "constant":
		return Constant, nil
	case "natural":
		return Natural, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidSpacing, "invalid spacing: %q (must be 'constant' or 'natural')", s)
}

// Config holds the legend options. The zero value is not usable; start from
// DefaultConfig and override fields.
type Config struct {
	Title     string    // legend title text; empty = no title
	Direction Direction // bar orientation
	Spacing   Spacing   // bin sizing mode

	// ExpandSize is fractional padding added beyond the bar's bounding box
	// on the axis orthogonal to the bar's length, making room for ticks.
	ExpandSize float64

	// BarWidth is the bar thickness as a fraction of the (normalized) plot
	// area. Must be in (0, 1).
	BarWidth float64

	FontSize float64 // tick/title text size in points

	BorderColor string // outline for bar shapes; empty = none
	Background  string // scene backdrop; empty = transparent
}

// DefaultConfig returns the standard legend configuration: a vertical bar
// with constant spacing, 10% thickness and room for tick labels.
func DefaultConfig() Config {
	return Config{
		Direction:  Vertical,
		Spacing:    Constant,
		ExpandSize: 0.3,
		BarWidth:   0.1,
		FontSize:   12,
	}
}

// Validate checks the configuration invariants.
func (c Config) Validate() error {
	if c.Direction != Vertical && c.Direction != Horizontal {
		return errors.New(errors.ErrCodeInvalidDirection, "invalid direction value: %d", int(c.Direction))
	}
	if c.Spacing != Constant && c.Spacing != Natural {
		return errors.New(errors.ErrCodeInvalidSpacing, "invalid spacing value: %d", int(c.Spacing))
	}
	if c.BarWidth <= 0 || c.BarWidth >= 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "bar_width must be in (0, 1), got %v", c.BarWidth)
	}
	if c.ExpandSize < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "expand_size cannot be negative, got %v", c.ExpandSize)
	}
	if c.FontSize <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "font_size must be positive, got %v", c.FontSize)
	}
	if err := errors.ValidateHexColor(c.BorderColor); err != nil {
		return err
	}
	return errors.ValidateHexColor(c.Background)
}

// titleMargin is the extra long-axis room reserved for the title primitive.
const titleMargin = 0.06

// Build constructs the legend scene for the given breaks, colors and
// configuration. It is a pure function: no I/O, no shared state, and safe
// for concurrent use. Every precondition violation returns a configuration
// error (INVALID_* code) and no scene.
func Build(breaks Breaks, colors []string, cfg Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := breaks.Validate(); err != nil {
		return nil, err
	}

	working, bottomOpen, topOpen := breaks.Strip()
	if len(working) < 2 {
		return nil, errors.New(errors.ErrCodeInvalidBreaks, "need at least one finite bin, got boundaries %v", []float64(breaks))
	}
	nBins := len(working) - 1

	if len(colors) != nBins {
		return nil, errors.New(errors.ErrCodeInvalidColors, "got %d colors for %d bins", len(colors), nBins)
	}
	for i, c := range colors {
		if c == "" {
			return nil, errors.New(errors.ErrCodeInvalidColors, "color %d is empty", i)
		}
		if err := errors.ValidateHexColor(c); err != nil {
			return nil, err
		}
	}

	if cfg.Spacing == Natural && (bottomOpen || topOpen) {
		return nil, errors.New(errors.ErrCodeInvalidSpacing, "natural spacing is undefined for unbounded bins; use constant spacing with infinite boundaries")
	}

	rectShares, triShare := binShares(working, cfg.Spacing, bottomOpen, topOpen)

	scene := &Scene{
		Direction:   cfg.Direction,
		BorderColor: cfg.BorderColor,
		Background:  cfg.Background,
	}

	// Vertical reference layout: the long axis is y, bins stack upward
	// starting at 0. The horizontal orientation is derived at the end by
	// swapping axes.
	pos := 0.0

	if bottomOpen {
		scene.Triangles = append(scene.Triangles, Triangle{
			X1: 0, Y1: triShare,
			X2: cfg.BarWidth, Y2: triShare,
			X3: cfg.BarWidth / 2, Y3: 0,
			Fill: colors[0],
		})
		pos = triShare
	}

	for i := 0; i < nBins; i++ {
		scene.Rects = append(scene.Rects, Rect{
			X: 0, Y: pos,
			W: cfg.BarWidth, H: rectShares[i],
			Fill: colors[i],
		})
		// A tick sits on every boundary shared by two drawn bins: below
		// this rect when a triangle or another rect precedes it.
		if i > 0 || bottomOpen {
			scene.Ticks = append(scene.Ticks, TickLabel{
				Text: formatTick(working[i]),
				X:    cfg.BarWidth + tickOffset(cfg),
				Y:    pos,
				Size: cfg.FontSize,
			})
		}
		pos += rectShares[i]
	}

	if topOpen {
		scene.Ticks = append(scene.Ticks, TickLabel{
			Text: formatTick(working[nBins]),
			X:    cfg.BarWidth + tickOffset(cfg),
			Y:    pos,
			Size: cfg.FontSize,
		})
		scene.Triangles = append(scene.Triangles, Triangle{
			X1: 0, Y1: pos,
			X2: cfg.BarWidth, Y2: pos,
			X3: cfg.BarWidth / 2, Y3: pos + triShare,
			Fill: colors[nBins-1],
		})
	}

	scene.W = cfg.BarWidth + cfg.ExpandSize
	scene.H = 1
	if cfg.Title != "" {
		scene.Title = &TickLabel{
			Text: cfg.Title,
			X:    0,
			Y:    1 + titleMargin/2,
			Size: cfg.FontSize,
		}
		scene.H += titleMargin
	}

	if cfg.Direction == Horizontal {
		scene.swapAxes()
	}
	return scene, nil
}

// binShares computes the long-axis extent of each rectangle bin and of any
// triangle bin. Shares sum to 1 across all drawn bins.
//
// Constant spacing gives every drawn bin (rectangle or triangle) an equal
// share. Natural spacing sizes rectangles proportional to their numeric
// width; a triangle, having no numeric width, is assigned one mean bin
// share. Build rejects natural spacing with open ends before reaching the
// triangle case, so that branch only serves the helper's own contract.
func binShares(working []float64, spacing Spacing, bottomOpen, topOpen bool) (rects []float64, tri float64) {
	nBins := len(working) - 1
	nTris := 0
	if bottomOpen {
		nTris++
	}
	if topOpen {
		nTris++
	}

	rects = make([]float64, nBins)

	if spacing == Constant {
		share := 1.0 / float64(nBins+nTris)
		for i := range rects {
			rects[i] = share
		}
		return rects, share
	}

	total := working[nBins] - working[0]
	mean := total / float64(nBins)
	// Triangles occupy one mean bin share each; the finite bins divide the
	// remainder proportionally.
	scale := 1.0 - float64(nTris)*mean/(total+float64(nTris)*mean)
	tri = mean / (total + float64(nTris)*mean)
	for i := 0; i < nBins; i++ {
		rects[i] = (working[i+1] - working[i]) / total * scale
	}
	return rects, tri
}

// tickOffset is the gap between the bar's edge and tick label anchors,
// kept inside the ExpandSize margin.
func tickOffset(cfg Config) float64 {
	return cfg.ExpandSize * 0.15
}

// formatTick renders a boundary value with fixed precision, trimming
// trailing noise ("20", "0.5", "1.25e+06").
func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

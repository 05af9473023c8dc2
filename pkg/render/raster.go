package render

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/paulmach/orb"

	"github.com/skoehler/geomap/pkg/errors"
	"github.com/skoehler/geomap/pkg/geo"
	"github.com/skoehler/geomap/pkg/grid"
)

// MapOption configures map rasterization.
type MapOption func(*mapRenderer)

type overlay struct {
	geoms     []orb.Geometry
	color     color.Color
	lineWidth float64
	fill      bool
}

type mapRenderer struct {
	width    int
	ocean    string
	missing  string
	overlays []overlay
	errs     []error
}

// WithWidth sets the output width in pixels (default 1000). Height follows
// from the bounding box aspect ratio.
func WithWidth(px int) MapOption {
	return func(r *mapRenderer) { r.width = px }
}

// WithOceanColor sets the backdrop color painted before the grid cells.
func WithOceanColor(hex string) MapOption {
	return func(r *mapRenderer) { r.ocean = hex }
}

// WithMissingColor sets the fill for cells classified as missing.
func WithMissingColor(hex string) MapOption {
	return func(r *mapRenderer) { r.missing = hex }
}

// WithStroke adds an overlay of stroked geometries (coastlines, borders)
// drawn on top of the grid.
func WithStroke(geoms []orb.Geometry, hex string, lineWidth float64) MapOption {
	return func(r *mapRenderer) {
		c, err := parseColor(hex)
		if err != nil {
			r.errs = append(r.errs, err)
			return
		}
		r.overlays = append(r.overlays, overlay{geoms: geoms, color: c, lineWidth: lineWidth})
	}
}

// WithFill adds an overlay of filled geometries (land or lake polygons)
// drawn on top of the grid, below any strokes added after it.
func WithFill(geoms []orb.Geometry, hex string) MapOption {
	return func(r *mapRenderer) {
		c, err := parseColor(hex)
		if err != nil {
			r.errs = append(r.errs, err)
			return
		}
		r.overlays = append(r.overlays, overlay{geoms: geoms, color: c, fill: true})
	}
}

// RenderMap rasterizes a classified grid into a map image. Each grid cell
// becomes a rectangle filled with the color of its class; cells classified
// as missing get the missing color. Overlays are drawn in the order their
// options were given.
//
// colors must have exactly one entry per class. box selects the drawn
// extent and must already match the grid (use Grid.Clip first).
func RenderMap(c *grid.Classified, colors []string, box geo.BBox, opts ...MapOption) (image.Image, error) {
	r := mapRenderer{width: 1000, ocean: "#E8F0F8", missing: "#D9D9D9"}
	for _, opt := range opts {
		opt(&r)
	}
	if len(r.errs) > 0 {
		return nil, r.errs[0]
	}
	if err := box.Validate(); err != nil {
		return nil, err
	}
	if len(colors) != c.NClasses {
		return nil, errors.New(errors.ErrCodeInvalidColors, "got %d colors for %d classes", len(colors), c.NClasses)
	}

	fills := make([]color.Color, len(colors))
	for i, hex := range colors {
		parsed, err := parseColor(hex)
		if err != nil {
			return nil, err
		}
		fills[i] = parsed
	}
	oceanColor, err := parseColor(r.ocean)
	if err != nil {
		return nil, err
	}
	missingColor, err := parseColor(r.missing)
	if err != nil {
		return nil, err
	}

	p := NewProjection(box, r.width)
	dc := gg.NewContext(p.W, p.H)
	dc.SetColor(oceanColor)
	dc.Clear()

	g := c.Grid
	lonEdges := cellEdges(g.Lons, box.West, box.East)
	latEdges := cellEdges(g.Lats, box.South, box.North)

	for i := 0; i < g.Rows(); i++ {
		for j := 0; j < g.Cols(); j++ {
			cls := c.Classes[i*g.Cols()+j]
			if cls == grid.Missing {
				dc.SetColor(missingColor)
			} else {
				dc.SetColor(fills[cls])
			}
			x0, y1 := p.ToPixel(lonEdges[j], latEdges[i])
			x1, y0 := p.ToPixel(lonEdges[j+1], latEdges[i+1])
			dc.DrawRectangle(x0, y0, x1-x0, y1-y0)
			dc.Fill()
		}
	}

	for _, ov := range r.overlays {
		drawOverlay(dc, p, ov)
	}

	return dc.Image(), nil
}

// cellEdges computes the boundaries between cells centered on coords. The
// outermost edges extend half a cell beyond the extreme centers, clamped
// to the drawn extent.
func cellEdges(coords []float64, lo, hi float64) []float64 {
	n := len(coords)
	edges := make([]float64, n+1)
	if n == 1 {
		edges[0], edges[1] = lo, hi
		return edges
	}
	edges[0] = max(lo, coords[0]-(coords[1]-coords[0])/2)
	for i := 1; i < n; i++ {
		edges[i] = (coords[i-1] + coords[i]) / 2
	}
	edges[n] = min(hi, coords[n-1]+(coords[n-1]-coords[n-2])/2)
	return edges
}

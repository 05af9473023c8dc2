package render

import (
	"math"

	"github.com/skoehler/geomap/pkg/geo"
)

// Projection maps geographic coordinates onto image pixels using an
// equirectangular (plate carrée) projection: longitude and latitude scale
// linearly into x and y, with y growing downward as image space expects.
type Projection struct {
	Box  geo.BBox
	W, H int
}

// NewProjection builds a projection for the box at the given pixel width.
// The height follows from the box aspect ratio, with a minimum of 1 pixel.
func NewProjection(box geo.BBox, widthPx int) Projection {
	h := int(math.Round(float64(widthPx) * box.Height() / box.Width()))
	if h < 1 {
		h = 1
	}
	return Projection{Box: box, W: widthPx, H: h}
}

// ToPixel converts a lon/lat pair to pixel coordinates.
func (p Projection) ToPixel(lon, lat float64) (x, y float64) {
	x = (lon - p.Box.West) / p.Box.Width() * float64(p.W)
	y = (p.Box.North - lat) / p.Box.Height() * float64(p.H)
	return x, y
}

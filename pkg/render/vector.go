package render

import (
	"github.com/fogleman/gg"
	"github.com/paulmach/orb"
)

// drawOverlay paints one overlay's geometries onto the context.
func drawOverlay(dc *gg.Context, p Projection, ov overlay) {
	dc.SetColor(ov.color)
	if ov.fill {
		dc.SetFillRuleEvenOdd()
		for _, g := range ov.geoms {
			fillGeometry(dc, p, g)
		}
		return
	}
	dc.SetLineWidth(ov.lineWidth)
	for _, g := range ov.geoms {
		strokeGeometry(dc, p, g, ov.lineWidth)
	}
}

// strokeGeometry draws geometry outlines. Points are drawn as small dots.
func strokeGeometry(dc *gg.Context, p Projection, g orb.Geometry, lineWidth float64) {
	switch geom := g.(type) {
	case orb.Point:
		x, y := p.ToPixel(geom[0], geom[1])
		dc.DrawCircle(x, y, lineWidth)
		dc.Fill()
	case orb.MultiPoint:
		for _, pt := range geom {
			strokeGeometry(dc, p, pt, lineWidth)
		}
	case orb.LineString:
		tracePath(dc, p, geom)
		dc.Stroke()
	case orb.MultiLineString:
		for _, ls := range geom {
			strokeGeometry(dc, p, ls, lineWidth)
		}
	case orb.Ring:
		tracePath(dc, p, orb.LineString(geom))
		dc.ClosePath()
		dc.Stroke()
	case orb.Polygon:
		for _, ring := range geom {
			strokeGeometry(dc, p, ring, lineWidth)
		}
	case orb.MultiPolygon:
		for _, poly := range geom {
			strokeGeometry(dc, p, poly, lineWidth)
		}
	case orb.Collection:
		for _, sub := range geom {
			strokeGeometry(dc, p, sub, lineWidth)
		}
	}
}

// fillGeometry fills polygonal geometries. Holes are honored through the
// even-odd fill rule: all rings of a polygon become subpaths of one fill.
func fillGeometry(dc *gg.Context, p Projection, g orb.Geometry) {
	switch geom := g.(type) {
	case orb.Ring:
		tracePath(dc, p, orb.LineString(geom))
		dc.ClosePath()
		dc.Fill()
	case orb.Polygon:
		for _, ring := range geom {
			tracePath(dc, p, orb.LineString(ring))
			dc.ClosePath()
		}
		dc.Fill()
	case orb.MultiPolygon:
		for _, poly := range geom {
			fillGeometry(dc, p, poly)
		}
	case orb.Collection:
		for _, sub := range geom {
			fillGeometry(dc, p, sub)
		}
	}
}

// tracePath appends a line string to the current path without drawing it.
func tracePath(dc *gg.Context, p Projection, ls orb.LineString) {
	for i, pt := range ls {
		x, y := p.ToPixel(pt[0], pt[1])
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
}

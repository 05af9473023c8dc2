// Package sink serializes legend scenes into output formats: standalone
// SVG documents, JSON scene dumps, and PNG rasters.
package sink

import (
	"bytes"
	"fmt"

	"github.com/skoehler/geomap/pkg/legend"
)

// SVGOption configures SVG rendering.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	scale      float64
	fontFamily string
}

// WithSVGScale sets how many SVG user units one scene unit maps to
// (default 400).
func WithSVGScale(s float64) SVGOption {
	return func(r *svgRenderer) { r.scale = s }
}

// WithSVGFontFamily sets the font-family attribute on text elements
// (default "sans-serif").
func WithSVGFontFamily(family string) SVGOption {
	return func(r *svgRenderer) { r.fontFamily = family }
}

// RenderSVG serializes a legend scene as a standalone SVG document.
// Scene coordinates are y-up; the emitted document flips them into SVG's
// y-down space so the output renders upright in any viewer.
func RenderSVG(s *legend.Scene, opts ...SVGOption) []byte {
	r := svgRenderer{scale: 400, fontFamily: "sans-serif"}
	for _, opt := range opts {
		opt(&r)
	}

	w := s.W * r.scale
	h := s.H * r.scale
	px := func(x, y float64) (float64, float64) {
		return x * r.scale, (s.H - y) * r.scale
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n", w, h, w, h)

	if s.Background != "" {
		fmt.Fprintf(&buf, `  <rect x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n", w, h, s.Background)
	}

	stroke := `stroke="none"`
	if s.BorderColor != "" {
		stroke = fmt.Sprintf(`stroke="%s" stroke-width="1"`, s.BorderColor)
	}

	for _, rect := range s.Rects {
		x, y := px(rect.X, rect.Y+rect.H)
		fmt.Fprintf(&buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" %s/>`+"\n",
			x, y, rect.W*r.scale, rect.H*r.scale, rect.Fill, stroke)
	}

	for _, tri := range s.Triangles {
		x1, y1 := px(tri.X1, tri.Y1)
		x2, y2 := px(tri.X2, tri.Y2)
		x3, y3 := px(tri.X3, tri.Y3)
		fmt.Fprintf(&buf, `  <polygon points="%.2f,%.2f %.2f,%.2f %.2f,%.2f" fill="%s" %s/>`+"\n",
			x1, y1, x2, y2, x3, y3, tri.Fill, stroke)
	}

	anchor := "start"
	if s.Direction == legend.Horizontal {
		anchor = "middle"
	}
	for _, tick := range s.Ticks {
		x, y := px(tick.X, tick.Y)
		fmt.Fprintf(&buf, `  <text x="%.2f" y="%.2f" font-size="%.1f" font-family="%s" text-anchor="%s" dominant-baseline="middle">%s</text>`+"\n",
			x, y, tick.Size, r.fontFamily, anchor, tick.Text)
	}

	if s.Title != nil {
		x, y := px(s.Title.X, s.Title.Y)
		transform := ""
		if s.Title.Rotation != 0 {
			transform = fmt.Sprintf(` transform="rotate(%.1f %.2f %.2f)"`, -s.Title.Rotation, x, y)
		}
		fmt.Fprintf(&buf, `  <text x="%.2f" y="%.2f" font-size="%.1f" font-family="%s" text-anchor="middle" dominant-baseline="middle"%s>%s</text>`+"\n",
			x, y, s.Title.Size, r.fontFamily, transform, s.Title.Text)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

package render

import (
	"image"

	"github.com/fogleman/gg"

	"github.com/skoehler/geomap/pkg/legend"
)

// SceneOption configures legend rasterization.
type SceneOption func(*sceneRenderer)

type sceneRenderer struct {
	scale float64
}

// WithSceneScale sets how many pixels one scene unit maps to (default 400).
// The bar's long axis spans one unit, so the default yields a roughly
// 400px-long legend.
func WithSceneScale(pxPerUnit float64) SceneOption {
	return func(r *sceneRenderer) { r.scale = pxPerUnit }
}

// RasterizeScene draws a legend scene into an image. Scene coordinates are
// y-up with the origin at the bottom-left; this flips them into image
// space and scales by the configured pixels-per-unit factor.
func RasterizeScene(s *legend.Scene, opts ...SceneOption) (image.Image, error) {
	r := sceneRenderer{scale: 400}
	for _, opt := range opts {
		opt(&r)
	}

	w := int(s.W*r.scale + 0.5)
	h := int(s.H*r.scale + 0.5)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	dc := gg.NewContext(w, h)

	// y-flip from scene space into image space.
	px := func(x, y float64) (float64, float64) {
		return x * r.scale, (s.H - y) * r.scale
	}

	if s.Background != "" {
		bg, err := parseColor(s.Background)
		if err != nil {
			return nil, err
		}
		dc.SetColor(bg)
		dc.Clear()
	}

	for _, rect := range s.Rects {
		fill, err := parseColor(rect.Fill)
		if err != nil {
			return nil, err
		}
		x, y := px(rect.X, rect.Y+rect.H)
		dc.SetColor(fill)
		dc.DrawRectangle(x, y, rect.W*r.scale, rect.H*r.scale)
		if err := fillAndOutline(dc, s.BorderColor); err != nil {
			return nil, err
		}
	}

	for _, tri := range s.Triangles {
		fill, err := parseColor(tri.Fill)
		if err != nil {
			return nil, err
		}
		x1, y1 := px(tri.X1, tri.Y1)
		x2, y2 := px(tri.X2, tri.Y2)
		x3, y3 := px(tri.X3, tri.Y3)
		dc.SetColor(fill)
		dc.MoveTo(x1, y1)
		dc.LineTo(x2, y2)
		dc.LineTo(x3, y3)
		dc.ClosePath()
		if err := fillAndOutline(dc, s.BorderColor); err != nil {
			return nil, err
		}
	}

	dc.SetRGB(0, 0, 0)
	for _, tick := range s.Ticks {
		setFontFace(dc, tick.Size)
		x, y := px(tick.X, tick.Y)
		ax, ay := tickAnchor(s.Direction)
		dc.DrawStringAnchored(tick.Text, x, y, ax, ay)
	}

	if s.Title != nil {
		setFontFace(dc, s.Title.Size)
		x, y := px(s.Title.X, s.Title.Y)
		if s.Title.Rotation != 0 {
			dc.Push()
			dc.RotateAbout(-gg.Radians(s.Title.Rotation), x, y)
			dc.DrawStringAnchored(s.Title.Text, x, y, 0.5, 0.5)
			dc.Pop()
		} else {
			dc.DrawStringAnchored(s.Title.Text, x, y, 0.5, 0.5)
		}
	}

	return dc.Image(), nil
}

// fillAndOutline fills the current path and optionally strokes it with the
// border color, preserving the path between the two operations.
func fillAndOutline(dc *gg.Context, borderHex string) error {
	if borderHex == "" {
		dc.Fill()
		return nil
	}
	border, err := parseColor(borderHex)
	if err != nil {
		return err
	}
	dc.FillPreserve()
	dc.SetColor(border)
	dc.SetLineWidth(1)
	dc.Stroke()
	return nil
}

// tickAnchor picks the text anchor so labels sit beside a vertical bar and
// below a horizontal one.
func tickAnchor(d legend.Direction) (ax, ay float64) {
	if d == legend.Horizontal {
		return 0.5, 0.5
	}
	return 0, 0.5
}

package sink

import (
	"bytes"
	"image/png"

	"github.com/skoehler/geomap/pkg/legend"
	"github.com/skoehler/geomap/pkg/render"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	scale float64
}

// WithPNGScale sets the pixels-per-scene-unit factor (default 400).
func WithPNGScale(s float64) PNGOption {
	return func(r *pngRenderer) { r.scale = s }
}

// RenderPNG rasterizes the legend scene and encodes it as PNG.
func RenderPNG(s *legend.Scene, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{scale: 400}
	for _, opt := range opts {
		opt(&r)
	}

	img, err := render.RasterizeScene(s, render.WithSceneScale(r.scale))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

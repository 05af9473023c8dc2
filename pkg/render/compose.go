package render

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/skoehler/geomap/pkg/legend"
)

// composeGap is the pixel gap between the map and the legend.
const composeGap = 16

// Compose places a rendered map and a rasterized legend on one canvas.
// A vertical legend goes to the right of the map, scaled to the map
// height; a horizontal legend goes below, scaled to the map width.
// The canvas is filled with background before pasting.
func Compose(mapImg, legendImg image.Image, dir legend.Direction, background color.Color) image.Image {
	mb := mapImg.Bounds()

	if dir == legend.Horizontal {
		scaled := imaging.Resize(legendImg, mb.Dx(), 0, imaging.Lanczos)
		canvas := imaging.New(mb.Dx(), mb.Dy()+composeGap+scaled.Bounds().Dy(), background)
		canvas = imaging.Paste(canvas, mapImg, image.Pt(0, 0))
		return imaging.Paste(canvas, scaled, image.Pt(0, mb.Dy()+composeGap))
	}

	scaled := imaging.Resize(legendImg, 0, mb.Dy(), imaging.Lanczos)
	canvas := imaging.New(mb.Dx()+composeGap+scaled.Bounds().Dx(), mb.Dy(), background)
	canvas = imaging.Paste(canvas, mapImg, image.Pt(0, 0))
	return imaging.Paste(canvas, scaled, image.Pt(mb.Dx()+composeGap, 0))
}

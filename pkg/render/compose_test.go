package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/skoehler/geomap/pkg/legend"
)

func TestComposeVertical(t *testing.T) {
	mapImg := image.NewRGBA(image.Rect(0, 0, 100, 50))
	legendImg := image.NewRGBA(image.Rect(0, 0, 20, 80))

	out := Compose(mapImg, legendImg, legend.Vertical, color.White)
	b := out.Bounds()

	assert.Equal(t, 50, b.Dy(), "vertical legend keeps the map height")
	assert.Greater(t, b.Dx(), 100+composeGap, "legend sits right of the map")
}

func TestComposeHorizontal(t *testing.T) {
	mapImg := image.NewRGBA(image.Rect(0, 0, 100, 50))
	legendImg := image.NewRGBA(image.Rect(0, 0, 80, 20))

	out := Compose(mapImg, legendImg, legend.Horizontal, color.White)
	b := out.Bounds()

	assert.Equal(t, 100, b.Dx(), "horizontal legend keeps the map width")
	assert.Greater(t, b.Dy(), 50+composeGap, "legend sits below the map")
}

func TestComposeBackgroundFill(t *testing.T) {
	mapImg := image.NewRGBA(image.Rect(0, 0, 10, 10))
	legendImg := image.NewRGBA(image.Rect(0, 0, 5, 10))

	out := Compose(mapImg, legendImg, legend.Vertical, color.White)

	// The gap between map and legend shows the background.
	r, g, b, _ := out.At(12, 5).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), b)
}

package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skoehler/geomap/pkg/legend"
)

func buildScene(t *testing.T, cfg legend.Config) *legend.Scene {
	t.Helper()
	s, err := legend.Build(legend.Breaks{0, 10, 20}, []string{"#deebf7", "#4292c6"}, cfg)
	require.NoError(t, err)
	return s
}

func TestRasterizeScene(t *testing.T) {
	s := buildScene(t, legend.DefaultConfig())

	img, err := RasterizeScene(s, WithSceneScale(100))
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, int(s.W*100+0.5), b.Dx())
	assert.Equal(t, int(s.H*100+0.5), b.Dy())
}

func TestRasterizeSceneBackground(t *testing.T) {
	cfg := legend.DefaultConfig()
	cfg.Background = "#ffffff"
	s := buildScene(t, cfg)

	img, err := RasterizeScene(s, WithSceneScale(50))
	require.NoError(t, err)

	// The expansion margin shows the background.
	b := img.Bounds()
	r, g, bl, _ := img.At(b.Max.X-1, b.Max.Y-1).RGBA()
	assert.Equal(t, uint32(0xffff), r)
	assert.Equal(t, uint32(0xffff), g)
	assert.Equal(t, uint32(0xffff), bl)
}

func TestRasterizeSceneWithTitleAndTriangles(t *testing.T) {
	cfg := legend.DefaultConfig()
	cfg.Title = "Temperature"
	s, err := legend.Build(legend.Breaks{math.Inf(-1), 0, 10, 20, math.Inf(1)}, []string{"#deebf7", "#4292c6"}, cfg)
	require.NoError(t, err)
	require.Len(t, s.Triangles, 2)

	img, err := RasterizeScene(s)
	require.NoError(t, err)
	assert.NotNil(t, img)
}

func TestRasterizeSceneBadFill(t *testing.T) {
	s := buildScene(t, legend.DefaultConfig())
	s.Rects[0].Fill = "bogus"

	_, err := RasterizeScene(s)
	assert.Error(t, err)
}

func TestTickAnchor(t *testing.T) {
	ax, ay := tickAnchor(legend.Vertical)
	assert.Equal(t, 0.0, ax, "vertical ticks are left-aligned beside the bar")
	assert.Equal(t, 0.5, ay)

	ax, ay = tickAnchor(legend.Horizontal)
	assert.Equal(t, 0.5, ax, "horizontal ticks are centered below the bar")
	assert.Equal(t, 0.5, ay)
}

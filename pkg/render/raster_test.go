package render

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skoehler/geomap/pkg/errors"
	"github.com/skoehler/geomap/pkg/geo"
	"github.com/skoehler/geomap/pkg/grid"
	"github.com/skoehler/geomap/pkg/legend"
)

// classify2x2 builds a 2x2 classified grid: values 1 and 3 land in the
// first class, 10 in the second, NaN is missing.
func classify2x2(t *testing.T) *grid.Classified {
	t.Helper()
	g := &grid.Grid{
		Lats:   []float64{0, 10},
		Lons:   []float64{0, 10},
		Values: []float64{1, 10, math.NaN(), 3},
	}
	c, err := g.Classify(legend.Breaks{0, 5, 20})
	require.NoError(t, err)
	return c
}

var testBox = geo.BBox{West: -5, East: 15, South: -5, North: 15}

func assertHex(t *testing.T, got [3]uint8, hex string) {
	t.Helper()
	want, err := parseColor(hex)
	require.NoError(t, err)
	r, g, b, _ := want.RGBA()
	assert.Equal(t, [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(b >> 8)}, got)
}

func TestRenderMap(t *testing.T) {
	c := classify2x2(t)
	img, err := RenderMap(c, []string{"#ff0000", "#0000ff"}, testBox,
		WithWidth(20), WithMissingColor("#00ff00"))
	require.NoError(t, err)

	b := img.Bounds()
	assert.Equal(t, 20, b.Dx())
	assert.Equal(t, 20, b.Dy(), "square box yields a square image")

	sample := func(x, y int) [3]uint8 {
		r, g, bl, _ := img.At(x, y).RGBA()
		return [3]uint8{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8)}
	}

	// Row 0 (lat 0) is the bottom half of the image, row 1 the top.
	assertHex(t, sample(5, 15), "#ff0000")  // value 1, first class
	assertHex(t, sample(15, 15), "#0000ff") // value 10, second class
	assertHex(t, sample(5, 5), "#00ff00")   // NaN, missing color
	assertHex(t, sample(15, 5), "#ff0000")  // value 3, first class
}

func TestRenderMapColorCountMismatch(t *testing.T) {
	c := classify2x2(t)
	_, err := RenderMap(c, []string{"#ff0000"}, testBox)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidColors))
}

func TestRenderMapBadOverlayColor(t *testing.T) {
	c := classify2x2(t)
	_, err := RenderMap(c, []string{"#ff0000", "#0000ff"}, testBox,
		WithStroke(nil, "nope", 1))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidColors))
}

func TestCellEdges(t *testing.T) {
	t.Run("interior midpoints", func(t *testing.T) {
		edges := cellEdges([]float64{0, 10, 20}, -10, 30)
		assert.Equal(t, []float64{-5, 5, 15, 25}, edges)
	})

	t.Run("clamped to extent", func(t *testing.T) {
		edges := cellEdges([]float64{0, 10, 20}, -2, 22)
		assert.Equal(t, []float64{-2, 5, 15, 22}, edges)
	})

	t.Run("single cell spans extent", func(t *testing.T) {
		edges := cellEdges([]float64{5}, 0, 10)
		assert.Equal(t, []float64{0, 10}, edges)
	})
}

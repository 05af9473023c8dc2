package sink

import (
	"bytes"
	"encoding/json"
	"image/png"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skoehler/geomap/pkg/legend"
)

// testScene builds a two-bin scene with an open top end: 2 rects, 1
// triangle, 2 ticks (at 10 and 20) and a title.
func testScene(t *testing.T) *legend.Scene {
	t.Helper()
	cfg := legend.DefaultConfig()
	cfg.Title = "Rainfall (mm)"
	cfg.Background = "#ffffff"
	s, err := legend.Build(legend.Breaks{0, 10, 20, math.Inf(1)}, []string{"#deebf7", "#4292c6"}, cfg)
	require.NoError(t, err)
	return s
}

func TestRenderSVG(t *testing.T) {
	s := testScene(t)
	svg := string(RenderSVG(s))

	assert.True(t, strings.HasPrefix(svg, "<svg"), "starts with an svg element")
	assert.Contains(t, svg, `xmlns="http://www.w3.org/2000/svg"`)

	// Background rect plus one rect per bin.
	assert.Equal(t, 1+len(s.Rects), strings.Count(svg, "<rect"))
	assert.Equal(t, len(s.Triangles), strings.Count(svg, "<polygon"))
	// One text element per tick plus the title.
	assert.Equal(t, len(s.Ticks)+1, strings.Count(svg, "<text"))

	assert.Contains(t, svg, ">10<")
	assert.Contains(t, svg, ">20<")
	assert.Contains(t, svg, "Rainfall (mm)")
	assert.Contains(t, svg, `fill="#deebf7"`)
	assert.Contains(t, svg, `fill="#4292c6"`)
}

func TestRenderSVGAnchors(t *testing.T) {
	s := testScene(t)
	svg := string(RenderSVG(s))
	assert.Contains(t, svg, `text-anchor="start"`, "vertical ticks are start-anchored")

	cfg := legend.DefaultConfig()
	cfg.Direction = legend.Horizontal
	h, err := legend.Build(legend.Breaks{0, 10, 20}, []string{"#deebf7", "#4292c6"}, cfg)
	require.NoError(t, err)
	hsvg := string(RenderSVG(h))
	assert.Contains(t, hsvg, `text-anchor="middle"`, "horizontal ticks are centered")
}

func TestRenderSVGTitleRotation(t *testing.T) {
	s := testScene(t)
	s.Title.Rotation = 90
	svg := string(RenderSVG(s))
	assert.Contains(t, svg, `transform="rotate(-90.0`)
}

func TestRenderSVGScale(t *testing.T) {
	s := testScene(t)
	svg := string(RenderSVG(s, WithSVGScale(100)))
	assert.Contains(t, svg, `height="106"`, "scene height scales by the factor")
}

func TestRenderSVGFontFamily(t *testing.T) {
	s := testScene(t)
	svg := string(RenderSVG(s, WithSVGFontFamily("Helvetica")))
	assert.Contains(t, svg, `font-family="Helvetica"`)
	assert.NotContains(t, svg, "sans-serif")
}

func TestRenderJSON(t *testing.T) {
	s := testScene(t)
	data, err := RenderJSON(s)
	require.NoError(t, err)

	var out struct {
		Width     float64          `json:"width"`
		Height    float64          `json:"height"`
		Direction string           `json:"direction"`
		Bg        string           `json:"background"`
		Rects     []map[string]any `json:"rects"`
		Triangles []map[string]any `json:"triangles"`
		Ticks     []map[string]any `json:"ticks"`
		Title     *map[string]any  `json:"title"`
	}
	require.NoError(t, json.Unmarshal(data, &out))

	assert.Equal(t, s.W, out.Width)
	assert.Equal(t, s.H, out.Height)
	assert.Equal(t, "vertical", out.Direction)
	assert.Equal(t, "#ffffff", out.Bg)
	assert.Len(t, out.Rects, len(s.Rects))
	assert.Len(t, out.Triangles, len(s.Triangles))
	assert.Len(t, out.Ticks, len(s.Ticks))
	require.NotNil(t, out.Title)
	assert.Equal(t, "Rainfall (mm)", (*out.Title)["text"])
}

func TestRenderJSONOmitsEmpty(t *testing.T) {
	s, err := legend.Build(legend.Breaks{0, 10}, []string{"#deebf7"}, legend.DefaultConfig())
	require.NoError(t, err)

	data, err := RenderJSON(s)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"triangles"`)
	assert.NotContains(t, string(data), `"title"`)
}

func TestRenderPNG(t *testing.T) {
	s := testScene(t)
	data, err := RenderPNG(s, WithPNGScale(100))
	require.NoError(t, err)

	require.True(t, bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G'}), "PNG magic number")

	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, int(s.W*100+0.5), img.Bounds().Dx())
	assert.Equal(t, int(s.H*100+0.5), img.Bounds().Dy())
}

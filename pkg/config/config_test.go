package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skoehler/geomap/pkg/errors"
	"github.com/skoehler/geomap/pkg/legend"
)

const specTOML = `
[data]
path = "testdata/temperature.nc"
variable = "tas"

[region]
name = "europe"

[classes]
breaks = [-inf, 0.0, 10.0, 20.0, inf]
palette = "rdylbu"
reverse = true

[legend]
title = "Temperature (°C)"
direction = "horizontal"

[map]
width = 800
coastline = true
`

func writeSpec(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "plot.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad(t *testing.T) {
	spec, err := Load(writeSpec(t, specTOML))
	require.NoError(t, err)

	assert.Equal(t, "testdata/temperature.nc", spec.Data.Path)
	assert.Equal(t, "tas", spec.Data.Variable)
	assert.Equal(t, "lat", spec.Data.LatName, "default latitude name")

	// TOML inf literals survive decoding.
	require.Len(t, spec.Class.Breaks, 5)
	assert.True(t, math.IsInf(spec.Class.Breaks[0], -1))
	assert.True(t, math.IsInf(spec.Class.Breaks[4], 1))

	box, err := spec.BBox()
	require.NoError(t, err)
	assert.Equal(t, -12.0, box.West)

	cfg, err := spec.LegendConfig()
	require.NoError(t, err)
	assert.Equal(t, legend.Horizontal, cfg.Direction)
	assert.Equal(t, "Temperature (°C)", cfg.Title)
	assert.Equal(t, 12.0, cfg.FontSize, "default font size")

	colors, err := spec.Colors()
	require.NoError(t, err)
	assert.Len(t, colors, 2, "one color per finite bin")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does/not/exist.toml")
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound), "got %v", err)
}

func TestDecodeValidation(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errors.Code
	}{
		{
			"missing data path",
			"[classes]\nbreaks = [0.0, 1.0]\npalette = \"rdbu\"\n",
			errors.ErrCodeInvalidConfig,
		},
		{
			"bad format",
			"[data]\npath = \"x.nc\"\nformat = \"parquet\"\n[classes]\nbreaks = [0.0, 1.0]\npalette = \"rdbu\"\n",
			errors.ErrCodeInvalidFormat,
		},
		{
			"unknown region",
			"[data]\npath = \"x.nc\"\n[region]\nname = \"narnia\"\n[classes]\nbreaks = [0.0, 1.0]\npalette = \"rdbu\"\n",
			errors.ErrCodeInvalidRegion,
		},
		{
			"non-increasing breaks",
			"[data]\npath = \"x.nc\"\n[classes]\nbreaks = [1.0, 1.0]\npalette = \"rdbu\"\n",
			errors.ErrCodeInvalidBreaks,
		},
		{
			"no colors or palette",
			"[data]\npath = \"x.nc\"\n[classes]\nbreaks = [0.0, 1.0]\n",
			errors.ErrCodeInvalidConfig,
		},
		{
			"bad direction",
			"[data]\npath = \"x.nc\"\n[classes]\nbreaks = [0.0, 1.0]\npalette = \"rdbu\"\n[legend]\ndirection = \"diagonal\"\n",
			errors.ErrCodeInvalidDirection,
		},
		{
			"malformed toml",
			"[data\npath=",
			errors.ErrCodeInvalidConfig,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.body))
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))
		})
	}
}

func TestExplicitBoundsWin(t *testing.T) {
	spec, err := Decode([]byte(`
[data]
path = "x.nc"

[region]
name = "europe"
bounds = { west = 0.0, east = 20.0, south = 40.0, north = 60.0 }

[classes]
breaks = [0.0, 1.0]
palette = "rdbu"
`))
	require.NoError(t, err)

	box, err := spec.BBox()
	require.NoError(t, err)
	assert.Equal(t, 0.0, box.West)
	assert.Equal(t, 20.0, box.East)
}

func TestExplicitColorsWin(t *testing.T) {
	spec, err := Decode([]byte(`
[data]
path = "x.nc"

[classes]
breaks = [0.0, 1.0, 2.0]
colors = ["#111111", "#222222"]
palette = "rdbu"
`))
	require.NoError(t, err)

	colors, err := spec.Colors()
	require.NoError(t, err)
	assert.Equal(t, []string{"#111111", "#222222"}, colors)
}

func TestReverseColors(t *testing.T) {
	spec, err := Decode([]byte(`
[data]
path = "x.nc"

[classes]
breaks = [0.0, 1.0, 2.0]
colors = ["#111111", "#222222"]
reverse = true
`))
	require.NoError(t, err)

	colors, err := spec.Colors()
	require.NoError(t, err)
	assert.Equal(t, []string{"#222222", "#111111"}, colors)
}

func TestDefaults(t *testing.T) {
	spec, err := Decode([]byte(`
[data]
path = "x.nc"

[classes]
breaks = [0.0, 1.0]
palette = "spectral"
`))
	require.NoError(t, err)

	assert.Equal(t, "global", spec.Region.Name)
	assert.Equal(t, "vertical", spec.Legend.Direction)
	assert.Equal(t, "constant", spec.Legend.Spacing)
	assert.Equal(t, 1000, spec.Map.Width)
	assert.Equal(t, "110m", spec.Map.Scale)
}

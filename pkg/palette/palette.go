// Package palette provides named discrete color palettes for map classes.
//
// Palettes are stored as gradient tables of keypoint colors and sampled to
// any class count. Sampling interpolates in CIE-Lab space, which keeps
// perceived lightness steps even across the ramp.
package palette

import (
	"sort"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/skoehler/geomap/pkg/errors"
)

// keypoint anchors a color at a position in [0,1] along the ramp.
type keypoint struct {
	col colorful.Color
	pos float64
}

// gradientTable is an ordered list of keypoints covering [0,1].
type gradientTable []keypoint

// at returns the interpolated color at t in [0,1].
func (gt gradientTable) at(t float64) colorful.Color {
	for i := 0; i < len(gt)-1; i++ {
		c1, c2 := gt[i], gt[i+1]
		if c1.pos <= t && t <= c2.pos {
			frac := (t - c1.pos) / (c2.pos - c1.pos)
			if frac == 0 {
				return c1.col
			}
			if frac == 1 {
				return c2.col
			}
			return c1.col.BlendLab(c2.col, frac).Clamped()
		}
	}
	return gt[len(gt)-1].col
}

// ramp builds a gradient table from evenly spaced hex keypoints.
func ramp(hexes ...string) gradientTable {
	gt := make(gradientTable, len(hexes))
	for i, h := range hexes {
		gt[i] = keypoint{
			col: mustHex(h),
			pos: float64(i) / float64(len(hexes)-1),
		}
	}
	return gt
}

// mustHex parses a keypoint literal. The tables below are fixed at compile
// time, so a parse failure is a programming error.
func mustHex(h string) colorful.Color {
	c, err := colorful.Hex(h)
	if err != nil {
		panic(err)
	}
	return c
}

// palettes holds the built-in ramps. Sequential and diverging sets follow
// the ColorBrewer 9-class definitions.
var palettes = map[string]gradientTable{
	"bugn":    ramp("#F7FCFD", "#E5F5F9", "#CCECE6", "#99D8C9", "#66C2A4", "#41AE76", "#238B45", "#006D2C", "#00441B"),
	"pubu":    ramp("#FFF7FB", "#ECE7F2", "#D0D1E6", "#A6BDDB", "#74A9CF", "#3690C0", "#0570B0", "#045A8D", "#023858"),
	"ylgnbu":  ramp("#FFFFD9", "#EDF8B1", "#C7E9B4", "#7FCDBB", "#41B6C4", "#1D91C0", "#225EA8", "#253494", "#081D58"),
	"ylorrd":  ramp("#FFFFCC", "#FFEDA0", "#FED976", "#FEB24C", "#FD8D3C", "#FC4E2A", "#E31A1C", "#BD0026", "#800026"),
	"rdbu":    ramp("#B2182B", "#D6604D", "#F4A582", "#FDDBC7", "#F7F7F7", "#D1E5F0", "#92C5DE", "#4393C3", "#2166AC"),
	"rdylbu":  ramp("#D73027", "#F46D43", "#FDAE61", "#FEE090", "#FFFFBF", "#E0F3F8", "#ABD9E9", "#74ADD1", "#4575B4"),
	"rdylgn":  ramp("#D73027", "#F46D43", "#FDAE61", "#FEE08B", "#FFFFBF", "#D9EF8B", "#A6D96A", "#66BD63", "#1A9850"),
	"brbg":    ramp("#8C510A", "#BF812D", "#DFC27D", "#F6E8C3", "#F5F5F5", "#C7EAE5", "#80CDC1", "#35978F", "#01665E"),
	"spectral": ramp("#D53E4F", "#F46D43", "#FDAE61", "#FEE08B", "#FFFFBF", "#E6F598", "#ABDDA4", "#66C2A5", "#3288BD"),
}

// Names returns the available palette names, sorted.
func Names() []string {
	names := make([]string, 0, len(palettes))
	for name := range palettes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Colors samples n evenly spaced colors from the named palette and returns
// them as uppercase hex strings. Both ramp endpoints are included for n >= 2;
// n == 1 yields the ramp midpoint.
func Colors(name string, n int) ([]string, error) {
	gt, ok := palettes[strings.ToLower(name)]
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidPalette, "unknown palette %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	if n < 1 {
		return nil, errors.New(errors.ErrCodeInvalidPalette, "class count must be at least 1, got %d", n)
	}

	out := make([]string, n)
	if n == 1 {
		out[0] = strings.ToUpper(gt.at(0.5).Hex())
		return out, nil
	}
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n-1)
		out[i] = strings.ToUpper(gt.at(t).Hex())
	}
	return out, nil
}

// Reverse returns a reversed copy of a color list. Used to flip a ramp for
// variables where high values should read as cold/wet rather than hot/dry.
func Reverse(colors []string) []string {
	out := make([]string, len(colors))
	for i, c := range colors {
		out[len(colors)-1-i] = c
	}
	return out
}

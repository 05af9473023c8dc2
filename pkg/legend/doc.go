// Package legend builds discrete color-bar legends for choropleth maps.
//
// The central entry point is [Build], a pure function from a set of bin
// boundaries, one color per bin, and a [Config] to a [Scene]: an ordered
// collection of colored rectangles, up to two pointed triangles for
// open-ended extreme bins, tick labels at bin junctions, and an optional
// title. The scene uses normalized coordinates (the bar's long axis spans
// [0,1]) so any 2D drawing backend can consume it; see pkg/render and
// pkg/render/sink for the raster and SVG consumers.
//
// Build holds no state and performs no I/O. All validation failures are
// reported as configuration errors (pkg/errors INVALID_* codes) before any
// primitive is emitted; a scene is either complete or absent.
//
// # Example
//
//	breaks := legend.Breaks{0, 20, 40, 60, 80, 100, math.Inf(1)}
//	colors := []string{"#FEE08B", "#FDAE61", "#F46D43", "#D73027", "#A50026"}
//	scene, err := legend.Build(breaks, colors, legend.DefaultConfig())
//
// The resulting scene has five rectangles, one upward-pointing triangle
// reusing "#A50026", and tick labels at 20, 40, 60, 80 and 100.
package legend

// Package render turns classified grids, vector overlays and legend scenes
// into images.
//
// The raster path uses fogleman/gg for 2D drawing: grid cells are painted
// as filled rectangles under an equirectangular projection, Natural Earth
// geometries are stroked or filled on top, and legend scenes are rasterized
// from their normalized coordinates. Final map+legend composition uses
// disintegration/imaging.
//
// Vector output (SVG) and structured output (JSON) of legend scenes live in
// the sink subpackage.
package render

// Package grid holds gridded geophysical data tables and the operations the
// map pipeline needs on them: loading from NetCDF or CSV, clipping to a
// bounding box, and classifying values into discrete legend bins.
//
// A Grid is a regular latitude/longitude raster stored row-major with NaN
// marking missing cells. Coordinates are normalized on load: latitudes
// ascend south to north and longitudes ascend in [-180, 180].
package grid

import (
	"math"

	"github.com/skoehler/geomap/pkg/errors"
	"github.com/skoehler/geomap/pkg/geo"
)

// Grid is a regular lat/lon raster. Values is row-major: the cell at
// latitude index i and longitude index j is Values[i*len(Lons)+j].
// NaN marks missing data.
type Grid struct {
	Lats   []float64
	Lons   []float64
	Values []float64
}

// Rows returns the number of latitude rows.
func (g *Grid) Rows() int { return len(g.Lats) }

// Cols returns the number of longitude columns.
func (g *Grid) Cols() int { return len(g.Lons) }

// At returns the value at latitude index i and longitude index j.
func (g *Grid) At(i, j int) float64 {
	return g.Values[i*len(g.Lons)+j]
}

// Validate checks the structural invariants: non-empty ascending
// coordinates and a value buffer matching the grid shape.
func (g *Grid) Validate() error {
	if len(g.Lats) == 0 || len(g.Lons) == 0 {
		return errors.New(errors.ErrCodeInvalidGrid, "grid has no coordinates (%d lats, %d lons)", len(g.Lats), len(g.Lons))
	}
	if len(g.Values) != len(g.Lats)*len(g.Lons) {
		return errors.New(errors.ErrCodeInvalidGrid, "value count %d does not match %dx%d grid", len(g.Values), len(g.Lats), len(g.Lons))
	}
	for i := 1; i < len(g.Lats); i++ {
		if g.Lats[i] <= g.Lats[i-1] {
			return errors.New(errors.ErrCodeInvalidGrid, "latitudes must be strictly ascending at index %d", i)
		}
	}
	for j := 1; j < len(g.Lons); j++ {
		if g.Lons[j] <= g.Lons[j-1] {
			return errors.New(errors.ErrCodeInvalidGrid, "longitudes must be strictly ascending at index %d", j)
		}
	}
	return nil
}

// Clip returns the sub-grid whose cell centers fall inside the bounding
// box, boundaries included. The result shares no storage with g.
func (g *Grid) Clip(b geo.BBox) (*Grid, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	i0, i1 := indexRange(g.Lats, b.South, b.North)
	j0, j1 := indexRange(g.Lons, b.West, b.East)
	if i0 > i1 || j0 > j1 {
		return nil, errors.New(errors.ErrCodeInvalidRegion, "bounding box %v contains no grid cells", b)
	}

	out := &Grid{
		Lats:   append([]float64(nil), g.Lats[i0:i1+1]...),
		Lons:   append([]float64(nil), g.Lons[j0:j1+1]...),
		Values: make([]float64, (i1-i0+1)*(j1-j0+1)),
	}
	for i := i0; i <= i1; i++ {
		for j := j0; j <= j1; j++ {
			out.Values[(i-i0)*out.Cols()+(j-j0)] = g.At(i, j)
		}
	}
	return out, nil
}

// indexRange returns the inclusive index span of coords within [lo, hi].
// When nothing falls inside, the returned range is empty (first > last).
func indexRange(coords []float64, lo, hi float64) (int, int) {
	first, last := len(coords), -1
	for i, c := range coords {
		if c >= lo && c <= hi {
			if i < first {
				first = i
			}
			last = i
		}
	}
	return first, last
}

// Stats reports the minimum, maximum and mean of the non-missing values.
// All three are NaN for a grid with no valid cells.
func (g *Grid) Stats() (min, max, mean float64) {
	min, max = math.NaN(), math.NaN()
	sum, n := 0.0, 0
	for _, v := range g.Values {
		if math.IsNaN(v) {
			continue
		}
		if n == 0 || v < min {
			min = v
		}
		if n == 0 || v > max {
			max = v
		}
		sum += v
		n++
	}
	if n == 0 {
		return min, max, math.NaN()
	}
	return min, max, sum / float64(n)
}

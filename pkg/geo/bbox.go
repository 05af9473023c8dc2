// Package geo provides geographic bounding boxes, named regions, and the
// vector overlay handling (coastlines, country borders, oceans) for map
// rendering. Geometry decoding and clipping are delegated to paulmach/orb.
package geo

import (
	"fmt"
	"sort"

	"github.com/paulmach/orb"

	"github.com/skoehler/geomap/pkg/errors"
)

// BBox is a geographic bounding box in degrees. West/East are longitudes in
// [-180, 180], South/North latitudes in [-90, 90].
type BBox struct {
	West  float64 `json:"west" toml:"west"`
	East  float64 `json:"east" toml:"east"`
	South float64 `json:"south" toml:"south"`
	North float64 `json:"north" toml:"north"`
}

// Global covers the whole world.
var Global = BBox{West: -180, East: 180, South: -90, North: 90}

// String formats the box as "W,S,E,N".
func (b BBox) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.West, b.South, b.East, b.North)
}

// Validate checks coordinate ranges and ordering. Boxes crossing the
// antimeridian are not supported.
func (b BBox) Validate() error {
	if b.West < -180 || b.East > 180 || b.South < -90 || b.North > 90 {
		return errors.New(errors.ErrCodeInvalidRegion, "bounding box out of range: %s", b)
	}
	if b.West >= b.East {
		return errors.New(errors.ErrCodeInvalidRegion, "west (%g) must be less than east (%g)", b.West, b.East)
	}
	if b.South >= b.North {
		return errors.New(errors.ErrCodeInvalidRegion, "south (%g) must be less than north (%g)", b.South, b.North)
	}
	return nil
}

// Width returns the longitudinal extent in degrees.
func (b BBox) Width() float64 { return b.East - b.West }

// Height returns the latitudinal extent in degrees.
func (b BBox) Height() float64 { return b.North - b.South }

// Bound converts the box to an orb.Bound for clipping.
func (b BBox) Bound() orb.Bound {
	return orb.Bound{
		Min: orb.Point{b.West, b.South},
		Max: orb.Point{b.East, b.North},
	}
}

// Contains reports whether the point (lon, lat) lies inside the box,
// boundaries included.
func (b BBox) Contains(lon, lat float64) bool {
	return lon >= b.West && lon <= b.East && lat >= b.South && lat <= b.North
}

// regions are the named bounding boxes plot specs can refer to.
var regions = map[string]BBox{
	"global":        Global,
	"africa":        {West: -20, East: 55, South: -36, North: 38},
	"east-asia":     {West: 95, East: 150, South: 15, North: 55},
	"europe":        {West: -12, East: 45, South: 34, North: 72},
	"north-america": {West: -170, East: -50, South: 10, North: 75},
	"oceania":       {West: 110, East: 180, South: -50, North: 0},
	"south-america": {West: -85, East: -32, South: -57, North: 14},
	"south-asia":    {West: 60, East: 100, South: 5, North: 40},
}

// Region looks up a named region.
func Region(name string) (BBox, error) {
	if err := errors.ValidateRegionName(name); err != nil {
		return BBox{}, err
	}
	b, ok := regions[name]
	if !ok {
		return BBox{}, errors.New(errors.ErrCodeInvalidRegion, "unknown region %q (available: %v)", name, RegionNames())
	}
	return b, nil
}

// RegionNames returns the known region names, sorted.
func RegionNames() []string {
	names := make([]string, 0, len(regions))
	for name := range regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package geo

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/clip"
	"github.com/paulmach/orb/geojson"

	"github.com/skoehler/geomap/pkg/errors"
)

// DecodeFeatures parses a GeoJSON feature collection, as delivered by the
// Natural Earth distribution.
func DecodeFeatures(data []byte) (*geojson.FeatureCollection, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode GeoJSON feature collection")
	}
	return fc, nil
}

// ClipFeatures returns a new collection with every geometry clipped to the
// bounding box. Features that fall entirely outside are dropped. The
// clipping math itself lives in orb/clip.
func ClipFeatures(fc *geojson.FeatureCollection, b BBox) *geojson.FeatureCollection {
	out := geojson.NewFeatureCollection()
	bound := b.Bound()
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		clipped := clip.Geometry(bound, f.Geometry)
		if clipped == nil {
			continue
		}
		nf := geojson.NewFeature(clipped)
		nf.Properties = f.Properties
		out.Append(nf)
	}
	return out
}

// Geometries flattens a feature collection into its raw orb geometries,
// in feature order.
func Geometries(fc *geojson.FeatureCollection) []orb.Geometry {
	out := make([]orb.Geometry, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f.Geometry != nil {
			out = append(out, f.Geometry)
		}
	}
	return out
}
